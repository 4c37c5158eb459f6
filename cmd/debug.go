package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btraven00/pallaq/internal/mentions"
	"github.com/btraven00/pallaq/pkg/cds"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug information about probes and citation patterns",
	Long:  `Display debug information about the plot-location probe chain and test the citation patterns against sample text.`,
	Run:   runDebug,
}

var debugListProbes bool
var debugTestLine string

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().BoolVarP(&debugListProbes, "list-probes", "l", false, "List the plot-location probes in evaluation order")
	debugCmd.Flags().StringVarP(&debugTestLine, "test-line", "t", "", "Scan a line of text for figure/table citations")
}

func runDebug(cmd *cobra.Command, args []string) {
	if debugListProbes {
		listProbes()
		return
	}

	if debugTestLine != "" {
		testLine(debugTestLine)
		return
	}

	showGeneralDebug()
}

func listProbes() {
	fmt.Println("=== Plot-Location Probe Chain ===")
	fmt.Println("Probes run in order; the first hit wins, the rest are never tried.")
	fmt.Println()

	for i, name := range cds.ProbeNames() {
		fmt.Printf("%d. %s\n", i+1, name)
	}

	fmt.Println()
	fmt.Printf("Fallback: %q (treated as a normal value by consumers)\n", cds.NotFound)
}

func testLine(line string) {
	fmt.Printf("=== Citation Scan for: %q ===\n\n", line)

	m := mentions.Extract([]string{line})

	if m.Len() == 0 {
		fmt.Println("❌ No figure or table citations found")
		return
	}

	for _, key := range m.Keys() {
		contexts := m.Contexts(key)
		fmt.Printf("✅ %s (%d mention(s))\n", key, len(contexts))

		for _, context := range contexts {
			fmt.Printf("   context: %q\n", context)
		}
	}
}

func showGeneralDebug() {
	fmt.Println("=== Pallaq Debug Information ===")
	fmt.Println()

	fmt.Printf("Plot-location probes: %d\n", len(cds.ProbeNames()))
	fmt.Println()

	fmt.Println("Use --list-probes to see the probe chain")
	fmt.Println("Use --test-line <text> to scan a line for citations")
	fmt.Println()

	fmt.Println("Example commands:")
	fmt.Println("  pallaq debug --list-probes")
	fmt.Println("  pallaq debug --test-line 'As shown in Fig. 3, the cross section rises.'")
}
