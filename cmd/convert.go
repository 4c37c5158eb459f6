package cmd

import (
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/spf13/cobra"

	"github.com/btraven00/pallaq/internal/harvester"
)

var convertOutput string

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <pdf>",
	Short: "Convert a PDF to line-oriented plain text",
	Long: `Convert extracts the text of a single PDF and flattens it to one
logical statement per line, the format the mentions stage consumes. It is the
standalone counterpart to the extraction step of the harvest command.

Examples:
  pallaq convert paper.pdf
  pallaq convert paper.pdf --output-file document.mmd`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertOutput, "output-file", "", "write to file instead of stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	res, err := docconv.ConvertPath(args[0])
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	if strings.TrimSpace(res.Body) == "" {
		return fmt.Errorf("no readable text found in %s", args[0])
	}

	text := strings.Join(harvester.FlattenParagraphs(res.Body), "\n") + "\n"

	if convertOutput == "" {
		fmt.Print(text)
		return nil
	}

	if err := os.WriteFile(convertOutput, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", convertOutput, err)
	}

	if !quiet {
		fmt.Printf("Wrote %s\n", convertOutput)
	}

	return nil
}
