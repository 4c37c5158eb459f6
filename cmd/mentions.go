package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btraven00/pallaq/internal/mentions"
	"github.com/btraven00/pallaq/pkg/jsonutil"
	"github.com/btraven00/pallaq/pkg/runlog"
)

var (
	mentionsOut      string
	mentionsFile     string
	mentionsTextFile string
	mentionsPandoc   string
)

// mentionsCmd represents the mentions command
var mentionsCmd = &cobra.Command{
	Use:   "mentions <input-root>",
	Short: "Mine harvested documents for figure and table mentions",
	Long: `Mentions walks the document folders under the input root, scans each
extracted text file for figure and table citations, normalizes the markup in
their sentence contexts, and writes one structured JSON record set per
document.

Examples:
  pallaq mentions ./cds_data/ATLAS_Papers
  pallaq mentions ./cds_data/ATLAS_Papers --out ./records --file mentions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMentions,
}

func init() {
	rootCmd.AddCommand(mentionsCmd)

	mentionsCmd.Flags().StringVar(&mentionsOut, "out", "", "output root (default: write beside each document)")
	mentionsCmd.Flags().StringVar(&mentionsFile, "file", mentions.DefaultOutputFile, "output file name per document")
	mentionsCmd.Flags().StringVar(&mentionsTextFile, "text-file", mentions.DefaultTextFile, "extracted text file name per document")
	mentionsCmd.Flags().StringVar(&mentionsPandoc, "pandoc", "", "path to the pandoc binary (default: pandoc from PATH)")
}

func runMentions(cmd *cobra.Command, args []string) error {
	inputRoot := args[0]

	info, err := os.Stat(inputRoot)
	if err != nil {
		return fmt.Errorf("input root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("input root %s is not a directory", inputRoot)
	}

	if mentionsOut != "" {
		if err := os.MkdirAll(mentionsOut, 0o755); err != nil {
			return fmt.Errorf("create output root: %w", err)
		}
	}

	run, err := runlog.New(inputRoot, "mentions", quiet)
	if err != nil {
		return err
	}
	defer run.Close()

	stage := mentions.NewStage(mentions.Config{
		InputRoot:  inputRoot,
		OutputRoot: mentionsOut,
		OutputFile: mentionsFile,
		TextFile:   mentionsTextFile,
		Converter:  &mentions.PandocConverter{Binary: mentionsPandoc},
		Run:        run,
	})

	stats, err := stage.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("mine mentions under %s: %w", inputRoot, err)
	}

	if output == "json" {
		data, err := jsonutil.MarshalIndent(stats)
		if err != nil {
			return err
		}

		fmt.Println(string(data))

		return nil
	}

	fmt.Printf("📚 Documents processed: %d\n", stats.Documents)
	fmt.Printf("🧾 Records written: %d\n", stats.Records)

	if stats.Skipped > 0 {
		fmt.Printf("⏭️  Skipped: %d\n", stats.Skipped)
	}

	fmt.Printf("🪵 Run log: %s\n", run.LogPath)

	return nil
}
