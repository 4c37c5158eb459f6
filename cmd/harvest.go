package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/btraven00/pallaq/internal/harvester"
	"github.com/btraven00/pallaq/pkg/cds"
	"github.com/btraven00/pallaq/pkg/jsonutil"
	"github.com/btraven00/pallaq/pkg/runlog"
)

var (
	harvestStart     int
	harvestDepth     int
	harvestOut       string
	harvestCount     bool
	harvestExtract   bool
	harvestOverwrite bool
	harvestTool      string
	harvestTimeout   int
	harvestValidate  bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest <collection>",
	Short: "Crawl a CDS collection and mirror its documents locally",
	Long: `Harvest pages through the search results of a CDS collection, keeps a
per-document folder with metadata and the primary PDF, and optionally runs
text extraction bounded to the pages before the references section.

Documents already mirrored are skipped unless the record's modification date
moved forward; the crawl is restartable at any time.

Examples:
  pallaq harvest "ATLAS Papers" --depth 3 --out ./cds_data
  pallaq harvest "ATLAS Papers" --depth 3 --out ./cds_data --extract --tool nougat
  pallaq harvest "CMS Physics Analysis Summaries" --depth 0 --count`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().IntVar(&harvestStart, "start", 0, "result page to start from")
	harvestCmd.Flags().IntVar(&harvestDepth, "depth", 0, "last result page to visit (negative = unbounded)")
	harvestCmd.Flags().StringVar(&harvestOut, "out", "", "output root directory")
	harvestCmd.Flags().BoolVar(&harvestCount, "count", false, "print the collection's record count and exit")
	harvestCmd.Flags().BoolVar(&harvestExtract, "extract", false, "run text extraction on downloaded PDFs")
	harvestCmd.Flags().BoolVar(&harvestOverwrite, "overwrite", false, "refresh metadata and re-extract even for unchanged documents")
	harvestCmd.Flags().StringVar(&harvestTool, "tool", "nougat", "text extraction tool (nougat, docconv)")
	harvestCmd.Flags().IntVar(&harvestTimeout, "timeout", 30, "timeout in seconds for HTTP requests")
	harvestCmd.Flags().BoolVar(&harvestValidate, "validate-pdf", false, "validate downloaded PDFs structurally")

	harvestCmd.MarkFlagRequired("depth")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	collection := args[0]

	client := cds.NewClient(
		cds.WithTimeout(time.Duration(harvestTimeout)*time.Second),
		cds.WithVerbose(!quiet),
		cds.WithValidation(harvestValidate),
	)

	if harvestCount {
		count, err := client.Count(cmd.Context(), collection)
		if err != nil {
			return fmt.Errorf("count records in %q: %w", collection, err)
		}

		if output == "json" {
			data, err := jsonutil.MarshalIndent(map[string]interface{}{
				"collection": collection,
				"records":    count,
			})
			if err != nil {
				return err
			}

			fmt.Println(string(data))
		} else {
			fmt.Printf("Records: %d\n", count)
		}

		return nil
	}

	if harvestOut == "" {
		return fmt.Errorf("--out is required unless --count is set")
	}

	collectionDir := filepath.Join(harvestOut, cds.CollectionSlug(collection))
	if err := os.MkdirAll(collectionDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	run, err := runlog.New(collectionDir, "harvest", quiet)
	if err != nil {
		return err
	}
	defer run.Close()

	var tool harvester.TextTool

	if harvestExtract {
		switch harvestTool {
		case "nougat":
			tool = &harvester.NougatTool{}
		case "docconv":
			tool = &harvester.DocconvTool{}
		default:
			return fmt.Errorf("unknown extraction tool: %s", harvestTool)
		}
	}

	h := harvester.New(harvester.Config{
		Collection: collection,
		StartPage:  harvestStart,
		Depth:      harvestDepth,
		OutputRoot: harvestOut,
		Extract:    harvestExtract,
		Overwrite:  harvestOverwrite,
		Client:     client,
		Tool:       tool,
		Run:        run,
	})

	stats, err := h.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("harvest %q: %w", collection, err)
	}

	return outputHarvestStats(stats, run)
}

func outputHarvestStats(stats *harvester.Stats, run *runlog.Run) error {
	if output == "json" {
		data, err := jsonutil.MarshalIndent(stats)
		if err != nil {
			return err
		}

		fmt.Println(string(data))

		return nil
	}

	fmt.Printf("📄 Pages visited: %d\n", stats.Pages)
	fmt.Printf("📚 Documents seen: %d\n", stats.Documents)
	fmt.Printf("🔄 Refreshed: %d\n", stats.Refreshed)
	fmt.Printf("⏭️  Unchanged: %d\n", stats.Skipped)
	fmt.Printf("📝 Extracted: %d\n", stats.Extracted)

	if stats.Failures > 0 {
		fmt.Printf("❌ Failures: %d (see %s)\n", stats.Failures, harvester.FailureFileName)
	}

	fmt.Printf("🪵 Run log: %s\n", run.LogPath)

	return nil
}
