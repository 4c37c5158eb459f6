package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/btraven00/pallaq/pkg/jsonutil"
)

type collectionInfo struct {
	Name        string `json:"name"`
	Experiment  string `json:"experiment"`
	Description string `json:"description"`
}

// knownCollections lists the CDS collections the pipeline has been run
// against. Any collection name the search endpoint accepts works; these are
// a starting point, not a whitelist.
var knownCollections = []collectionInfo{
	{"ATLAS Papers", "ATLAS", "Published ATLAS physics papers"},
	{"ATLAS PUB Notes", "ATLAS", "Public ATLAS notes with preliminary material"},
	{"ATLAS Conference Notes", "ATLAS", "Results prepared for conferences"},
	{"CMS Physics Analysis Summaries", "CMS", "Public CMS analysis summaries"},
	{"CMS Papers", "CMS", "Published CMS physics papers"},
}

// collectionsCmd represents the collections command
var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List known CDS collections",
	Long: `Collections prints the CDS collections this pipeline is commonly run
against, as a quick reference for the harvest command's collection argument.`,
	RunE: runCollections,
}

var collectionsJSON bool

func init() {
	rootCmd.AddCommand(collectionsCmd)

	collectionsCmd.Flags().BoolVar(&collectionsJSON, "json", false, "output as JSON")
}

func runCollections(cmd *cobra.Command, args []string) error {
	if collectionsJSON || output == "json" {
		data, err := jsonutil.MarshalIndent(knownCollections)
		if err != nil {
			return err
		}

		fmt.Println(string(data))

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Collection", "Experiment", "Description"})
	table.SetBorder(false)

	for _, c := range knownCollections {
		table.Append([]string{c.Name, c.Experiment, c.Description})
	}

	table.Render()

	return nil
}
