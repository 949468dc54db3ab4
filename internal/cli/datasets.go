package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var datasetsSource string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the dataset catalog",
	Long: `List every dataset in the catalog, newest first.

Examples:
  socialscope datasets
  socialscope datasets --source reddit
  socialscope datasets --json`,
	Args: cobra.NoArgs,
	RunE: runDatasets,
}

func runDatasets(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}
	list, err := s.datasetsFor(datasetsSource)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	if isJSONOutput() {
		if list == nil {
			list = []model.Dataset{}
		}
		outputSuccessWithWarnings(map[string]any{"datasets": list}, s.warnings(), s.meta(len(list)))
		return nil
	}

	s.printWarnings()
	if len(list) == 0 {
		fmt.Println(ui.Hint("No datasets found in " + s.catalog.Origin))
		return nil
	}

	fmt.Printf("%s %s\n\n", ui.Header("Datasets"), ui.Hint(ui.Count(len(list), "dataset", "datasets")))
	table := ui.NewTable(6)
	table.SetHeader("ID", "Source", "Type", "Items", "Size", "Date metadata")
	table.AlignRight(3, 4)
	for _, ds := range list {
		meta := ds.DateRange
		if meta == "" {
			meta = ui.Hint("-")
		}
		table.AddRow(ui.DatasetID(ds.ID), string(ds.Source), ds.Type, fmt.Sprintf("%d", ds.ItemCount), ds.Size, meta)
	}
	fmt.Print(table.String())
	return nil
}

func init() {
	datasetsCmd.Flags().StringVar(&datasetsSource, "source", "", "Only list datasets from this source (reddit or twitter)")
	rootCmd.AddCommand(datasetsCmd)
}
