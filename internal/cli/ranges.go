package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/index"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var rangesSource string

type rangeView struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	MinDate    string `json:"min_date"`
	MaxDate    string `json:"max_date"`
	Label      string `json:"label"`
	Days       int    `json:"days"`
	Strategy   string `json:"strategy"`
	IsDefault  bool   `json:"is_default"`
	IsFallback bool   `json:"is_fallback"`
	Reason     string `json:"reason,omitempty"`
}

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Resolve and list every dataset's date range",
	Long: `Resolve each dataset's date range from its date metadata, its filename,
or a default window ending today, and list the result.

Ranges marked (estimated) were synthesized because neither source yielded a date.

Examples:
  socialscope ranges
  socialscope ranges --source twitter --json`,
	Args: cobra.NoArgs,
	RunE: runRanges,
}

func runRanges(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}
	source, err := parseSourceFilter(rangesSource)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	db, err := s.openIndex()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer db.Close()
	records, err := db.All(source)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	views := rangeViews(records)

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]any{"ranges": views}, s.warnings(), s.meta(len(views)))
		return nil
	}

	s.printWarnings()
	fmt.Print(renderRanges(views))
	return nil
}

// rangeViews converts indexed datasets, already in resolution order.
func rangeViews(records []index.DatasetResult) []rangeView {
	views := make([]rangeView, 0, len(records))
	for _, r := range records {
		views = append(views, rangeView{
			ID:         r.ID,
			Source:     r.Source,
			MinDate:    r.MinDate,
			MaxDate:    r.MaxDate,
			Label:      r.Label,
			Days:       r.Days,
			Strategy:   r.Strategy,
			IsDefault:  r.IsDefault,
			IsFallback: r.IsFallback,
			Reason:     r.Reason,
		})
	}
	return views
}

func renderRanges(views []rangeView) string {
	if len(views) == 0 {
		return ui.Hint("No datasets to resolve") + "\n"
	}

	table := ui.NewTable(5)
	table.SetHeader("ID", "Source", "Range", "Days", "Inferred from")
	table.AlignRight(3)
	for _, v := range views {
		label := v.Label
		if v.IsDefault {
			label = ui.Hint(label)
		}
		table.AddRow(ui.DatasetID(v.ID), v.Source, label, fmt.Sprintf("%d", v.Days), v.Strategy)
	}
	return fmt.Sprintf("%s %s\n\n%s", ui.Header("Date ranges"),
		ui.Hint(ui.Count(len(views), "dataset", "datasets")), table.String())
}

func init() {
	rangesCmd.Flags().StringVar(&rangesSource, "source", "", "Only resolve datasets from this source (reddit or twitter)")
	rootCmd.AddCommand(rangesCmd)
}
