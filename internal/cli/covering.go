package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/index"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var coveringTo string

var coveringCmd = &cobra.Command{
	Use:   "covering <date>",
	Short: "List the datasets that have data for a day",
	Long: `List the datasets whose availability calendar contains a day.

With --to, list every dataset available on at least one day of the span and
how many datasets cover each day.

Examples:
  socialscope covering 2025-03-01
  socialscope covering yesterday
  socialscope covering 2025-03-01 --to 2025-03-07`,
	Args: cobra.ExactArgs(1),
	RunE: runCovering,
}

func runCovering(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}

	now := nowFunc().In(s.loc)
	day, err := dates.ParseDateArg(args[0], now)
	if err != nil {
		return handleError(ErrInvalidInput, err, "Dates use YYYY-MM-DD")
	}
	end := day
	if coveringTo != "" {
		if end, err = dates.ParseDateArg(coveringTo, now); err != nil {
			return handleError(ErrInvalidInput, err, "Dates use YYYY-MM-DD")
		}
		if end.Before(day) {
			return handleErrorMsg(ErrInvalidInput, "--to is before the start date", "")
		}
	}

	db, err := s.openIndex()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer db.Close()

	first, last := dates.Format(day), dates.Format(end)
	if coveringTo == "" {
		return printCoveringDay(db, first)
	}
	return printCoveringSpan(db, first, last)
}

func printCoveringDay(db *index.Database, day string) error {
	results, err := db.DatasetsCovering(day)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if results == nil {
		results = []index.DatasetResult{}
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{"date": day, "datasets": results}, &Meta{Count: len(results)})
		return nil
	}
	if len(results) == 0 {
		fmt.Println(ui.Hint("No datasets cover " + day))
		return nil
	}
	fmt.Printf("%s %s\n\n", ui.Header(day), ui.Hint(ui.Count(len(results), "dataset", "datasets")))
	fmt.Print(datasetResultsTable(results))
	return nil
}

func printCoveringSpan(db *index.Database, start, end string) error {
	results, err := db.DatasetsOverlapping(start, end)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	counts, err := db.DayCounts(start, end)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if results == nil {
		results = []index.DatasetResult{}
	}
	if counts == nil {
		counts = []index.DayCount{}
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{
			"start":    start,
			"end":      end,
			"datasets": results,
			"days":     counts,
		}, &Meta{Count: len(results)})
		return nil
	}
	if len(results) == 0 {
		fmt.Println(ui.Hint(fmt.Sprintf("No datasets cover %s to %s", start, end)))
		return nil
	}
	fmt.Printf("%s %s\n\n", ui.Header(start+" to "+end), ui.Hint(ui.Count(len(results), "dataset", "datasets")))
	fmt.Print(datasetResultsTable(results))
	fmt.Println()

	table := ui.NewTable(2)
	table.SetHeader("Day", "Datasets")
	for _, c := range counts {
		table.AddRow(c.Date, fmt.Sprintf("%d", c.Datasets))
	}
	fmt.Print(table.String())
	return nil
}

func datasetResultsTable(results []index.DatasetResult) string {
	table := ui.NewTable(4)
	table.SetHeader("ID", "Source", "Range", "Inferred from")
	for _, r := range results {
		rng := r.MinDate + " to " + r.MaxDate
		if r.IsDefault {
			rng = ui.Hint(rng + " (estimated)")
		}
		table.AddRow(ui.DatasetID(r.ID), r.Source, rng, r.Strategy)
	}
	return table.String()
}

func init() {
	coveringCmd.Flags().StringVar(&coveringTo, "to", "", "End of a span starting at <date>")
	rootCmd.AddCommand(coveringCmd)
}
