package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/availability"
	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var checkPreset string

// maxMissingShown caps the missing days printed in text mode.
const maxMissingShown = 20

var checkCmd = &cobra.Command{
	Use:   "check <dataset-id> [start end]",
	Short: "Check whether a dataset covers a date selection",
	Long: `Check whether every day of a selection has data for a dataset, and list
the days that are missing.

The selection is either explicit bounds (YYYY-MM-DD, today, yesterday,
tomorrow) or a preset resolved against the dataset's range.

Examples:
  socialscope check drivingsg_20250318_155441 2025-03-01 2025-03-18
  socialscope check drivingsg_20250318_155441 2025-03-01 today
  socialscope check drivingsg_20250318_155441 --preset last7`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runCheck,
}

type checkView struct {
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Label   string   `json:"label"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Covered bool     `json:"covered"`
	Missing []string `json:"missing"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		return handleErrorMsg(ErrMissingArgument, "both start and end are required", "Pass two dates or use --preset")
	}
	if len(args) == 3 && checkPreset != "" {
		return handleErrorMsg(ErrInvalidInput, "use either explicit dates or --preset, not both", "")
	}
	if len(args) == 1 && checkPreset == "" {
		return handleErrorMsg(ErrMissingArgument, "no selection given", "Pass start and end dates or use --preset")
	}

	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}
	rec, e, err := s.lookup(args[0])
	if err != nil {
		return handleLookupError(err)
	}

	var start, end time.Time
	if checkPreset != "" {
		p, err := availability.ParsePreset(checkPreset)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		start, end, err = availability.Window(p, e.Range)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
	} else {
		now := nowFunc().In(s.loc)
		if start, err = dates.ParseDateArg(args[1], now); err != nil {
			return handleError(ErrInvalidInput, err, "Dates use YYYY-MM-DD")
		}
		if end, err = dates.ParseDateArg(args[2], now); err != nil {
			return handleError(ErrInvalidInput, err, "Dates use YYYY-MM-DD")
		}
	}

	missing := e.Calendar.Missing(start, end)
	if missing == nil {
		missing = []string{}
	}
	view := checkView{
		ID:      rec.ID,
		Source:  rec.Source,
		Label:   rec.Label,
		Start:   dates.Format(start),
		End:     dates.Format(end),
		Covered: e.Calendar.Covers(start, end),
		Missing: missing,
	}

	if isJSONOutput() {
		outputSuccess(view, s.meta(len(missing)))
		return nil
	}

	fmt.Printf("%s  %s\n", ui.DatasetID(view.ID), view.Label)
	if end.Before(start) {
		fmt.Println(ui.Errorf("%s to %s is not a valid selection: start is after end", view.Start, view.End))
		return nil
	}
	if view.Covered {
		fmt.Println(ui.Successf("%s to %s is fully covered", view.Start, view.End))
		return nil
	}
	fmt.Println(ui.Errorf("%s to %s is missing %s", view.Start, view.End, ui.Count(len(missing), "day", "days")))
	shown := missing
	if len(shown) > maxMissingShown {
		shown = shown[:maxMissingShown]
	}
	fmt.Print(ui.Hint(indentLines(shown)))
	if len(missing) > len(shown) {
		fmt.Println(ui.Hint(fmt.Sprintf("  ... and %d more", len(missing)-len(shown))))
	}
	return nil
}

func indentLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	checkCmd.Flags().StringVar(&checkPreset, "preset", "", "Resolve the selection from a preset (all, last7, last30, last90)")
	rootCmd.AddCommand(checkCmd)
}
