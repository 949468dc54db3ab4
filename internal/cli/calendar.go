package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/ui"
)

var calendarDays bool

var calendarDisplayContext = ui.NewDisplayContext

var calendarCmd = &cobra.Command{
	Use:   "calendar <dataset-id>",
	Short: "Show the days a dataset has data for",
	Long: `Show a month-by-month calendar with the dataset's available days highlighted.

Examples:
  socialscope calendar drivingsg_20250318_155441
  socialscope calendar drivingsg_20250318_155441 --days
  socialscope calendar drivingsg_20250318_155441 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCalendar,
}

type calendarView struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Path     string   `json:"path"`
	Label    string   `json:"label"`
	Strategy string   `json:"strategy"`
	Days     []string `json:"days"`
}

func runCalendar(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}
	rec, e, err := s.lookup(args[0])
	if err != nil {
		return handleLookupError(err)
	}

	days := e.Calendar.Days()
	if days == nil {
		days = []string{}
	}
	if isJSONOutput() {
		outputSuccessWithWarnings(calendarView{
			ID:       e.DatasetID,
			Source:   rec.Source,
			Path:     rec.Path,
			Label:    rec.Label,
			Strategy: e.Strategy,
			Days:     days,
		}, s.warnings(), s.meta(len(days)))
		return nil
	}

	fmt.Printf("%s  %s %s\n", ui.DatasetID(e.DatasetID), rec.Label, ui.Hint(ui.Count(len(days), "day", "days")))
	fmt.Println(ui.Hint(rec.Source + " · inferred from " + rec.Strategy))
	fmt.Println()

	if calendarDays {
		fmt.Println(strings.Join(days, "\n"))
		return nil
	}
	cols := calendarDisplayContext().CalendarColumns()
	fmt.Print(ui.CalendarRange(e.Range.MinDate, e.Range.MaxDate, cols, e.Calendar.HasDate))
	return nil
}

func init() {
	calendarCmd.Flags().BoolVar(&calendarDays, "days", false, "List available days one per line instead of a calendar grid")
	rootCmd.AddCommand(calendarCmd)
}
