package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/audit"
	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var (
	historySince string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded resolution runs",
	Long: `Show resolution runs recorded in the audit log, newest first.

Runs are only recorded when audit_log is set in config.toml (or
SOCIALSCOPE_AUDIT_LOG is exported).

Examples:
  socialscope history
  socialscope history --since yesterday
  socialscope history --limit 5 --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	c := getConfig()
	path := c.AuditLogPath()
	if path == "" {
		return handleErrorMsg(ErrConfigInvalid, "no audit log configured",
			"Run 'socialscope config set audit_log <path>' to start recording runs")
	}
	if historyLimit < 1 {
		return handleErrorMsg(ErrInvalidInput, "--limit must be >= 1", "")
	}

	var since time.Time
	if historySince != "" {
		loc, err := c.Location()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if since, err = dates.ParseDateArg(historySince, nowFunc().In(loc)); err != nil {
			return handleError(ErrInvalidInput, err, "Dates use YYYY-MM-DD")
		}
	}

	entries, err := audit.New(path).ReadSince(since)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	// newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{"runs": entries}, &Meta{Count: len(entries)})
		return nil
	}
	if len(entries) == 0 {
		fmt.Println(ui.Hint("No runs recorded in " + path))
		return nil
	}

	table := ui.NewTable(6)
	table.SetHeader("When", "Op", "Command", "Datasets", "Estimated", "Fallbacks")
	table.AlignRight(3, 4)
	for _, e := range entries {
		fallbacks := ui.Hint("-")
		if len(e.Fallbacks) > 0 {
			fallbacks = ui.Warning(strings.Join(e.Fallbacks, ", "))
		}
		table.AddRow(
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Operation,
			e.Command,
			fmt.Sprintf("%d", e.Datasets),
			fmt.Sprintf("%d", e.Defaults),
			fallbacks,
		)
	}
	fmt.Print(table.String())
	return nil
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only show runs on or after this day")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}
