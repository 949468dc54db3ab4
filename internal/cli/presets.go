package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/availability"
	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var presetsCmd = &cobra.Command{
	Use:   "presets <dataset-id>",
	Short: "Show which range presets a dataset supports",
	Long: `Show the range presets (all, last7, last30, last90, custom) for a dataset,
whether each can be selected, and the window each resolves to.

A lastN preset is disabled when the dataset starts fewer than N days before today.

Examples:
  socialscope presets drivingsg_20250318_155441`,
	Args: cobra.ExactArgs(1),
	RunE: runPresets,
}

type presetView struct {
	Preset  string `json:"preset"`
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}
	rec, e, err := s.lookup(args[0])
	if err != nil {
		return handleLookupError(err)
	}

	var views []presetView
	for _, opt := range availability.Options(e.Range, s.today()) {
		v := presetView{Preset: string(opt.Preset), Enabled: opt.Enabled}
		if start, end, err := availability.Window(opt.Preset, e.Range); err == nil {
			v.Start = dates.Format(start)
			v.End = dates.Format(end)
		}
		views = append(views, v)
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{
			"id":      rec.ID,
			"source":  rec.Source,
			"label":   rec.Label,
			"presets": views,
		}, s.meta(len(views)))
		return nil
	}

	fmt.Printf("%s  %s %s\n\n", ui.DatasetID(rec.ID), rec.Label, ui.Hint(rec.Source))
	table := ui.NewTable(3)
	table.SetHeader("", "Preset", "Window")
	for _, v := range views {
		window := ui.Hint("choose start and end")
		if v.Start != "" {
			window = v.Start + " to " + v.End
		}
		preset := v.Preset
		if !v.Enabled {
			preset = ui.Hint(preset)
			window = ui.Hint("needs more history")
		}
		table.AddRow(ui.Verdict(v.Enabled), preset, window)
	}
	fmt.Print(table.String())
	return nil
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
