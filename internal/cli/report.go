package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/report"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var (
	reportOut    string
	reportHTML   bool
	reportTitle  string
	reportSource string
	reportRaw    bool

	reportDisplayContext = ui.NewDisplayContext
	reportMarkdownRender = ui.RenderMarkdown
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a coverage report for the catalog",
	Long: `Build a markdown report with every dataset's resolved range, day count and
how the range was inferred.

By default the report is rendered to the terminal. With --out it is written to
<dir>/<slug>.md, plus an HTML copy with --html.

Examples:
  socialscope report
  socialscope report --source reddit --raw
  socialscope report --out reports --html --title "March coverage"`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportHTML && strings.TrimSpace(reportOut) == "" {
		return handleErrorMsg(ErrMissingArgument, "--html requires --out", "Pass --out <dir>")
	}

	s, err := loadSession(cmd)
	if err != nil {
		return handleSessionError(err)
	}

	opts := report.Options{Title: reportTitle, GeneratedAt: nowFunc().In(s.loc)}
	if reportSource != "" {
		src, err := model.ParseSource(reportSource)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		opts.Source = src
	}
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = report.DefaultTitle
	}
	md := report.Build(s.catalog.Datasets, s.res, opts)

	if reportOut != "" {
		written, err := report.WriteFiles(reportOut, title, md, reportHTML)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]any{"files": written}, s.warnings(), s.meta(len(written)))
			return nil
		}
		for _, path := range written {
			fmt.Println(ui.Successf("Wrote %s", path))
		}
		return nil
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]any{"title": title, "markdown": md}, s.warnings(), s.meta(s.res.Len()))
		return nil
	}
	if reportRaw {
		fmt.Print(md)
		return nil
	}

	display := reportDisplayContext()
	rendered, err := reportMarkdownRender(md, display.TermWidth-ui.MarkdownRenderMargin, display.IsTTY)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write the report into this directory instead of printing it")
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "Also write an HTML copy (requires --out)")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "Report title (default \""+report.DefaultTitle+"\")")
	reportCmd.Flags().StringVar(&reportSource, "source", "", "Only report datasets from this source (reddit or twitter)")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print raw markdown instead of rendering it")
	rootCmd.AddCommand(reportCmd)
}
