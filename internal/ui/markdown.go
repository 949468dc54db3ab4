package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

// RenderMarkdown renders markdown for terminal display. With color false the
// output carries no ANSI sequences, for pipes and files.
func RenderMarkdown(content string, width int, color bool) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle(color)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour adds trailing newlines; normalize to a single trailing newline.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

func markdownStyle(color bool) ansi.StyleConfig {
	if !color {
		cfg := styles.NoTTYStyleConfig
		cfg.Document.Margin = mdUintPtr(MarkdownRenderMargin)
		return cfg
	}

	cfg := styles.DarkStyleConfig
	cfg.Document.Margin = mdUintPtr(MarkdownRenderMargin)
	cfg.Heading.Color = nil
	if c, ok := AccentColor(); ok {
		cfg.Heading.Color = mdStringPtr(c)
	}
	cfg.H1.BackgroundColor = nil
	cfg.H1.Color = nil
	cfg.Table = ansi.StyleTable{
		CenterSeparator: mdStringPtr("│"),
		ColumnSeparator: mdStringPtr("│"),
		RowSeparator:    mdStringPtr("─"),
	}
	return cfg
}

func mdStringPtr(v string) *string { return &v }

func mdUintPtr(v uint) *uint { return &v }
