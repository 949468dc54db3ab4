package cli

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	builtindocs "github.com/aidanlsb/socialscope/docs"
	"github.com/aidanlsb/socialscope/internal/ui"
)

const (
	docsRoot      = "guide"
	docsIndexPath = "index.yaml"
)

var (
	docsFS             fs.FS = builtindocs.FS
	docsDisplayContext       = ui.NewDisplayContext
	docsMarkdownRender       = ui.RenderMarkdown

	docsSearchLimit int
)

type docsTopic struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
}

type docsIndex struct {
	Topics []docsTopic `yaml:"topics"`
}

type docsSearchMatch struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guide",
	Long: `Read long-form documentation bundled into the socialscope binary.
For command-level usage, use 'socialscope help <command>'.

Examples:
  socialscope docs
  socialscope docs inference
  socialscope docs search timestamp`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := loadDocsTopics(docsFS)
		if err != nil {
			return handleError(ErrInternal, err, "Rebuild socialscope so bundled docs are available")
		}
		if len(args) == 0 {
			return outputDocsTopics(topics)
		}

		topic, ok := findDocsTopic(topics, args[0])
		if !ok {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown docs topic %q", args[0]),
				"Run 'socialscope docs' to list topics")
		}
		return outputDocsTopicContent(topic)
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the bundled guide",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return handleErrorMsg(ErrMissingArgument, "specify a search query", "Usage: socialscope docs search <query>")
		}
		if docsSearchLimit < 1 {
			return handleErrorMsg(ErrInvalidInput, "--limit must be >= 1", "")
		}

		topics, err := loadDocsTopics(docsFS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		matches, err := searchDocs(docsFS, topics, query, docsSearchLimit)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			if matches == nil {
				matches = []docsSearchMatch{}
			}
			outputSuccess(map[string]any{"query": query, "matches": matches}, &Meta{Count: len(matches)})
			return nil
		}
		if len(matches) == 0 {
			fmt.Printf("No docs matched %q.\n", query)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s:%d  %s\n", ui.Accent.Render(m.Topic), m.Line, m.Snippet)
		}
		return nil
	},
}

// loadDocsTopics reads the ordered topic list from the docs index.
func loadDocsTopics(fsys fs.FS) ([]docsTopic, error) {
	raw, err := fs.ReadFile(fsys, path.Join(docsRoot, docsIndexPath))
	if err != nil {
		return nil, fmt.Errorf("read docs index: %w", err)
	}
	var idx docsIndex
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}
	for i, t := range idx.Topics {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Path) == "" {
			return nil, fmt.Errorf("parse docs index: topic %d needs an id and a path", i+1)
		}
		if t.Title == "" {
			idx.Topics[i].Title = t.ID
		}
	}
	return idx.Topics, nil
}

func findDocsTopic(topics []docsTopic, raw string) (docsTopic, bool) {
	want := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), ".md"))
	for _, t := range topics {
		if t.ID == want {
			return t, true
		}
	}
	return docsTopic{}, false
}

func outputDocsTopics(topics []docsTopic) error {
	if isJSONOutput() {
		outputSuccess(map[string]any{"topics": topics}, &Meta{Count: len(topics)})
		return nil
	}
	fmt.Println(ui.Header("Guide topics"))
	fmt.Println()
	table := ui.NewTable(2)
	for _, t := range topics {
		table.AddRow(ui.Accent.Render(t.ID), t.Title)
	}
	fmt.Print(table.String())
	fmt.Println()
	fmt.Println(ui.Hint("Run 'socialscope docs <topic>' to read one"))
	return nil
}

func outputDocsTopicContent(topic docsTopic) error {
	content, err := fs.ReadFile(docsFS, path.Join(docsRoot, topic.Path))
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": string(content),
		}, nil)
		return nil
	}

	rendered := string(content)
	display := docsDisplayContext()
	if display.IsTTY {
		if out, err := docsMarkdownRender(rendered, display.TermWidth-ui.MarkdownRenderMargin, true); err == nil {
			rendered = out
		}
	}
	fmt.Print(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		fmt.Println()
	}
	return nil
}

// searchDocs returns case-insensitive line matches in topic order.
func searchDocs(fsys fs.FS, topics []docsTopic, query string, limit int) ([]docsSearchMatch, error) {
	needle := strings.ToLower(query)
	var matches []docsSearchMatch
	for _, t := range topics {
		content, err := fs.ReadFile(fsys, path.Join(docsRoot, t.Path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.Path, err)
		}
		for i, line := range strings.Split(string(content), "\n") {
			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}
			matches = append(matches, docsSearchMatch{
				Topic:   t.ID,
				Title:   t.Title,
				Line:    i + 1,
				Snippet: strings.TrimSpace(line),
			})
			if len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

func init() {
	docsSearchCmd.Flags().IntVar(&docsSearchLimit, "limit", 20, "Maximum matches to show")
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
