package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/socialscope/internal/slugs"
)

// ToHTML converts a markdown report into a standalone HTML page. Headings
// get ids from slugs.Anchor so sections can be linked.
func ToHTML(title, markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	used := make(map[string]int)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id := slugs.Anchor(headingText(heading, source))
		if id == "" {
			return ast.WalkContinue, nil
		}
		if k := used[id]; k > 0 {
			used[id] = k + 1
			id = fmt.Sprintf("%s-%d", id, k)
		} else {
			used[id] = 1
		}
		heading.SetAttributeString("id", []byte(id))
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := md.Renderer().Render(&body, source, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for child := h.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}
