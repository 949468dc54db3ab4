package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aidanlsb/socialscope/internal/atomicfile"
	"github.com/aidanlsb/socialscope/internal/slugs"
)

// WriteFiles writes <slug>.md, and <slug>.html when withHTML is set, into
// dir. It returns the paths written.
func WriteFiles(dir, title, markdown string, withHTML bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	stem := slugs.File(title)
	mdPath := filepath.Join(dir, stem+".md")
	if err := atomicfile.WriteString(mdPath, markdown, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mdPath, err)
	}
	written := []string{mdPath}

	if withHTML {
		page, err := ToHTML(title, markdown)
		if err != nil {
			return written, err
		}
		htmlPath := filepath.Join(dir, stem+".html")
		if err := atomicfile.WriteString(htmlPath, page, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", htmlPath, err)
		}
		written = append(written, htmlPath)
	}
	return written, nil
}
