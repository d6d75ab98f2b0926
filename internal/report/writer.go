package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"redditdigest/internal/composer"
	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

// commentCap bounds each rendered comment line in the raw-data listing.
const commentCap = 500

// Writer renders the analysis summary plus the raw post listing into one
// markdown document. Filenames embed the run timestamp to whole-second
// resolution; runs are expected to be spaced far apart.
type Writer struct {
	dir   string
	title string
}

var _ ports.ReportWriter = (*Writer)(nil)

// NewWriter targets the given directory with the given document title.
func NewWriter(dir, title string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, title: title}
}

// Write persists the report and returns its descriptor. A failed write is
// fatal to the run and is not retried.
func (w *Writer) Write(summary string, items []domain.Post, now time.Time) (domain.Report, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("search_%s.md", now.Format("20060102_150405")))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", w.title)
	fmt.Fprintf(&sb, "Analysis Date: %s\n\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString("## Analysis Summary\n\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n")
	sb.WriteString("## Raw Data\n\n")

	for _, item := range items {
		fmt.Fprintf(&sb, "### %s\n", item.Title)
		fmt.Fprintf(&sb, "[Link to post](%s)\n\n", item.URL)
		sb.WriteString("#### Top Comments:\n")
		for _, comment := range item.Comments {
			fmt.Fprintf(&sb, "- %s...\n", composer.Truncate(comment, commentCap))
		}
		sb.WriteString("\n---\n\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return domain.Report{}, fmt.Errorf("write report %s: %w", path, err)
	}

	return domain.Report{
		Path:        path,
		Title:       w.title,
		GeneratedAt: now,
		Summary:     summary,
		Items:       items,
	}, nil
}
