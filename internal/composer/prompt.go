package composer

import (
	"fmt"
	"strings"

	"redditdigest/internal/config"
	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

const promptHeader = `Analyze these Reddit posts and provide:
1. A brief overview of the main topics
2. Key insights from the comments
3. Notable trends or patterns
4. Overall sentiment analysis

Here are the posts and comments:
`

// Builder renders a length-bounded analysis prompt. Free-text fields are cut
// at a hard rune limit with an unconditionally appended "..." suffix.
type Builder struct {
	bodyLimit    int
	commentLimit int
	maxComments  int
}

var _ ports.PromptBuilder = (*Builder)(nil)

// NewBuilder applies the configured caps, falling back to 500/200/5.
func NewBuilder(cfg config.PromptConfig) *Builder {
	b := &Builder{
		bodyLimit:    cfg.BodyLimit,
		commentLimit: cfg.CommentLimit,
		maxComments:  cfg.MaxComments,
	}
	if b.bodyLimit <= 0 {
		b.bodyLimit = 500
	}
	if b.commentLimit <= 0 {
		b.commentLimit = 200
	}
	if b.maxComments <= 0 {
		b.maxComments = 5
	}
	return b
}

// Build produces the instruction header followed by one block per post.
func (b *Builder) Build(items []domain.Post) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)

	for _, item := range items {
		fmt.Fprintf(&sb, "\nPOST: %s\n", item.Title)
		fmt.Fprintf(&sb, "DATE: %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&sb, "CONTENT: %s...\n", Truncate(item.Body, b.bodyLimit))
		sb.WriteString("COMMENTS:\n")
		for i, comment := range item.Comments {
			if i >= b.maxComments {
				break
			}
			fmt.Fprintf(&sb, "- %s...\n", Truncate(comment, b.commentLimit))
		}
		sb.WriteString("---\n")
	}

	return sb.String()
}

// Truncate cuts s to at most limit runes. The cut is a hard character-count
// bound, not word-boundary aware.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
