package ports

import (
	"context"
	"time"

	"redditdigest/internal/domain"
)

// PostSearcher executes a single subreddit query against the content source.
type PostSearcher interface {
	Search(ctx context.Context, subreddit, query string, days int) ([]domain.Post, error)
	Newest(ctx context.Context, subreddit string) ([]domain.Post, error)
}

// PostCollector gathers matched posts across all configured search criteria.
type PostCollector interface {
	Collect(ctx context.Context) ([]domain.Post, error)
}

// PromptBuilder renders a bounded-length analysis prompt from ordered posts.
type PromptBuilder interface {
	Build(items []domain.Post) string
}

// Analyzer turns an analysis prompt into natural-language prose.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// ReportWriter persists the analysis summary plus raw posts as one document.
type ReportWriter interface {
	Write(summary string, items []domain.Post, now time.Time) (domain.Report, error)
}

// Messenger delivers text and documents to the configured chat.
type Messenger interface {
	SendMessage(ctx context.Context, text string) error
	SendDocument(ctx context.Context, path, caption string) error
}

// Dispatcher sends the report through the messaging channel and owns the
// cleanup of the on-disk artifact once handed a report.
type Dispatcher interface {
	Deliver(ctx context.Context, report domain.Report) domain.DeliveryOutcome
	Notify(ctx context.Context, text string) error
}

// RunRepository persists run outcomes for history/audit.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
