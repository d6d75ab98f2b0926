package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

const (
	// emptyResultMessage is the user-visible terminal message when nothing
	// matched the search criteria. Not an error.
	emptyResultMessage = "No Reddit posts found matching the search criteria today."

	successMessage = "Analysis and report generated successfully."

	// analysisFallback replaces the summary when the model call fails; a bad
	// model response degrades the report, never the run.
	analysisFallback = "Error during analysis. Please check the logs."
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Collector  ports.PostCollector
	Prompts    ports.PromptBuilder
	Analyzer   ports.Analyzer
	Reports    ports.ReportWriter
	Dispatcher ports.Dispatcher
	Repository ports.RunRepository
	Subreddits []string
	Keywords   []string
	Logger     *slog.Logger
}

// Pipeline sequences collect → aggregate → analyze → report → deliver.
// Only collection and report-write failures escalate to the caller; analysis
// and delivery degrade in place.
type Pipeline struct {
	collector  ports.PostCollector
	prompts    ports.PromptBuilder
	analyzer   ports.Analyzer
	reports    ports.ReportWriter
	dispatcher ports.Dispatcher
	repository ports.RunRepository
	subreddits []string
	keywords   []string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		collector:  deps.Collector,
		prompts:    deps.Prompts,
		analyzer:   deps.Analyzer,
		reports:    deps.Reports,
		dispatcher: deps.Dispatcher,
		repository: deps.Repository,
		subreddits: deps.Subreddits,
		keywords:   deps.Keywords,
		logger:     deps.Logger,
	}
}

// Run executes one full pipeline pass and returns a human-readable result
// string, or the run-fatal error after a best-effort failure notification.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (string, error) {
	if p.collector == nil {
		return "", fmt.Errorf("post collector is not configured")
	}
	if p.reports == nil {
		return "", fmt.Errorf("report writer is not configured")
	}

	p.info("collecting posts")
	posts, err := p.collector.Collect(ctx)
	if err != nil {
		p.notifyFailure(ctx, err)
		p.saveRun(ctx, 0, "", domain.RunFailed)
		return "", fmt.Errorf("collect posts: %w", err)
	}

	items := Aggregate(posts)
	if len(items) == 0 {
		p.info("no posts matched the search criteria")
		if p.dispatcher != nil {
			if err := p.dispatcher.Notify(ctx, emptyResultMessage); err != nil {
				p.error("send empty-result notification", "error", err)
			}
		}
		p.saveRun(ctx, 0, "", domain.RunEmpty)
		return emptyResultMessage, nil
	}
	p.info("posts aggregated", "count", len(items))

	summary := analysisFallback
	if p.prompts != nil && p.analyzer != nil {
		out, err := p.analyzer.Analyze(ctx, p.prompts.Build(items))
		if err != nil {
			p.error("analysis failed", "error", err)
		} else {
			summary = out
		}
	}

	report, err := p.reports.Write(summary, items, now)
	if err != nil {
		p.notifyFailure(ctx, err)
		p.saveRun(ctx, len(items), "", domain.RunFailed)
		return "", fmt.Errorf("write report: %w", err)
	}
	p.info("report written", "path", report.Path)

	if p.dispatcher != nil {
		outcome := p.dispatcher.Deliver(ctx, report)
		switch {
		case outcome.Skipped:
		case outcome.Err != nil:
			p.error("delivery failed", "error", outcome.Err)
		default:
			p.info("report delivered", "path", report.Path)
		}
	}

	p.saveRun(ctx, len(items), report.Path, domain.RunCompleted)
	return successMessage, nil
}

// Aggregate orders collected posts newest first without dropping any. Ties
// keep their collection order.
func Aggregate(posts []domain.Post) []domain.Post {
	items := make([]domain.Post, len(posts))
	copy(items, posts)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// notifyFailure sends a best-effort error notification; its own failure is
// logged and swallowed so the original error propagates cleanly.
func (p *Pipeline) notifyFailure(ctx context.Context, cause error) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Notify(ctx, fmt.Sprintf("Reddit digest run failed: %v", cause)); err != nil {
		p.error("send failure notification", "error", err)
	}
}

// saveRun records the outcome; run history never fails the run.
func (p *Pipeline) saveRun(ctx context.Context, itemCount int, reportPath string, status domain.RunStatus) {
	if p.repository == nil {
		return
	}
	run := domain.RunRecord{
		Subreddits: p.subreddits,
		Keywords:   p.keywords,
		ItemCount:  itemCount,
		ReportPath: reportPath,
		Status:     status,
	}
	if err := p.repository.SaveRun(ctx, run); err != nil {
		p.error("persist run history", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
