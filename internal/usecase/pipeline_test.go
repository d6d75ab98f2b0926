package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"redditdigest/internal/domain"
)

type fakeCollector struct {
	posts []domain.Post
	err   error
}

func (f *fakeCollector) Collect(ctx context.Context) ([]domain.Post, error) {
	return f.posts, f.err
}

type fakePrompts struct{}

func (fakePrompts) Build(items []domain.Post) string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return "PROMPT: " + strings.Join(titles, ",")
}

type fakeAnalyzer struct {
	out string
	err error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	return f.out, f.err
}

type fakeWriter struct {
	summary string
	items   []domain.Post
	calls   int
	err     error
}

func (f *fakeWriter) Write(summary string, items []domain.Post, now time.Time) (domain.Report, error) {
	f.calls++
	f.summary = summary
	f.items = items
	if f.err != nil {
		return domain.Report{}, f.err
	}
	return domain.Report{Path: "search_x.md", Summary: summary, Items: items, GeneratedAt: now}, nil
}

type fakeDispatcher struct {
	outcome       domain.DeliveryOutcome
	notifications []string
	notifyErr     error
	delivered     []domain.Report
}

func (f *fakeDispatcher) Deliver(ctx context.Context, report domain.Report) domain.DeliveryOutcome {
	f.delivered = append(f.delivered, report)
	return f.outcome
}

func (f *fakeDispatcher) Notify(ctx context.Context, text string) error {
	f.notifications = append(f.notifications, text)
	return f.notifyErr
}

type fakeRepository struct {
	runs []domain.RunRecord
}

func (f *fakeRepository) SaveRun(ctx context.Context, run domain.RunRecord) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	return f.runs, nil
}

func fourPosts() []domain.Post {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	// Collection order is deliberately shuffled relative to timestamps.
	return []domain.Post{
		{ID: "2", Title: "second", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Title: "fourth", CreatedAt: base},
		{ID: "1", Title: "first", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "3", Title: "third", CreatedAt: base.Add(time.Hour)},
	}
}

func TestAggregateOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	items := Aggregate(fourPosts())

	if len(items) != 4 {
		t.Fatalf("aggregation dropped items: %d", len(items))
	}
	want := []string{"first", "second", "third", "fourth"}
	for i, title := range want {
		if items[i].Title != title {
			t.Fatalf("position %d: got %s want %s", i, items[i].Title, title)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("items not non-increasing by timestamp")
		}
	}
}

func TestAggregateIsStableForTies(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	items := Aggregate([]domain.Post{
		{ID: "a", CreatedAt: ts},
		{ID: "b", CreatedAt: ts},
	})

	if items[0].ID != "a" || items[1].ID != "b" {
		t.Fatalf("tie order not preserved: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestRunEmptyResult(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}
	repo := &fakeRepository{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{out: "unused"},
		Reports:    writer,
		Dispatcher: dispatcher,
		Repository: repo,
	})

	result, err := pipeline.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result != "No Reddit posts found matching the search criteria today." {
		t.Fatalf("unexpected empty-result message: %q", result)
	}
	if writer.calls != 0 {
		t.Fatalf("report written despite empty result")
	}
	if len(dispatcher.notifications) != 1 || dispatcher.notifications[0] != result {
		t.Fatalf("empty-result notification not sent: %+v", dispatcher.notifications)
	}
	if len(repo.runs) != 1 || repo.runs[0].Status != domain.RunEmpty {
		t.Fatalf("empty run not recorded: %+v", repo.runs)
	}
}

func TestRunEndToEndOrdering(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{posts: fourPosts()},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{out: "model summary"},
		Reports:    writer,
		Dispatcher: dispatcher,
	})

	result, err := pipeline.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result != "Analysis and report generated successfully." {
		t.Fatalf("unexpected result: %q", result)
	}
	if writer.summary != "model summary" {
		t.Fatalf("summary not passed through: %q", writer.summary)
	}
	if len(writer.items) != 4 || writer.items[0].Title != "first" || writer.items[3].Title != "fourth" {
		t.Fatalf("writer received unordered items: %+v", writer.items)
	}
	if len(dispatcher.delivered) != 1 {
		t.Fatalf("report not handed to dispatcher")
	}
}

func TestRunAnalysisFallback(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{posts: fourPosts()},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{err: fmt.Errorf("quota exceeded")},
		Reports:    writer,
		Dispatcher: &fakeDispatcher{},
	})

	if _, err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("analysis failure escalated: %v", err)
	}
	if writer.summary != "Error during analysis. Please check the logs." {
		t.Fatalf("fallback summary not used: %q", writer.summary)
	}
}

func TestRunCollectionFailure(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{err: fmt.Errorf("network down")},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{},
		Reports:    writer,
		Dispatcher: dispatcher,
	})

	if _, err := pipeline.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("collection failure not propagated")
	}
	if writer.calls != 0 {
		t.Fatalf("report written despite failed collection")
	}
	if len(dispatcher.notifications) != 1 || !strings.Contains(dispatcher.notifications[0], "network down") {
		t.Fatalf("failure notification missing: %+v", dispatcher.notifications)
	}
}

func TestRunFailureNotificationErrorSwallowed(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{err: fmt.Errorf("boom")},
		Dispatcher: &fakeDispatcher{notifyErr: fmt.Errorf("telegram down")},
		Reports:    &fakeWriter{},
	})

	_, err := pipeline.Run(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("original failure not preserved: %v", err)
	}
}

func TestRunReportWriteFailure(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{posts: fourPosts()},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{out: "s"},
		Reports:    &fakeWriter{err: fmt.Errorf("disk full")},
		Dispatcher: dispatcher,
	})

	if _, err := pipeline.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("report write failure not propagated")
	}
	if len(dispatcher.delivered) != 0 {
		t.Fatalf("delivery attempted without a report")
	}
	if len(dispatcher.notifications) != 1 {
		t.Fatalf("failure notification missing")
	}
}

func TestRunDeliveryFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{posts: fourPosts()},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{out: "s"},
		Reports:    &fakeWriter{},
		Dispatcher: &fakeDispatcher{outcome: domain.DeliveryOutcome{Err: fmt.Errorf("chat gone")}},
	})

	result, err := pipeline.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("delivery failure escalated: %v", err)
	}
	if result != "Analysis and report generated successfully." {
		t.Fatalf("unexpected result: %q", result)
	}
}

func TestRunRecordsCompletedRun(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	pipeline := NewPipeline(PipelineDeps{
		Collector:  &fakeCollector{posts: fourPosts()},
		Prompts:    fakePrompts{},
		Analyzer:   &fakeAnalyzer{out: "s"},
		Reports:    &fakeWriter{},
		Dispatcher: &fakeDispatcher{},
		Repository: repo,
		Subreddits: []string{"stocks"},
		Keywords:   []string{"acme"},
	})

	if _, err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(repo.runs) != 1 {
		t.Fatalf("expected one recorded run")
	}
	run := repo.runs[0]
	if run.Status != domain.RunCompleted || run.ItemCount != 4 || run.ReportPath != "search_x.md" {
		t.Fatalf("unexpected run record: %+v", run)
	}
}
