package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"redditdigest/internal/collector"
	"redditdigest/internal/composer"
	"redditdigest/internal/config"
	"redditdigest/internal/delivery"
	"redditdigest/internal/domain"
	"redditdigest/internal/infrastructure/gemini"
	"redditdigest/internal/infrastructure/reddit"
	"redditdigest/internal/infrastructure/scheduler"
	"redditdigest/internal/infrastructure/storage"
	"redditdigest/internal/infrastructure/telegram"
	"redditdigest/internal/logging"
	"redditdigest/internal/ports"
	"redditdigest/internal/report"
	"redditdigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	pipeline   *usecase.Pipeline
	repository ports.RunRepository
	db         *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	searcher := reddit.NewClient(cfg.Reddit, nil, baseLogger.With("component", "reddit"))
	coll := collector.New(searcher, cfg.Search, baseLogger.With("component", "collector"))

	var messenger ports.Messenger
	if cfg.Telegram.Configured() {
		messenger = telegram.NewNotifier(cfg.Telegram)
	}
	dispatcher := delivery.NewDispatcher(messenger, baseLogger.With("component", "delivery"))

	app := &Application{cfg: cfg, logger: baseLogger}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		app.db = db
		app.repository = storage.NewPostgresRepository(db)
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Collector:  coll,
		Prompts:    composer.NewBuilder(cfg.Prompt),
		Analyzer:   gemini.NewClient(cfg.Gemini),
		Reports:    report.NewWriter(cfg.Report.Dir, cfg.Report.Title),
		Dispatcher: dispatcher,
		Repository: app.repository,
		Subreddits: cfg.Search.Subreddits,
		Keywords:   cfg.Search.Keywords,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return app, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) (string, error) {
	return a.pipeline.Run(ctx, time.Now())
}

// RunEvery executes the pipeline immediately and then on the given interval
// until the context is cancelled.
func (a *Application) RunEvery(ctx context.Context, every time.Duration) error {
	sched := usecase.NewScheduler(scheduler.NewInterval(every), a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// History returns the most recent run records; requires a configured database.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if a.repository == nil {
		return nil, fmt.Errorf("run history requires DATABASE_DSN to be configured")
	}
	return a.repository.RecentRuns(ctx, limit)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
