package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"redditdigest/internal/app"
	"redditdigest/internal/config"
	"redditdigest/internal/logging"
)

func newRootCommand() *cobra.Command {
	var (
		subreddits []string
		keywords   []string
		days       int
		reportDir  string
		every      time.Duration
	)

	cmd := &cobra.Command{
		Use:          "redditdigest",
		Short:        "Search Reddit, summarize matches with Gemini, deliver the report over Telegram",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if len(subreddits) > 0 {
				cfg.Search.Subreddits = subreddits
			}
			if len(keywords) > 0 {
				cfg.Search.Keywords = keywords
			}
			if days > 0 {
				cfg.Search.Days = days
			}
			if reportDir != "" {
				cfg.Report.Dir = reportDir
			}

			logger := logging.New(cfg.Logging.Level)
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if every > 0 {
				return application.RunEvery(ctx, every)
			}

			result, err := application.Run(ctx)
			if err != nil {
				logger.Error("run failed", "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&subreddits, "subreddits", nil, "subreddits to sweep (overrides config)")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to search for (overrides config)")
	cmd.Flags().IntVar(&days, "days", 0, "how many days back the search window reaches")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory for report files")
	cmd.Flags().DurationVar(&every, "every", 0, "re-run on this interval instead of exiting after one run")

	cmd.AddCommand(newHistoryCommand())

	return cmd
}

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List recent digest runs recorded in the database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			runs, err := application.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  items=%-4d  %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), run.Status, run.ItemCount, run.ReportPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list")

	return cmd
}
