package collector

import (
	"context"
	"fmt"
	"log/slog"

	"redditdigest/internal/config"
	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

// Collector fans the configured keyword set out across all subreddits and
// merges every match into one sequence. A post matched by two keywords is
// counted twice; deduplication is deliberately not applied.
type Collector struct {
	searcher ports.PostSearcher
	search   config.SearchConfig
	logger   *slog.Logger
}

var _ ports.PostCollector = (*Collector)(nil)

// New wires the searcher with config-defined criteria.
func New(searcher ports.PostSearcher, search config.SearchConfig, logger *slog.Logger) *Collector {
	return &Collector{
		searcher: searcher,
		search:   search,
		logger:   logger,
	}
}

// Collect executes one search per (subreddit, keyword) pair. With no keywords
// configured it falls back to each subreddit's newest posts. Any failed search
// call aborts the whole sweep.
func (c *Collector) Collect(ctx context.Context) ([]domain.Post, error) {
	if c.searcher == nil {
		return nil, fmt.Errorf("post searcher is not configured")
	}

	c.debug("collect posts", "subreddits", len(c.search.Subreddits), "keywords", len(c.search.Keywords), "days", c.search.Days)

	var collected []domain.Post
	for _, subreddit := range c.search.Subreddits {
		if len(c.search.Keywords) == 0 {
			posts, err := c.searcher.Newest(ctx, subreddit)
			if err != nil {
				return nil, fmt.Errorf("fetch newest from r/%s: %w", subreddit, err)
			}
			c.debug("subreddit produced posts", "subreddit", subreddit, "count", len(posts))
			collected = append(collected, posts...)
			continue
		}

		for _, keyword := range c.search.Keywords {
			posts, err := c.searcher.Search(ctx, subreddit, keyword, c.search.Days)
			if err != nil {
				return nil, fmt.Errorf("search r/%s for %q: %w", subreddit, keyword, err)
			}
			c.debug("search produced posts", "subreddit", subreddit, "keyword", keyword, "count", len(posts))
			collected = append(collected, posts...)
		}
	}

	c.debug("collection done", "total_posts", len(collected))
	return collected, nil
}

func (c *Collector) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
