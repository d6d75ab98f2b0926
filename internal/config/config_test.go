package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Reddit.APIURL != "https://oauth.reddit.com" {
		t.Fatalf("unexpected reddit api url: %s", cfg.Reddit.APIURL)
	}
	if cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("unexpected gemini model: %s", cfg.Gemini.Model)
	}
	if cfg.Prompt.BodyLimit != 500 || cfg.Prompt.CommentLimit != 200 || cfg.Prompt.MaxComments != 5 {
		t.Fatalf("unexpected prompt caps: %+v", cfg.Prompt)
	}
	if cfg.Telegram.Configured() {
		t.Fatalf("delivery should be disabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "env-id")
	t.Setenv("REDDIT_CLIENT_SECRET", "env-secret")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "env-chat")
	t.Setenv("DATABASE_DSN", "postgres://env")

	cfg := Load()

	if cfg.Reddit.ClientID != "env-id" || cfg.Reddit.ClientSecret != "env-secret" {
		t.Fatalf("reddit overrides not applied: %+v", cfg.Reddit)
	}
	if cfg.Gemini.APIKey != "env-gemini" {
		t.Fatalf("gemini override not applied")
	}
	if !cfg.Telegram.Configured() {
		t.Fatalf("telegram overrides not applied: %+v", cfg.Telegram)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Fatalf("database override not applied")
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
search:
  subreddits: [stocks, investing]
  keywords: [acme]
  days: 7
report:
  title: "Weekly Stock Digest"
prompt:
  bodyLimit: 300
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("REDDIT_DIGEST_CONFIG", path)

	cfg := Load()

	if len(cfg.Search.Subreddits) != 2 || cfg.Search.Subreddits[0] != "stocks" {
		t.Fatalf("subreddits not merged: %+v", cfg.Search.Subreddits)
	}
	if cfg.Search.Days != 7 {
		t.Fatalf("days not merged: %d", cfg.Search.Days)
	}
	if cfg.Report.Title != "Weekly Stock Digest" {
		t.Fatalf("title not merged: %s", cfg.Report.Title)
	}
	if cfg.Prompt.BodyLimit != 300 || cfg.Prompt.CommentLimit != 200 {
		t.Fatalf("prompt caps wrong after merge: %+v", cfg.Prompt)
	}
	// Defaults survive where the file is silent.
	if cfg.Reddit.AuthURL != "https://www.reddit.com" {
		t.Fatalf("default auth url lost: %s", cfg.Reddit.AuthURL)
	}
}

func TestLoadIgnoresUnreadableFile(t *testing.T) {
	t.Setenv("REDDIT_DIGEST_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if len(cfg.Search.Subreddits) == 0 {
		t.Fatalf("defaults not applied when config file is missing")
	}
}
