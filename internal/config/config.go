package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "REDDIT_DIGEST_CONFIG"

	redditClientIDEnv     = "REDDIT_CLIENT_ID"
	redditClientSecretEnv = "REDDIT_CLIENT_SECRET"
	redditUserAgentEnv    = "REDDIT_USER_AGENT"
	redditUsernameEnv     = "REDDIT_USERNAME"
	redditPasswordEnv     = "REDDIT_PASSWORD"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
	geminiModelEnv        = "GEMINI_MODEL"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
	databaseDSNEnv        = "DATABASE_DSN"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Reddit   RedditConfig   `yaml:"reddit"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Report   ReportConfig   `yaml:"report"`
	Prompt   PromptConfig   `yaml:"prompt"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RedditConfig wires the script-app credentials for the Reddit API.
// AuthURL and APIURL exist so tests can point the client at a local server.
type RedditConfig struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	UserAgent    string `yaml:"userAgent"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	AuthURL      string `yaml:"authUrl"`
	APIURL       string `yaml:"apiUrl"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// TelegramConfig wires all data required to deliver reports.
// Empty token or chat id disables delivery entirely.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIURL   string `yaml:"apiUrl"`
}

// Configured reports whether a delivery channel is available.
func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// DatabaseConfig describes the optional run-history Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SearchConfig holds the run parameters: which subreddits to sweep, which
// keywords to match, and how many days back the search window reaches.
type SearchConfig struct {
	Subreddits []string `yaml:"subreddits"`
	Keywords   []string `yaml:"keywords"`
	Days       int      `yaml:"days"`
}

// ReportConfig controls where reports land and their document title.
type ReportConfig struct {
	Dir   string `yaml:"dir"`
	Title string `yaml:"title"`
}

// PromptConfig bounds the size of the analysis prompt.
type PromptConfig struct {
	BodyLimit    int `yaml:"bodyLimit"`
	CommentLimit int `yaml:"commentLimit"`
	MaxComments  int `yaml:"maxComments"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(redditClientIDEnv); v != "" {
		c.Reddit.ClientID = v
	}
	if v := os.Getenv(redditClientSecretEnv); v != "" {
		c.Reddit.ClientSecret = v
	}
	if v := os.Getenv(redditUserAgentEnv); v != "" {
		c.Reddit.UserAgent = v
	}
	if v := os.Getenv(redditUsernameEnv); v != "" {
		c.Reddit.Username = v
	}
	if v := os.Getenv(redditPasswordEnv); v != "" {
		c.Reddit.Password = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Reddit.ClientID != "" {
		base.Reddit.ClientID = override.Reddit.ClientID
	}
	if override.Reddit.ClientSecret != "" {
		base.Reddit.ClientSecret = override.Reddit.ClientSecret
	}
	if override.Reddit.UserAgent != "" {
		base.Reddit.UserAgent = override.Reddit.UserAgent
	}
	if override.Reddit.Username != "" {
		base.Reddit.Username = override.Reddit.Username
	}
	if override.Reddit.Password != "" {
		base.Reddit.Password = override.Reddit.Password
	}
	if override.Reddit.AuthURL != "" {
		base.Reddit.AuthURL = override.Reddit.AuthURL
	}
	if override.Reddit.APIURL != "" {
		base.Reddit.APIURL = override.Reddit.APIURL
	}

	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}
	if override.Telegram.APIURL != "" {
		base.Telegram.APIURL = override.Telegram.APIURL
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if len(override.Search.Subreddits) > 0 {
		base.Search.Subreddits = override.Search.Subreddits
	}
	if len(override.Search.Keywords) > 0 {
		base.Search.Keywords = override.Search.Keywords
	}
	if override.Search.Days > 0 {
		base.Search.Days = override.Search.Days
	}

	if override.Report.Dir != "" {
		base.Report.Dir = override.Report.Dir
	}
	if override.Report.Title != "" {
		base.Report.Title = override.Report.Title
	}

	if override.Prompt.BodyLimit > 0 {
		base.Prompt.BodyLimit = override.Prompt.BodyLimit
	}
	if override.Prompt.CommentLimit > 0 {
		base.Prompt.CommentLimit = override.Prompt.CommentLimit
	}
	if override.Prompt.MaxComments > 0 {
		base.Prompt.MaxComments = override.Prompt.MaxComments
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Reddit: RedditConfig{
			UserAgent: "redditdigest/1.0",
			AuthURL:   "https://www.reddit.com",
			APIURL:    "https://oauth.reddit.com",
		},
		Gemini: GeminiConfig{Model: "gemini-pro"},
		Telegram: TelegramConfig{
			APIURL: "https://api.telegram.org",
		},
		Search: SearchConfig{
			Subreddits: []string{"IndianStockMarket"},
			Keywords:   []string{"transrail"},
			Days:       365,
		},
		Report: ReportConfig{
			Dir:   ".",
			Title: "Indian Stock Market Reddit Analysis",
		},
		Prompt: PromptConfig{
			BodyLimit:    500,
			CommentLimit: 200,
			MaxComments:  5,
		},
	}
}
