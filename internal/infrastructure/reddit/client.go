package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"redditdigest/internal/config"
	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

const listingLimit = 100

// Client searches subreddits through the OAuth API using script-app
// (password grant) credentials.
type Client struct {
	cfg        config.RedditConfig
	httpClient *http.Client
	logger     *slog.Logger

	token       string
	tokenExpiry time.Time
}

var _ ports.PostSearcher = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 20s-timeout default.
func NewClient(cfg config.RedditConfig, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: client, logger: logger}
}

// Search returns posts in the subreddit matching the query, relevance-sorted,
// restricted to the time filter derived from the day window.
func (c *Client) Search(ctx context.Context, subreddit, query string, days int) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "relevance")
	params.Set("restrict_sr", "1")
	params.Set("t", timeFilter(days))
	params.Set("limit", fmt.Sprintf("%d", listingLimit))

	return c.listing(ctx, fmt.Sprintf("/r/%s/search", subreddit), params)
}

// Newest returns the subreddit's most recent posts, used when no keywords
// are configured.
func (c *Client) Newest(ctx context.Context, subreddit string) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", listingLimit))

	return c.listing(ctx, fmt.Sprintf("/r/%s/new", subreddit), params)
}

type rawPost struct {
	Name         string  `json:"name"`
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Permalink    string  `json:"permalink"`
	CreatedUTC   float64 `json:"created_utc"`
	Score        int     `json:"score"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) listing(ctx context.Context, path string, params url.Values) ([]domain.Post, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %s", resp.Status)
	}

	var parsed listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]domain.Post, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		post, err := normalizePost(child.Data)
		if err != nil {
			c.warn("skip malformed post", "error", err)
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// accessToken returns a cached token or fetches one via the password grant.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	c.token = parsed.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - 30*time.Second)

	return c.token, nil
}

func normalizePost(raw rawPost) (domain.Post, error) {
	if strings.TrimSpace(raw.Title) == "" {
		return domain.Post{}, fmt.Errorf("post %s has no title", raw.ID)
	}
	if raw.CreatedUTC <= 0 {
		return domain.Post{}, fmt.Errorf("post %s has no creation time", raw.ID)
	}

	link := raw.URL
	if link == "" && raw.Permalink != "" {
		link = "https://www.reddit.com" + raw.Permalink
	}

	id := raw.Name
	if id == "" {
		id = link
	}

	body := raw.Selftext
	if body == "" && raw.SelftextHTML != "" {
		body = htmlToText(raw.SelftextHTML)
	}

	// Comment fetching is not performed; Comments stays empty.
	return domain.Post{
		ID:        id,
		Title:     raw.Title,
		URL:       link,
		CreatedAt: time.Unix(int64(raw.CreatedUTC), 0).UTC(),
		Score:     raw.Score,
		Body:      body,
	}, nil
}

// htmlToText extracts plain text from the escaped selftext_html field.
func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(s)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

func timeFilter(days int) string {
	switch {
	case days <= 0:
		return "all"
	case days <= 1:
		return "day"
	case days <= 7:
		return "week"
	case days <= 31:
		return "month"
	case days <= 365:
		return "year"
	default:
		return "all"
	}
}

func (c *Client) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
