package tavily

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/search/htmltext"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var _ output.SearchPort = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.tavily.com"

	maxSnippetLen = 1200
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond throttles calls to the search backend; all calls
	// share one limiter with a burst of one.
	RequestsPerSecond float64
	SearchDepth       string
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		BaseURL:           DefaultBaseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 2,
		SearchDepth:       "basic",
	}
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	depth   string
	logger  output.LoggerPort
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

func NewClient(cfg Config, logger output.LoggerPort) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(limit, 1),
		depth:   cfg.SearchDepth,
		logger:  logger.Named("tavily"),
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily rate limiter: %w", err)
	}

	var result searchResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(searchRequest{
			Query:       query,
			MaxResults:  maxResults,
			SearchDepth: c.depth,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("tavily search failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn("Tavily returned error", "status", resp.StatusCode(), "body", resp.String())
		if apiErr.Detail != nil {
			return nil, fmt.Errorf("tavily search: status %d: %v", resp.StatusCode(), apiErr.Detail)
		}
		return nil, fmt.Errorf("tavily search: status %d", resp.StatusCode())
	}

	out := make([]entity.SearchResult, 0, len(result.Results))
	for _, r := range result.Results {
		out = append(out, entity.SearchResult{
			Title:   htmltext.Clean(r.Title, 0),
			URL:     r.URL,
			Content: htmltext.Clean(r.Content, maxSnippetLen),
			Score:   r.Score,
		})
	}

	c.logger.Debug("Tavily search completed", "query", query, "results", len(out), "elapsed", resp.Time())
	return out, nil
}
