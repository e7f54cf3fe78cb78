// Package duckduckgo is the keyless search backend, used when no Tavily
// key is configured.
package duckduckgo

import (
	"context"
	"fmt"
	"strings"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/search/htmltext"

	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

var _ output.SearchPort = (*Client)(nil)

const defaultUserAgent = "Mozilla/5.0 (compatible; pc-setup-agent/1.0)"

type Client struct {
	tool   tools.Tool
	logger output.LoggerPort
}

func NewClient(maxResults int, userAgent string, logger output.LoggerPort) (*Client, error) {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	tool, err := duckduckgo.New(maxResults, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo tool: %w", err)
	}
	return newWithTool(tool, logger), nil
}

func newWithTool(tool tools.Tool, logger output.LoggerPort) *Client {
	return &Client{tool: tool, logger: logger.Named("duckduckgo")}
}

// Search ignores maxResults beyond what the tool was built with; callers
// cap the returned slice.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error) {
	raw, err := c.tool.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search failed: %w", err)
	}
	results := parseResults(raw)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	c.logger.Debug("DuckDuckGo search completed", "query", query, "results", len(results))
	return results, nil
}

// parseResults reads the "Title:/Description:/URL:" blocks the tool emits,
// separated by blank lines. Anything else yields no results.
func parseResults(raw string) []entity.SearchResult {
	var results []entity.SearchResult
	for _, chunk := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		var r entity.SearchResult
		for _, line := range strings.Split(chunk, "\n") {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "Title":
				r.Title = htmltext.Clean(value, 0)
			case "Description":
				r.Content = htmltext.Clean(value, 0)
			case "URL":
				r.URL = value
			}
		}
		if r.URL == "" && r.Content == "" {
			continue
		}
		results = append(results, r)
	}
	return results
}
