package tool

import (
	"context"
	"errors"
	"strings"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
)

// MaxSearchResults keeps tool output small enough for the model's input
// limit. The tool enforces it even when a backend returns more.
const MaxSearchResults = 3

var _ output.ToolPort = (*SearchTool)(nil)

type SearchTool struct {
	search     output.SearchPort
	logger     output.LoggerPort
	maxResults int
}

func NewSearchTool(search output.SearchPort, logger output.LoggerPort) *SearchTool {
	return &SearchTool{
		search:     search,
		logger:     logger.Named("tool.search"),
		maxResults: MaxSearchResults,
	}
}

func (t *SearchTool) Name() entity.ToolName { return entity.ToolWebSearch }

func (t *SearchTool) Description() string {
	return "A search engine optimized for comprehensive, accurate, and trusted results. " +
		"Useful for when you need to answer questions about current events or check current prices. " +
		"Input should be a search query."
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "search query to look up",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args entity.ToolArgs) (any, error) {
	query := strings.TrimSpace(args.String("query"))
	if query == "" {
		return nil, errors.New("missing required argument: query")
	}

	results, err := t.search.Search(ctx, query, t.maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	t.logger.Info("Search executed", "query", query, "results", len(results))
	return results, nil
}
