package entity

type ToolName string

const (
	// ToolWebSearch keeps the name the model was originally bound with.
	ToolWebSearch ToolName = "tavily_search_results_json"
)

func (t ToolName) String() string {
	return string(t)
}

type SearchResult struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}
