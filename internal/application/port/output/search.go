package output

import (
	"context"

	"pc-setup-agent/internal/domain/entity"
)

type SearchPort interface {
	Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error)
}
