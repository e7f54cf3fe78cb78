package output

import (
	"context"

	"pc-setup-agent/internal/domain/entity"
)

// RecommendationStore persists one record per request. The store assigns
// the ID and the timestamp at write time.
type RecommendationStore interface {
	Save(ctx context.Context, rec entity.Recommendation) (entity.Recommendation, error)
}
