package memory

import (
	"context"
	"sync"
	"time"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"

	"github.com/google/uuid"
)

var _ output.RecommendationStore = (*RecommendationStore)(nil)

// RecommendationStore keeps records in process memory. It backs local runs
// without DATABASE_URL.
type RecommendationStore struct {
	mu      sync.RWMutex
	records []entity.Recommendation
	now     func() time.Time
}

func NewRecommendationStore() *RecommendationStore {
	return &RecommendationStore{now: time.Now}
}

func (s *RecommendationStore) Save(ctx context.Context, rec entity.Recommendation) (entity.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return entity.Recommendation{}, err
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return rec, nil
}

// List returns a copy of the records in insertion order.
func (s *RecommendationStore) List() []entity.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Recommendation, len(s.records))
	copy(out, s.records)
	return out
}
