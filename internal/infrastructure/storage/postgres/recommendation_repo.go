package postgres

import (
	"context"
	"fmt"

	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ output.RecommendationStore = (*RecommendationRepository)(nil)

// Execer is the subset of *pgxpool.Pool the repository needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RecommendationRepository struct {
	db Execer
}

func NewRecommendationRepository(db Execer) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

const insertRecommendation = `
INSERT INTO recommendations (id, user_id, budget, use_case, result)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`

// Save writes rec; created_at comes from the database clock.
func (r *RecommendationRepository) Save(ctx context.Context, rec entity.Recommendation) (entity.Recommendation, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return entity.Recommendation{}, fmt.Errorf("generate id: %w", err)
	}
	rec.ID = id.String()

	err = r.db.QueryRow(ctx, insertRecommendation,
		rec.ID, rec.UserID, rec.Budget, rec.UseCase, rec.Result,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return entity.Recommendation{}, fmt.Errorf("insert recommendation: %w", err)
	}
	return rec, nil
}
