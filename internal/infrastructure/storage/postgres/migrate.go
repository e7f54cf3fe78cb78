package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	budget      TEXT NOT NULL,
	use_case    TEXT NOT NULL,
	result      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_recommendations_user_created
	ON recommendations (user_id, created_at DESC);
`

// Migrate creates the schema. It is idempotent.
func Migrate(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
