// internal/common/database/schema.go
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates every table the service writes to. Each statement
// is idempotent so EnsureSchema can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		email TEXT PRIMARY KEY,
		headline TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		experience JSONB NOT NULL DEFAULT '[]',
		education JSONB NOT NULL DEFAULT '[]',
		skills_list JSONB NOT NULL DEFAULT '[]',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS career_predictions (
		id UUID PRIMARY KEY,
		user_email TEXT NOT NULL,
		input_skills JSONB NOT NULL,
		predicted_career TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_career_predictions_email ON career_predictions (user_email)`,
	`CREATE TABLE IF NOT EXISTS stream_predictions (
		id UUID PRIMARY KEY,
		user_email TEXT NOT NULL,
		input_data JSONB NOT NULL,
		predicted_stream TEXT NOT NULL,
		reasoning TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
