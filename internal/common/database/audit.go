package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

const insertAuditSQL = `INSERT INTO audit_log (id, event_type, entity_type, entity_id, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())`

// WriteAuditLog records an audit event. Callers treat failures as non-critical.
func WriteAuditLog(ctx context.Context, db *sql.DB, eventType, entityType, entityID string, metadata map[string]interface{}) error {
	details, err := json.Marshal(metadata)
	if err != nil {
		details = []byte("{}")
	}
	_, err = db.ExecContext(ctx, insertAuditSQL, uuid.New().String(), eventType, entityType, entityID, details)
	return err
}
