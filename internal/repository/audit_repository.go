package repository

import (
	"context"
	"database/sql"
	"encoding/json"
)

// AuditRepo appends rows to the audit_logs table.  Audit entries are
// best effort: callers log a failure and carry on, they never fail the
// user-facing operation over a missing audit row.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Record inserts one audit entry.  The metadata value is marshalled to
// JSON when non-nil; pass nil for actions without extra context.  For
// booking transitions metadata carries the prior status.
func (r *AuditRepo) Record(ctx context.Context, userID *uint64, action, targetType, targetID string, metadata interface{}) error {
	var meta sql.NullString
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		meta = sql.NullString{String: string(raw), Valid: true}
	}
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: int64(*userID), Valid: true}
	}
	const q = `INSERT INTO audit_logs (user_id, action, target_type, target_id, metadata) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, uid, action, targetType, targetID, meta)
	return err
}
