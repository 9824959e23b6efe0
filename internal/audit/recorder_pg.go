package audit

import (
	"context"
	"database/sql"
)

// PGRecorder implements Recorder using Postgres.
type PGRecorder struct {
	DB *sql.DB
}

// Record inserts the audit entry.
func (r *PGRecorder) Record(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO audit_logs (id, actor_id, action, target_type, target_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.CreatedAt,
	)
	return err
}

var _ Recorder = (*PGRecorder)(nil)
