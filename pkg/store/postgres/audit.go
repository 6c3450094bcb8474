package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
)

// insertAuditLog appends one append-only audit entry for a
// shipment-scoped action (spec §3 AuditLog entry). Audit rows share
// the system_logs table with operational log entries (see
// internal/systemlog) — spec §6's persisted-state table list names
// system_logs but not a separate audit_log table, and both are
// append-only records of "something happened", differing only in
// whether an entity_id is attached.
func insertAuditLog(ctx context.Context, tx *sqlx.Tx, action, entityID, actorUID, actorEmail string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO system_logs (level, action, entity_id, actor_uid, actor_email, message, fields, created_at)
		VALUES ('audit', $1, $2, $3, $4, '', '{}', $5)`,
		action, entityID, actorUID, actorEmail, at)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to write audit log")
	}
	return nil
}
