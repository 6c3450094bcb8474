// Package systemlog writes operational events that are not tied to a
// single shipment (migration batch summaries, cache warm failures) to
// the system_logs table named in spec §6's persisted-state layout.
// Per-shipment audit entries are written directly by pkg/store/postgres
// into the same table, distinguished by an empty entity_id and a
// non-"audit" level here.
package systemlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Level names used in the system_logs.level column.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Writer appends operational entries to system_logs and mirrors them
// to the process logger, so an operator tailing stdout sees the same
// events a later SQL query over system_logs would.
type Writer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func New(db *sqlx.DB, logger *zap.Logger) *Writer {
	return &Writer{db: db, logger: logger}
}

// Write records one operational event. fields is marshaled to JSON for
// the system_logs.fields column; a marshal failure degrades to an
// empty object rather than failing the write, since losing the
// structured fields is preferable to losing the log line entirely.
func (w *Writer) Write(ctx context.Context, level, action, message string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		payload = []byte("{}")
	}
	_, err = w.db.ExecContext(ctx, `
		INSERT INTO system_logs (level, action, entity_id, actor_uid, actor_email, message, fields, created_at)
		VALUES ($1, $2, '', '', '', $3, $4, $5)`,
		level, action, message, payload, time.Now().UTC())
	if err != nil {
		w.logger.Error("failed to write system log", zap.Error(err), zap.String("action", action))
		return err
	}
	w.logger.Info(message, zap.String("level", level), zap.String("action", action))
	return nil
}
