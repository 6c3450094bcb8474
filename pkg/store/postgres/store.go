// Package postgres implements the shipment store (component C4):
// transactional persistence of shipments, workflows, files, and audit
// records over a relational schema with JSON columns for the
// semi-structured payloads (spec §4.4).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/apperrors"
)

// Store is the C4 persistence boundary. All methods that mutate more
// than one row execute inside withTx so the write is a single unit of
// work: commit on success, rollback on any error (spec §4.4).
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// New wraps an already-connected *sqlx.DB (see Connect) as a Store.
func New(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx, letting read
// helpers run against either a bare connection or an in-flight
// transaction.
type execer interface {
	sqlx.ExtContext
}

// withTx runs fn inside a transaction, committing on nil error and
// rolling back otherwise. Any panic inside fn is converted to a
// rollback and re-panicked, matching the teacher's "rollback on any
// error propagation" connection-handling idiom.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to commit transaction")
	}
	return nil
}

// mapNoRows converts sql.ErrNoRows to a typed NOT_FOUND error for the
// named resource; any other error is wrapped as internal.
func mapNoRows(err error, resource string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(resource)
	}
	return apperrors.Wrap(err, apperrors.ErrorTypeInternal, fmt.Sprintf("failed to load %s", resource))
}
