package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/rules"
	"github.com/affreight/shipengine/pkg/workflow"
)

// insertWorkflow writes the 1:1 shipment_workflows row created
// alongside a new shipment (spec §4.4).
func insertWorkflow(ctx context.Context, tx *sqlx.Tx, shipmentID string, tasks []domain.Task, history []domain.WorkflowHistoryEntry) error {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode workflow tasks")
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode workflow history")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shipment_workflows (shipment_id, workflow_tasks, status_history, completed, trash)
		VALUES ($1, $2, $3, false, false)`,
		shipmentID, tasksJSON, historyJSON)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to insert shipment workflow")
	}
	return nil
}

// GetTasks returns a shipment's tasks, lazily materializing them via
// C1/C3 on first read if the shipment carries enough classifiers and
// has none yet (spec §4.3 "Lazy materialization"). Materialization, if
// it happens, persists atomically before returning.
func (s *Store) GetTasks(ctx context.Context, sh domain.Shipment) ([]domain.Task, error) {
	var row workflowRow
	err := s.db.GetContext(ctx, &row, `SELECT shipment_id, workflow_tasks, status_history, completed, trash
		FROM shipment_workflows WHERE shipment_id = $1`, sh.ID)
	if err != nil {
		return nil, mapNoRows(err, "shipment workflow")
	}
	tasks, err := row.tasks()
	if err != nil {
		return nil, err
	}

	if workflow.NeedsMaterialization(sh, tasks) {
		generated := workflow.Materialize(sh, sh.Creator.UID)
		if err := s.persistTasks(ctx, sh.ID, generated); err != nil {
			return nil, err
		}
		return generated, nil
	}

	return workflow.MigrateTasksOnRead(tasks), nil
}

// persistTasks overwrites a shipment's task list unconditionally; used
// by lazy materialization and by UpdateTask/RecalculateDueDates to
// commit the mutated slice.
func (s *Store) persistTasks(ctx context.Context, shipmentID string, tasks []domain.Task) error {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode workflow tasks")
	}
	_, err = s.db.ExecContext(ctx, `UPDATE shipment_workflows SET workflow_tasks = $1 WHERE shipment_id = $2`,
		tasksJSON, shipmentID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update workflow tasks")
	}
	return nil
}

// UpdateTaskResult is the outcome surfaced to the handler layer,
// including any non-fatal warnings from C3 (spec §4.3).
type UpdateTaskResult struct {
	Task     domain.Task
	Warnings []string
}

// UpdateTask loads a shipment's current tasks, applies patch via C3,
// and persists the resulting task list in one round trip (spec §4.3,
// §8 property 4 — the unblock propagation happens in the same unit of
// work as the triggering write).
func (s *Store) UpdateTask(ctx context.Context, sh domain.Shipment, taskID string, patch workflow.Patch, updatedBy string, now time.Time) (UpdateTaskResult, error) {
	tasks, err := s.GetTasks(ctx, sh)
	if err != nil {
		return UpdateTaskResult{}, err
	}
	result, err := workflow.UpdateTask(tasks, taskID, patch, sh.Booking.BookingReference, updatedBy, now)
	if err != nil {
		return UpdateTaskResult{}, err
	}
	if err := s.persistTasks(ctx, sh.ID, result.Tasks); err != nil {
		return UpdateTaskResult{}, err
	}
	return UpdateTaskResult{Task: result.Task, Warnings: result.Warnings}, nil
}

// RecalculateDueDates re-derives task due dates after a shipment's
// dates changed, persisting the result (spec §4.1 recalculate_due_dates,
// invoked from the shipment-update handler whenever etd/eta/cargo_ready
// change).
func (s *Store) RecalculateDueDates(ctx context.Context, sh domain.Shipment, updatedBy string) error {
	tasks, err := s.GetTasks(ctx, sh)
	if err != nil {
		return err
	}
	recalculated := rules.RecalculateDueDates(tasks, sh.ETD, sh.ETA, sh.CargoReadyDate, updatedBy)
	return s.persistTasks(ctx, sh.ID, recalculated)
}

// RouteNodes returns the normalized route-node set for a shipment.
func (s *Store) RouteNodes(ctx context.Context, shipmentID string) ([]domain.RouteNode, error) {
	var raw json.RawMessage
	err := s.db.GetContext(ctx, &raw, `SELECT route_nodes FROM shipments WHERE id = $1 AND trash = false`, shipmentID)
	if err != nil {
		return nil, mapNoRows(err, "shipment")
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var nodes []domain.RouteNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to decode route_nodes")
	}
	return nodes, nil
}

// PutRouteNodes replaces a shipment's whole route-node set, normalizing
// it via C3 first and mirroring ORIGIN/DESTINATION times into the flat
// etd/eta columns (spec §3 RouteNode invariants).
func (s *Store) PutRouteNodes(ctx context.Context, shipmentID string, nodes []domain.RouteNode) ([]domain.RouteNode, error) {
	normalized, err := workflow.NormalizeRouteNodes(nodes)
	if err != nil {
		return nil, err
	}
	origin, dest := workflow.MirrorRouteTimes(normalized)

	nodesJSON, err := json.Marshal(normalized)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode route_nodes")
	}

	var etd, eta *time.Time
	if origin != nil {
		etd = origin.ScheduledETD
	}
	if dest != nil {
		eta = dest.ScheduledETA
	}

	_, err = s.db.ExecContext(ctx, `UPDATE shipments SET route_nodes = $1, etd = COALESCE($2, etd), eta = COALESCE($3, eta), updated_at = now() WHERE id = $4`,
		nodesJSON, etd, eta, shipmentID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update route_nodes")
	}
	return normalized, nil
}
