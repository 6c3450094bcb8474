package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/rules"
	"github.com/affreight/shipengine/pkg/statemachine"
)

// UpdateStatusInput bundles the request-level fields of
// `PATCH /shipments/{id}/status` (spec §6).
type UpdateStatusInput struct {
	Target     domain.Status
	AllowJump  bool
	Reverted   bool
	ChangedBy  string
	Note       string
}

// UpdateStatusOutcome is what the handler needs to shape the envelope:
// the state-machine decision (accepted/rejected and why) and, when
// accepted, the shipment as it now stands.
type UpdateStatusOutcome struct {
	Decision statemachine.Decision
	Shipment domain.Shipment
}

// UpdateStatus runs the full spec §4.4 "update status" flow inside one
// unit of work: load current shipment, resolve its path via C1, run
// the C2 decision, and — only if accepted — append to both history
// channels and update shipments.status/updated_at and
// shipment_workflows.completed, all before committing. A rejected
// decision never touches the database (the handler surfaces it as a
// 200 ERROR envelope per spec §7, not a failed write).
func (s *Store) UpdateStatus(ctx context.Context, shipmentID, companyScope string, in UpdateStatusInput) (UpdateStatusOutcome, error) {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return UpdateStatusOutcome{}, err
	}

	var path rules.PathTag
	if sh.IncotermCode != "" && sh.TransactionType != "" {
		if p, perr := rules.StatusPath(sh.IncotermCode, sh.TransactionType); perr == nil {
			path = p
		}
	}

	decision := statemachine.Evaluate(statemachine.Request{
		Current:         sh.Status,
		Target:          in.Target,
		Path:            path,
		AllowJump:       in.AllowJump,
		Reverted:        in.Reverted,
		IncotermCode:    sh.IncotermCode,
		TransactionType: sh.TransactionType,
	})
	if !decision.Accepted {
		return UpdateStatusOutcome{Decision: decision}, nil
	}

	now := time.Now().UTC()
	label := domain.StatusLabels[in.Target]

	shipmentEntry := domain.StatusHistoryEntry{
		Status: in.Target, Label: label, Timestamp: now, ChangedBy: in.ChangedBy, Note: in.Note,
	}
	workflowEntry := domain.WorkflowHistoryEntry{
		Status: in.Target, StatusLabel: label, Timestamp: now, ChangedBy: in.ChangedBy,
	}
	if in.Reverted {
		from := sh.Status
		shipmentEntry.Reverted = true
		shipmentEntry.RevertedFrom = &from
		workflowEntry.Reverted = true
		workflowEntry.RevertedFrom = &from
	}

	sh.Status = in.Target
	sh.UpdatedAt = now
	sh.StatusHistory = append(sh.StatusHistory, shipmentEntry)

	completed := in.Target == domain.StatusCompleted
	uncompleted := in.Target == domain.StatusCancelled

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		args, err := toBindArgs(sh)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, `UPDATE shipments SET status = :status, status_history = :status_history, updated_at = :updated_at WHERE id = :id`, args); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update shipment status")
		}
		if err := appendWorkflowHistory(ctx, tx, sh.ID, workflowEntry, completed, uncompleted); err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, domain.ActionShipmentStatusUpdated, sh.ID, in.ChangedBy, in.ChangedBy, now)
	})
	if err != nil {
		return UpdateStatusOutcome{}, err
	}
	return UpdateStatusOutcome{Decision: decision, Shipment: sh}, nil
}

func appendWorkflowHistory(ctx context.Context, tx *sqlx.Tx, shipmentID string, entry domain.WorkflowHistoryEntry, completed, uncompleted bool) error {
	var row workflowRow
	if err := tx.GetContext(ctx, &row, `SELECT shipment_id, workflow_tasks, status_history, completed, trash
		FROM shipment_workflows WHERE shipment_id = $1 FOR UPDATE`, shipmentID); err != nil {
		return mapNoRows(err, "shipment workflow")
	}
	history, err := row.history()
	if err != nil {
		return err
	}
	history = append(history, entry)
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode workflow history")
	}

	newCompleted := row.Completed
	if completed {
		newCompleted = true
	} else if uncompleted {
		newCompleted = false
	}

	_, err = tx.ExecContext(ctx, `UPDATE shipment_workflows SET status_history = $1, completed = $2 WHERE shipment_id = $3`,
		historyJSON, newCompleted, shipmentID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update workflow history")
	}
	return nil
}
