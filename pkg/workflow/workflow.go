// Package workflow implements the in-memory workflow task graph
// (spec §4.3, component C3): task mutation, cross-task constraints,
// and cascading timing writes. It does not persist anything; callers
// (C4) are responsible for committing the returned state.
package workflow

import (
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// Patch is the set of fields update_task may change on a single task.
// Nil fields are left untouched.
type Patch struct {
	Status          *domain.TaskStatus
	Mode            *domain.TaskMode
	AssignedTo      *domain.AssignedTo
	ThirdPartyName  *string
	Visibility      *domain.Visibility
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	ActualStart     *time.Time
	ActualEnd       *time.Time
	DueDate         *time.Time
	DueDateOverride *bool
	Notes           *string
}

var validStatuses = map[domain.TaskStatus]bool{
	domain.TaskStatusPending: true, domain.TaskStatusInProgress: true,
	domain.TaskStatusCompleted: true, domain.TaskStatusBlocked: true,
}
var validModes = map[domain.TaskMode]bool{
	domain.ModeAssigned: true, domain.ModeTracked: true, domain.ModeIgnored: true,
}
var validAssignees = map[domain.AssignedTo]bool{
	domain.AssignedAF: true, domain.AssignedCustomer: true, domain.AssignedThirdParty: true,
}
var validVisibilities = map[domain.Visibility]bool{
	domain.VisibilityVisible: true, domain.VisibilityHidden: true,
}

// UpdateResult is the outcome of UpdateTask: the task as mutated, any
// warnings (non-fatal, surfaced to the caller per spec §4.3), and the
// full task slice with cross-task effects applied.
type UpdateResult struct {
	Task     domain.Task
	Tasks    []domain.Task
	Warnings []string
}

// UpdateTask applies patch to the task identified by taskID within
// tasks, enforcing the enum validation, mode/status ordering, and
// cross-task unblock propagation of spec §4.3. now is injected so the
// function stays pure and testable.
func UpdateTask(tasks []domain.Task, taskID string, patch Patch, bookingReference string, updatedBy string, now time.Time) (UpdateResult, error) {
	if err := validatePatch(patch); err != nil {
		return UpdateResult{}, err
	}

	idx := indexOf(tasks, taskID)
	if idx < 0 {
		return UpdateResult{}, apperrors.NewNotFoundError("task")
	}

	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	task := out[idx]

	// Mode first, then status: a mode change may itself rewrite
	// visibility/status, so status logic below must see the post-mode
	// state (spec §4.3).
	if patch.Mode != nil {
		task.Mode = *patch.Mode
		switch *patch.Mode {
		case domain.ModeIgnored:
			task.Visibility = domain.VisibilityHidden
			task.Status = domain.TaskStatusPending
		default:
			if task.Visibility == domain.VisibilityHidden && isLeavingIgnored(tasks[idx], *patch.Mode) {
				task.Visibility = domain.VisibilityVisible
			}
		}
	}

	var warnings []string

	if patch.Status != nil {
		if *patch.Status == domain.TaskStatusBlocked && task.Mode != domain.ModeAssigned {
			return UpdateResult{}, apperrors.NewValidationError("BLOCKED is only valid when mode is ASSIGNED")
		}
		task.Status = *patch.Status
		switch *patch.Status {
		case domain.TaskStatusInProgress:
			if task.ActualStart == nil {
				task.ActualStart = &now
			}
		case domain.TaskStatusCompleted:
			if task.TaskType == domain.TaskPOD && task.Mode == domain.ModeTracked {
				task.ActualStart = &now
			} else {
				task.ActualEnd = &now
			}
			task.CompletedAt = &now
		}
	}

	if patch.AssignedTo != nil {
		task.AssignedTo = *patch.AssignedTo
	}
	if patch.ThirdPartyName != nil {
		task.ThirdPartyName = *patch.ThirdPartyName
	}
	if patch.Visibility != nil {
		task.Visibility = *patch.Visibility
	}
	if patch.ScheduledStart != nil {
		task.ScheduledStart = patch.ScheduledStart
	}
	if patch.ScheduledEnd != nil {
		task.ScheduledEnd = patch.ScheduledEnd
	}
	if patch.ActualStart != nil {
		task.ActualStart = patch.ActualStart
	}
	if patch.ActualEnd != nil {
		task.ActualEnd = patch.ActualEnd
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
		task.ScheduledEnd = patch.DueDate
		task.DueDateOverride = true
	}
	if patch.DueDateOverride != nil {
		task.DueDateOverride = *patch.DueDateOverride
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}

	task.UpdatedBy = updatedBy
	task.UpdatedAt = now
	out[idx] = task

	if task.TaskType == domain.TaskFreightBooking && task.Status == domain.TaskStatusCompleted {
		if bookingReference != "" {
			for i := range out {
				if out[i].TaskType == domain.TaskExportClearance && out[i].Status == domain.TaskStatusBlocked {
					out[i].Status = domain.TaskStatusPending
					out[i].UpdatedBy = updatedBy
					out[i].UpdatedAt = now
				}
			}
		} else {
			warnings = append(warnings, "booking reference is empty: export clearance remains blocked")
		}
	}

	return UpdateResult{Task: out[idx], Tasks: out, Warnings: warnings}, nil
}

func isLeavingIgnored(before domain.Task, newMode domain.TaskMode) bool {
	return before.Mode == domain.ModeIgnored && newMode != domain.ModeIgnored
}

func validatePatch(p Patch) error {
	if p.Status != nil && !validStatuses[*p.Status] {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "invalid task status %q", *p.Status)
	}
	if p.Mode != nil && !validModes[*p.Mode] {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "invalid task mode %q", *p.Mode)
	}
	if p.AssignedTo != nil && !validAssignees[*p.AssignedTo] {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "invalid assigned_to %q", *p.AssignedTo)
	}
	if p.Visibility != nil && !validVisibilities[*p.Visibility] {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "invalid visibility %q", *p.Visibility)
	}
	return nil
}

func indexOf(tasks []domain.Task, taskID string) int {
	for i, t := range tasks {
		if t.TaskID == taskID {
			return i
		}
	}
	return -1
}
