package httpapi

import (
	"net/http"
	"time"

	"github.com/affreight/shipengine/internal/auth"
	"github.com/affreight/shipengine/pkg/workflow"
)

// ListTasks handles GET /shipments/{id}/tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")

	sh, err := h.store.GetShipment(r.Context(), id, scopeFor(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	tasks, err := h.store.GetTasks(r.Context(), sh)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if claims.IsAFC() && claims.Role != auth.RoleAFCAdmin && claims.Role != auth.RoleAFCM {
		tasks = visibleTasksOnly(tasks)
	}
	writeOK(w, tasks)
}

// UpdateTask handles PATCH /shipments/{id}/tasks/{task_id}, applying
// the spec §4.6 task-update permission matrix before delegating to C3
// via the store.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")
	taskID := urlParam(r, "task_id")

	var req taskPatchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := requireTaskUpdateRole(claims, req.Visibility != nil); err != nil {
		h.writeErr(w, err)
		return
	}

	sh, err := h.store.GetShipment(r.Context(), id, scopeFor(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}

	patch := workflow.Patch{
		Status:          req.Status,
		Mode:            req.Mode,
		AssignedTo:      req.AssignedTo,
		ThirdPartyName:  req.ThirdPartyName,
		Visibility:      req.Visibility,
		ScheduledStart:  req.ScheduledStart,
		ScheduledEnd:    req.ScheduledEnd,
		ActualStart:     req.ActualStart,
		ActualEnd:       req.ActualEnd,
		DueDate:         req.DueDate,
		DueDateOverride: req.DueDateOverride,
		Notes:           req.Notes,
	}
	result, err := h.store.UpdateTask(r.Context(), sh, taskID, patch, claims.Email, time.Now().UTC())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, result)
}
