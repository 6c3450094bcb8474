package httpapi

import (
	"net/http"
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/internal/auth"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/store/postgres"
	"github.com/affreight/shipengine/pkg/workflow"
)

// Stats handles GET /shipments/stats: the five-way tab counts (spec
// §6).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	stats, err := h.store.Stats(r.Context(), scopeFor(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, stats)
}

// ListShipments handles GET /shipments: paginated list scoped by tab,
// offset, limit, and an AFC caller's own company (spec §6).
func (h *Handlers) ListShipments(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	companyScope := scopeFor(claims)
	if companyScope == "" {
		companyScope = r.URL.Query().Get("company_id")
	}

	list, err := h.store.ListShipments(r.Context(), postgres.ListFilter{
		Tab:          r.URL.Query().Get("tab"),
		CompanyScope: companyScope,
		Offset:       queryInt(r, "offset", 0),
		Limit:        queryInt(r, "limit", 50),
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, list)
}

// SearchShipments handles GET /shipments/search: id/company/port
// substring match (spec §6).
func (h *Handlers) SearchShipments(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	term := r.URL.Query().Get("q")
	results, err := h.store.SearchShipments(r.Context(), term, scopeFor(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, results)
}

// shipmentWithTasks is the GET /shipments/{id} response shape: the
// shipment plus its lazily-materialized task list (spec §6 "Full
// shipment + lazy-materialized tasks").
type shipmentWithTasks struct {
	domain.Shipment
	Tasks []domain.Task `json:"tasks"`
}

// GetShipment handles GET /shipments/{id}.
func (h *Handlers) GetShipment(w http.ResponseWriter, r *http.Request) {
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
		// Plain AFC callers never see HIDDEN tasks (spec §3 Task
		// visibility rule, folded into the read path rather than the
		// store so C4 stays role-agnostic).
		tasks = visibleTasksOnly(tasks)
	}
	writeOK(w, shipmentWithTasks{Shipment: sh, Tasks: tasks})
}

// CreateShipment handles POST /shipments (manual create, spec §4.4).
func (h *Handlers) CreateShipment(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	var req createShipmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}

	now := time.Now().UTC()
	sh := domain.Shipment{
		CompanyID:       req.CompanyID,
		OrderType:       req.OrderType,
		TransactionType: req.TransactionType,
		IncotermCode:    req.IncotermCode,
		Status:          domain.StatusConfirmed,
		OriginPort:      req.OriginPort,
		OriginTerminal:  req.OriginTerminal,
		DestPort:        req.DestPort,
		DestTerminal:    req.DestTerminal,
		CargoReadyDate:  req.CargoReadyDate,
		ETD:             req.ETD,
		ETA:             req.ETA,
		CreatedAt:       now,
		Cargo:           req.Cargo,
		Booking:         req.Booking,
		Parties:         req.Parties,
		TypeDetails:     req.TypeDetails,
		Creator:         domain.Creator{UID: claims.UID, Email: claims.Email, Source: "manual"},
		StatusHistory: []domain.StatusHistoryEntry{{
			Status: domain.StatusConfirmed, Label: domain.StatusLabels[domain.StatusConfirmed],
			Timestamp: now, ChangedBy: claims.Email,
		}},
	}

	tasks := workflow.Materialize(sh, claims.UID)
	created, err := h.store.CreateShipment(r.Context(), sh, tasks, domain.ActionShipmentCreatedManual, claims.UID, claims.Email)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeCreated(w, created)
}

// DeleteShipment handles DELETE /shipments/{id}?hard=bool.
func (h *Handlers) DeleteShipment(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")
	hard := r.URL.Query().Get("hard") == "true"

	if hard {
		if err := requireAFU(claims); err != nil {
			h.writeErr(w, err)
			return
		}
		if !h.cfg.IsDevelopment() {
			h.writeErr(w, apperrors.NewConflictError("hard delete is disabled outside development"))
			return
		}
		if err := h.store.HardDelete(r.Context(), id, claims.UID, claims.Email); err != nil {
			h.writeErr(w, err)
			return
		}
		writeNoContent(w)
		return
	}

	if err := h.store.SoftDelete(r.Context(), id, scopeFor(claims), claims.UID, claims.Email); err != nil {
		h.writeErr(w, err)
		return
	}
	writeNoContent(w)
}

func visibleTasksOnly(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Visibility != domain.VisibilityHidden {
			out = append(out, t)
		}
	}
	return out
}
