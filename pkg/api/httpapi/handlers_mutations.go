package httpapi

import (
	"net/http"

	"github.com/affreight/shipengine/pkg/store/postgres"
)

// UpdateStatus handles PATCH /shipments/{id}/status: the core C2
// lifecycle transition (spec §4.2, §4.4). A rejected decision is
// surfaced as the spec §7 200-with-ERROR envelope rather than a normal
// error status.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}

	outcome, err := h.store.UpdateStatus(r.Context(), urlParam(r, "id"), scopeFor(claims), postgres.UpdateStatusInput{
		Target:    req.Status,
		AllowJump: req.AllowJump,
		Reverted:  req.Reverted,
		ChangedBy: claims.Email,
		Note:      req.Note,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if !outcome.Decision.Accepted {
		h.writeErr(w, newLifecycleRejection(outcome.Decision.Reason))
		return
	}
	writeOK(w, outcome.Shipment)
}

// UpdateInvoiced handles PATCH /shipments/{id}/invoiced (AFU only, spec
// §4.6; status = COMPLETED enforced by the store, spec §3 invariant 5).
func (h *Handlers) UpdateInvoiced(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req invoicedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	sh, err := h.store.SetInvoiced(r.Context(), urlParam(r, "id"), scopeFor(claims), req.IssuedInvoice)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, sh)
}

// UpdateException handles PATCH /shipments/{id}/exception (AFU, AFC-
// ADMIN, AFC-M, spec §4.6).
func (h *Handlers) UpdateException(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireExceptionRole(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req exceptionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	sh, err := h.store.SetException(r.Context(), urlParam(r, "id"), scopeFor(claims), req.Flagged, req.Notes, claims.Email)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, sh)
}

// ReassignCompany handles PATCH /shipments/{id}/company (AFU only,
// spec §4.6: reassignment reaches across company scope by nature).
func (h *Handlers) ReassignCompany(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req companyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	sh, err := h.store.ReassignCompany(r.Context(), urlParam(r, "id"), req.CompanyID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, sh)
}

// UpdateBL handles PATCH /shipments/{id}/bl: a manual correction to the
// merged BL fields (AFU only, spec §4.6).
func (h *Handlers) UpdateBL(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req blPatchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	sh, err := h.store.UpdateFromBL(r.Context(), urlParam(r, "id"), scopeFor(claims), postgres.UpdateFromBLInput{
		Booking:      req.Booking,
		Parties:      req.Parties,
		BLDocument:   req.BLDocument,
		TypeDetails:  req.TypeDetails,
		Force:        req.Force,
		ChangedBy:    claims.Email,
		ChangedByUID: claims.UID,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, sh)
}

// MergeParties handles PATCH /shipments/{id}/parties: the merge-not-
// replace rule of spec §4.4 (AFU only, spec §4.6).
func (h *Handlers) MergeParties(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req partiesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	sh, err := h.store.MergeParties(r.Context(), urlParam(r, "id"), scopeFor(claims), req.Parties, req.Force)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, sh)
}
