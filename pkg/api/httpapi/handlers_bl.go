package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/workflow"
)

const maxBLUploadBytes = 16 << 20

// ParseBL handles POST /shipments/parse-bl: runs C5 over an uploaded
// document and returns its derived draft fields without creating
// anything (spec §4.5, AFU only per §4.6).
func (h *Handlers) ParseBL(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxBLUploadBytes); err != nil {
		h.writeErr(w, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "malformed multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeErr(w, apperrors.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeErr(w, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to read uploaded file"))
		return
	}

	result, err := h.pipeline.Parse(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, result)
}

// CreateFromBL handles POST /shipments/create-from-bl: the caller
// replays a (possibly edited) parse-bl Result back in and a shipment is
// created from it (spec §4.5, AFU only per §4.6).
func (h *Handlers) CreateFromBL(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	var req createFromBLRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}

	now := time.Now().UTC()
	label := domain.StatusLabels[req.InitialStatus]
	sh := domain.Shipment{
		CompanyID:       req.CompanyID,
		OrderType:       req.OrderType,
		TransactionType: req.TransactionType,
		IncotermCode:    req.IncotermCode,
		Status:          req.InitialStatus,
		OriginPort:      req.OriginUNCode,
		DestPort:        req.DestinationUNCode,
		CreatedAt:       now,
		Booking:         req.Booking,
		Parties:         req.Parties,
		BLDocument:      req.BLDocument,
		TypeDetails:     req.TypeDetails,
		Creator:         domain.Creator{UID: claims.UID, Email: claims.Email, Source: "bl_ingestion"},
		StatusHistory: []domain.StatusHistoryEntry{{
			Status: req.InitialStatus, Label: label, Timestamp: now, ChangedBy: claims.Email,
		}},
	}

	tasks := workflow.Materialize(sh, claims.UID)
	created, err := h.store.CreateShipment(r.Context(), sh, tasks, domain.ActionShipmentCreatedFromBL, claims.UID, claims.Email)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeCreated(w, created)
}
