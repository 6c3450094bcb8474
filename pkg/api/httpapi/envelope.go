// Package httpapi implements component C6: the HTTP request handlers,
// wired through chi, that shape every call into the uniform envelope
// spec §4.6/§7 describe and delegate all business logic to C1-C5.
package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/apperrors"
)

// envelope is the uniform response shape spec §6/§7 require: "OK" with
// data on success, or an error kind with msg and a null data on
// failure.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Msg    string `json:"msg,omitempty"`
}

// writeOK writes a 200 success envelope.
func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: "OK", Data: data})
}

// writeCreated writes a 201 success envelope, for the two create
// endpoints.
func writeCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Status: "OK", Data: data})
}

// writeNoContent writes a bare 204 with no envelope body, for deletes.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps err to the envelope + HTTP status spec §7 defines.
// Lifecycle validation rejections (the state machine's Decision with
// Accepted = false, surfaced by handlers as a VALIDATION_ERROR with the
// lifecycleRejection marker) render as HTTP 200 with an ERROR status,
// by design, "because the UI renders these inline rather than as
// transport errors" (spec §7). Every other typed error maps to its
// taxonomy status; anything untyped is masked as a 500.
func writeError(logger *zap.Logger) func(w http.ResponseWriter, err error) {
	return func(w http.ResponseWriter, err error) {
		appErr, ok := apperrors.As(err)
		if !ok {
			logger.Error("unhandled error reached the HTTP boundary", zap.Error(err))
			appErr = apperrors.NewInternalError(err)
		}

		status := appErr.StatusCode
		envelopeStatus := string(appErr.Type)
		if isLifecycleRejection(err) {
			status = http.StatusOK
			envelopeStatus = "ERROR"
		}
		if ok && appErr.Cause != nil && appErr.Type == apperrors.ErrorTypeInternal {
			logger.Error("request failed", zap.Error(appErr.Cause), zap.String("message", appErr.Message))
		}

		writeJSON(w, status, envelope{Status: envelopeStatus, Data: nil, Msg: appErr.Message})
	}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// lifecycleRejectionMarker marks an AppError as originating from a
// rejected state-machine Decision rather than a genuine validation
// failure of the request shape, so writeError can apply spec §7's
// 200-with-ERROR special case.
type lifecycleRejectionMarker struct{ error }

// newLifecycleRejection wraps a state-machine rejection reason as the
// special-cased error writeError renders at HTTP 200.
func newLifecycleRejection(reason string) error {
	return lifecycleRejectionMarker{apperrors.NewValidationError(reason)}
}

func (l lifecycleRejectionMarker) Unwrap() error { return l.error }

func isLifecycleRejection(err error) bool {
	_, ok := err.(lifecycleRejectionMarker)
	return ok
}
