package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/affreight/shipengine/internal/apperrors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	var e envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	writeOK(rec, map[string]string{"id": "ship-1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, "OK", e.Status)
}

func TestWriteCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	writeCreated(rec, map[string]string{"id": "ship-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "OK", decodeEnvelope(t, rec).Status)
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	writeNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWriteErrorMapsTaxonomyToHTTPStatus(t *testing.T) {
	logger := zap.NewNop()
	writeErr := writeError(logger)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", apperrors.NewNotFoundError("shipment"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, "FORBIDDEN"},
		{"validation", apperrors.NewValidationError("bad input"), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"conflict", apperrors.NewConflictError("already invoiced"), http.StatusConflict, "CONFLICT"},
		{"internal custom status", apperrors.NewInternalErrorWithStatus("gone", http.StatusGone), http.StatusGone, "ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeErr(rec, tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			e := decodeEnvelope(t, rec)
			assert.Equal(t, tc.wantType, e.Status)
		})
	}
}

func TestWriteErrorMasksUntypedErrorsAsInternal(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)
	writeErr := writeError(logger)

	rec := httptest.NewRecorder()
	writeErr(rec, plainError{"boom"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, "ERROR", e.Status)
	assert.NotContains(t, e.Msg, "boom")
	assert.Equal(t, 1, logs.Len())
}

func TestWriteErrorRendersLifecycleRejectionAs200(t *testing.T) {
	writeErr := writeError(zap.NewNop())

	rec := httptest.NewRecorder()
	writeErr(rec, newLifecycleRejection("cannot transition from DELIVERED to BOOKED"))

	assert.Equal(t, http.StatusOK, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, "ERROR", e.Status)
	assert.Contains(t, e.Msg, "cannot transition")
}

type plainError struct{ msg string }

func (p plainError) Error() string { return p.msg }
