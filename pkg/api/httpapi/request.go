package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/affreight/shipengine/internal/apperrors"
)

var validate = validator.New()

// decodeAndValidate decodes r's JSON body into dst and runs struct
// validation, returning a VALIDATION_ERROR on either failure.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeValidation, "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeValidation, "request failed validation").WithDetails(err.Error())
	}
	return nil
}

// urlParam reads a chi URL parameter.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// int64Param reads and parses an integer chi URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrorTypeValidation, "%s must be an integer", name)
	}
	return v, nil
}

// queryInt reads an integer query parameter, defaulting to def when
// absent or unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
