package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSDefaultsToWildcardOrigin(t *testing.T) {
	os.Unsetenv("CORS_ALLOWED_ORIGINS")

	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/shipments", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHonorsAllowedOriginsEnvVar(t *testing.T) {
	os.Setenv("CORS_ALLOWED_ORIGINS", "https://partner.example.com")
	defer os.Unsetenv("CORS_ALLOWED_ORIGINS")

	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/shipments", nil)
	req.Header.Set("Origin", "https://partner.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://partner.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
