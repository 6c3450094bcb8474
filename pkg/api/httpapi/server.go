package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/auth"
	"github.com/affreight/shipengine/internal/config"
	"github.com/affreight/shipengine/pkg/api/middleware"
	"github.com/affreight/shipengine/pkg/blingest"
	"github.com/affreight/shipengine/pkg/objectstorage"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

// Handlers holds every collaborator the HTTP boundary delegates to:
// C4 for persistence, C5 for BL ingestion, object storage for file
// bytes, plus the config, logger, and error writer. Claims are not
// held here; each handler reads them from the request context that
// pkg/api/middleware fills.
type Handlers struct {
	store    *postgres.Store
	pipeline *blingest.Pipeline
	files    objectstorage.Store
	cfg      *config.Config
	logger   *zap.Logger
	writeErr func(w http.ResponseWriter, err error)
}

// New builds the handler set a Router wires to chi routes.
func New(store *postgres.Store, pipeline *blingest.Pipeline, files objectstorage.Store, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{store: store, pipeline: pipeline, files: files, cfg: cfg, logger: logger, writeErr: writeError(logger)}
}

// claimsOrPanic reads the authenticated claims pkg/api/middleware's
// Authenticate stored on the request context. Authenticate always runs
// before any handler in Router, so a missing value here is a routing
// bug, not a request error.
func claimsOrPanic(r *http.Request) auth.Claims {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		panic("httpapi: handler reached without authenticated claims in context")
	}
	return c
}
