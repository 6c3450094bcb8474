package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes /metrics and /health on a dedicated HTTP listener,
// separate from the API router built in pkg/api, so scraping never
// competes with request traffic for the same mux.
type Server struct {
	server *http.Server
	log    *zap.Logger
}

// NewServer builds a metrics server bound to the given port (host
// portion always empty, matching net/http's ":port" listen shorthand).
func NewServer(port string, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: mux,
		},
		log: logger,
	}
}

// StartAsync starts the listener in a background goroutine. Errors
// other than the expected shutdown error are logged, not returned,
// since the caller has no synchronous way to observe a listen failure
// once the goroutine is in flight.
func (s *Server) StartAsync() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("metrics server stopped unexpectedly", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts the server down, honoring ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
