package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/affreight/shipengine/internal/auth"
	apimw "github.com/affreight/shipengine/pkg/api/middleware"
)

// Router builds the full chi router for the /api/v2 surface in spec
// §6: request id, panic recovery, CORS, request metrics, then token
// verification/claim extraction, then the route tree itself.
func Router(h *Handlers, authenticator *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apimw.CORS())
	r.Use(apimw.HTTPMetrics)

	r.Route("/api/v2", func(api chi.Router) {
		api.Use(apimw.Authenticate(authenticator, h.writeErr))

		api.Route("/shipments", func(s chi.Router) {
			s.Get("/stats", h.Stats)
			s.Get("/", h.ListShipments)
			s.Get("/search", h.SearchShipments)
			s.Post("/", h.CreateShipment)
			s.Post("/parse-bl", h.ParseBL)
			s.Post("/create-from-bl", h.CreateFromBL)

			s.Route("/{id}", func(one chi.Router) {
				one.Get("/", h.GetShipment)
				one.Delete("/", h.DeleteShipment)
				one.Patch("/status", h.UpdateStatus)
				one.Patch("/invoiced", h.UpdateInvoiced)
				one.Patch("/exception", h.UpdateException)
				one.Patch("/company", h.ReassignCompany)
				one.Patch("/bl", h.UpdateBL)
				one.Patch("/parties", h.MergeParties)

				one.Get("/tasks", h.ListTasks)
				one.Patch("/tasks/{task_id}", h.UpdateTask)

				one.Get("/route-nodes", h.GetRouteNodes)
				one.Put("/route-nodes", h.PutRouteNodes)

				one.Get("/files", h.ListFiles)
				one.Post("/files", h.UploadFile)
				one.Get("/files/{file_id}", h.GetFile)
				one.Patch("/files/{file_id}", h.UpdateFile)
				one.Delete("/files/{file_id}", h.DeleteFile)
				one.Get("/files/{file_id}/download", h.DownloadFile)
			})
		})
	})

	return r
}
