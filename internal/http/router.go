package httpapi

import (
	"expvar"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(WithRequestID)
	r.Use(WithLogging)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Post("/login", app.loginHandler)

	r.Get("/state", app.stateHandler)
	r.Post("/reload", app.reloadHandler)
	r.Post("/filters", app.filtersHandler)
	r.Post("/page", app.pageHandler)
	r.Post("/connectivity", app.connectivityHandler)
	r.Delete("/selection", app.clearSelectionHandler)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", app.createProductHandler)
		r.Delete("/{id}", app.deleteProductHandler)
		r.Post("/{id}/stock", app.stockHandler)
		r.Post("/{id}/threshold", app.thresholdHandler)
		r.Post("/{id}/select", app.selectHandler)
		r.Get("/{id}/history", app.historyHandler)
	})

	r.Get("/notices", app.noticesHandler)
	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/metrics", app.metricsHandler)
	r.Handle("/debug/vars", expvar.Handler())
	return r
}
