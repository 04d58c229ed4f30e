package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/printdesk/printdesk/internal/catalog"
	"github.com/printdesk/printdesk/internal/clients"
	"github.com/printdesk/printdesk/internal/observability"
	"github.com/printdesk/printdesk/internal/orders"
	"github.com/printdesk/printdesk/internal/procurement"
	"github.com/printdesk/printdesk/internal/reporting"
	"github.com/printdesk/printdesk/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	OrdersHandler      *orders.Handler
	CatalogHandler     *catalog.Handler
	ClientsHandler     *clients.Handler
	UsersHandler       *users.Handler
	ProcurementHandler *procurement.Handler
	ReportingHandler   *reporting.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if params.OrdersHandler != nil {
			params.OrdersHandler.MountRoutes(r)
		}
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(r)
		}
		if params.ClientsHandler != nil {
			params.ClientsHandler.MountRoutes(r)
		}
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		if params.ProcurementHandler != nil {
			params.ProcurementHandler.MountRoutes(r)
		}
		if params.ReportingHandler != nil {
			params.ReportingHandler.MountRoutes(r)
		}
	})

	return r
}
