package reporting

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printdesk/printdesk/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/register", h.register)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RegisterForDay(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		h.logger.Error("register report failed", "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
