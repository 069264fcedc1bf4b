package site

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Handler serves the aggregated portfolio document.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublic registers the aggregate endpoint.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/portfolio", h.portfolio)
}

func (h *Handler) portfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Portfolio(r.Context())
	if err != nil {
		h.logger.Error("build portfolio", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
