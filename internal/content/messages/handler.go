package messages

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/platform/httpx"
	"github.com/foliocms/folio/internal/shared"
)

// Handler serves the public contact form and the admin inbox.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, validator: validator.New()}
}

// MountPublic registers the contact form endpoint.
func (h *Handler) MountPublic(r chi.Router) {
	r.Post("/contact", h.submit)
}

// MountAdmin registers inbox endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/messages", h.list)
	r.Put("/messages/{id}/read", h.markRead)
	r.Delete("/messages/{id}", h.delete)
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Body    string `json:"body" validate:"required,max=8000"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	created, err := h.service.Submit(r.Context(), Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		if created.ID != 0 {
			// Stored but not notified; the inbox still has it.
			h.logger.Warn("contact notification failed", slog.Any("error", err))
		} else {
			h.logger.Error("store contact message", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}

	httpx.Message(w, http.StatusCreated, "Message received.")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list messages", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Message{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	m, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "read", id)
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete message", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) record(r *http.Request, action string, id int64) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil || h.audit == nil {
		return
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.ID,
		Action:   action,
		Entity:   "message",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit message "+action, slog.Any("error", err))
	}
}
