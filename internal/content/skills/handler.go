package skills

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

// Handler serves the skills list and its admin CRUD.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, repo: repo, audit: audit, validator: validator.New()}
}

// MountPublic registers read endpoints.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/skills", h.list)
}

// MountAdmin registers write endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Post("/skills", h.create)
	r.Put("/skills/{id}", h.update)
	r.Delete("/skills/{id}", h.delete)
}

type skillRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	Category  string `json:"category" validate:"required,max=64"`
	Level     int    `json:"level" validate:"min=0,max=100"`
	SortOrder int    `json:"sortOrder" validate:"min=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list skills", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Skill{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.repo.Create(r.Context(), Skill{
		Name:      req.Name,
		Category:  req.Category,
		Level:     req.Level,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.logger.Error("create skill", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "create", created.ID)
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.repo.Update(r.Context(), id, Skill{
		Name:      req.Name,
		Category:  req.Category,
		Level:     req.Level,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "update", id)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete skill", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (skillRequest, bool) {
	var req skillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body.")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return req, false
	}
	return req, true
}

func (h *Handler) record(r *http.Request, action string, id int64) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil || h.audit == nil {
		return
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.ID,
		Action:   action,
		Entity:   "skill",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit skill "+action, slog.Any("error", err))
	}
}
