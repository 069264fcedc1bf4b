package projects

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

// Handler serves the projects list and its admin CRUD.
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
	r.Get("/projects", h.list)
	r.Get("/projects/{id}", h.get)
}

// MountAdmin registers write endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Post("/projects", h.create)
	r.Put("/projects/{id}", h.update)
	r.Delete("/projects/{id}", h.delete)
}

type projectRequest struct {
	Title       string   `json:"title" validate:"required,max=160"`
	Description string   `json:"description" validate:"required,max=8000"`
	TechStack   []string `json:"techStack" validate:"dive,max=48"`
	RepoURL     string   `json:"repoUrl" validate:"omitempty,url"`
	LiveURL     string   `json:"liveUrl" validate:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sortOrder" validate:"min=0"`
}

func (req projectRequest) toModel() Project {
	return Project{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		RepoURL:     req.RepoURL,
		LiveURL:     req.LiveURL,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
		SortOrder:   req.SortOrder,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Project{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.repo.Create(r.Context(), req.toModel())
	if err != nil {
		h.logger.Error("create project", slog.Any("error", err))
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
	updated, err := h.repo.Update(r.Context(), id, req.toModel())
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
		h.logger.Error("delete project", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (projectRequest, bool) {
	var req projectRequest
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
		Entity:   "project",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit project "+action, slog.Any("error", err))
	}
}
