package posts

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

// Handler serves the blog endpoints.
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

// MountPublic registers read endpoints; only published posts are visible.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/posts", h.listPublished)
	r.Get("/posts/{slug}", h.getBySlug)
}

// MountAdmin registers write endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/posts/all", h.listAll)
	r.Post("/posts", h.create)
	r.Put("/posts/{id}", h.update)
	r.Delete("/posts/{id}", h.delete)
}

type postRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Excerpt   string `json:"excerpt" validate:"max=500"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Post{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list all posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Post{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), Draft{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		h.logger.Error("create post", slog.Any("error", err))
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
	updated, err := h.service.Update(r.Context(), id, Draft{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Published: req.Published,
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
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete post", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var req postRequest
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
		Entity:   "post",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit post "+action, slog.Any("error", err))
	}
}
