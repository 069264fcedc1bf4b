package testimonials

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/platform/httpx"
	"github.com/foliocms/folio/internal/shared"
)

// Handler serves approved testimonials publicly and the full set to admins.
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

// MountPublic registers read endpoints; only approved entries are listed.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/testimonials", h.listApproved)
}

// MountAdmin registers write endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/testimonials/all", h.listAll)
	r.Post("/testimonials", h.create)
	r.Put("/testimonials/{id}", h.update)
	r.Put("/testimonials/{id}/approve", h.approve)
	r.Delete("/testimonials/{id}", h.delete)
}

type testimonialRequest struct {
	AuthorName  string `json:"authorName" validate:"required,max=128"`
	AuthorTitle string `json:"authorTitle" validate:"max=128"`
	Company     string `json:"company" validate:"max=128"`
	Quote       string `json:"quote" validate:"required,max=2000"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
	Approved    bool   `json:"approved"`
}

func (req testimonialRequest) toModel() Testimonial {
	return Testimonial{
		AuthorName:  req.AuthorName,
		AuthorTitle: req.AuthorTitle,
		Company:     req.Company,
		Quote:       req.Quote,
		AvatarURL:   req.AvatarURL,
		Approved:    req.Approved,
	}
}

func (h *Handler) listApproved(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.repo.ListApproved)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.repo.ListAll)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]Testimonial, error)) {
	items, err := list(r.Context())
	if err != nil {
		h.logger.Error("list testimonials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Testimonial{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.repo.Create(r.Context(), req.toModel())
	if err != nil {
		h.logger.Error("create testimonial", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "create", created.ID)
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
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

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	updated, err := h.repo.SetApproved(r.Context(), id, true)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "approve", id)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete testimonial", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (testimonialRequest, bool) {
	var req testimonialRequest
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
		Entity:   "testimonial",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit testimonial "+action, slog.Any("error", err))
	}
}
