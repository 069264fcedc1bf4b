package achievements

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/platform/httpx"
	"github.com/foliocms/folio/internal/shared"
)

// Handler serves the achievements list and its admin CRUD.
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
	r.Get("/achievements", h.list)
}

// MountAdmin registers write endpoints; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Post("/achievements", h.create)
	r.Put("/achievements/{id}", h.update)
	r.Delete("/achievements/{id}", h.delete)
}

type achievementRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Issuer        string `json:"issuer" validate:"max=128"`
	Description   string `json:"description" validate:"max=2000"`
	CredentialURL string `json:"credentialUrl" validate:"omitempty,url"`
	AwardedOn     string `json:"awardedOn" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list achievements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Achievement{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, awardedOn, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.repo.Create(r.Context(), Achievement{
		Title:         req.Title,
		Issuer:        req.Issuer,
		Description:   req.Description,
		CredentialURL: req.CredentialURL,
		AwardedOn:     awardedOn,
	})
	if err != nil {
		h.logger.Error("create achievement", slog.Any("error", err))
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
	req, awardedOn, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.repo.Update(r.Context(), id, Achievement{
		Title:         req.Title,
		Issuer:        req.Issuer,
		Description:   req.Description,
		CredentialURL: req.CredentialURL,
		AwardedOn:     awardedOn,
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
		h.logger.Error("delete achievement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "delete", id)
	httpx.Message(w, http.StatusOK, "Deleted.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (achievementRequest, time.Time, bool) {
	var req achievementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body.")
		return req, time.Time{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return req, time.Time{}, false
	}
	awardedOn, err := time.Parse("2006-01-02", req.AwardedOn)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid awardedOn date.")
		return req, time.Time{}, false
	}
	return req, awardedOn, true
}

func (h *Handler) record(r *http.Request, action string, id int64) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil || h.audit == nil {
		return
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.ID,
		Action:   action,
		Entity:   "achievement",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		h.logger.Warn("audit achievement "+action, slog.Any("error", err))
	}
}
