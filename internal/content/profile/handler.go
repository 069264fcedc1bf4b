package profile

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

// Handler serves the public profile and its admin upsert.
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

// MountPublic registers the read endpoint.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/profile", h.get)
}

// MountAdmin registers the write endpoint; caller wraps with the admin gate.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Put("/profile", h.upsert)
}

type upsertRequest struct {
	FullName    string `json:"fullName" validate:"required,max=128"`
	Title       string `json:"title" validate:"required,max=128"`
	HeroTagline string `json:"heroTagline" validate:"max=256"`
	Bio         string `json:"bio" validate:"max=8000"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Location    string `json:"location" validate:"max=128"`
	GithubURL   string `json:"githubUrl" validate:"omitempty,url"`
	LinkedinURL string `json:"linkedinUrl" validate:"omitempty,url"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.Get(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	p, err := h.repo.Upsert(r.Context(), Profile{
		FullName:    req.FullName,
		Title:       req.Title,
		HeroTagline: req.HeroTagline,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		GithubURL:   req.GithubURL,
		LinkedinURL: req.LinkedinURL,
	})
	if err != nil {
		h.logger.Error("upsert profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if identity := auth.IdentityFromContext(r.Context()); identity != nil && h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  identity.ID,
			Action:   "update",
			Entity:   "profile",
			EntityID: strconv.Itoa(1),
		}); err != nil {
			h.logger.Warn("audit profile update", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, p)
}
