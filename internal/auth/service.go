package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/foliocms/folio/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository

	bootstrapPassword string
}

// NewService constructs a new Service.
func NewService(repo Repository, bootstrapPassword string) *Service {
	return &Service{repo: repo, bootstrapPassword: bootstrapPassword}
}

var (
	decoyOnce sync.Once
	decoyHash string
)

// decoy returns a stored hash that no real password matches. Verifying
// against it keeps the unknown-user path as slow as the wrong-password path.
func decoy() string {
	decoyOnce.Do(func() {
		decoyHash, _ = HashPassword("folio-decoy")
	})
	return decoyHash
}

// Authenticate validates username/password credentials. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		VerifyPassword(password, decoy())
		return nil, shared.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterParams carries self-service registration input.
type RegisterParams struct {
	Username string
	Password string
	Email    string
	FullName string
}

// Register creates a new account with the default role.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, errors.New("auth: username required")
	}
	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleUser,
		Email:        params.Email,
		FullName:     params.FullName,
	})
}

// LoadUser resolves a user by ID, used by the session middleware.
func (s *Service) LoadUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// BootstrapAdmin creates the initial admin account when the users table is
// empty. It reports whether an account was created.
func (s *Service) BootstrapAdmin(ctx context.Context) (*User, bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		return nil, false, nil
	}
	hash, err := HashPassword(s.bootstrapPassword)
	if err != nil {
		return nil, false, err
	}
	user, err := s.repo.Create(ctx, &User{
		Username:     "admin",
		PasswordHash: hash,
		Role:         RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
