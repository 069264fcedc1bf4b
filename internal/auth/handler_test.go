package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/foliocms/folio/internal/app"
	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/platform/httpx"
	"github.com/foliocms/folio/internal/shared"
	_ "github.com/foliocms/folio/testing"
)

type stubRepo struct {
	users  map[string]*auth.User
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*auth.User), nextID: 1}
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	if _, exists := s.users[user.Username]; exists {
		return nil, httpx.ErrDuplicate
	}
	created := *user
	created.ID = s.nextID
	s.nextID++
	s.users[user.Username] = &created
	copied := created
	return &copied, nil
}

func (s *stubRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *stubRepo) seed(t *testing.T, username, password string, role auth.Role) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user, err := s.Create(context.Background(), &auth.User{Username: username, PasswordHash: hash, Role: role})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newAuthRouter(t *testing.T, repo auth.Repository) (http.Handler, *miniredis.Miniredis, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "test-secret", time.Hour, false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(repo, "bootstrap-secret")
	handler := auth.NewHandler(logger, service, sessionManager)

	r := chi.NewRouter()
	r.Use(app.SessionMiddleware(app.MiddlewareConfig{
		Logger:         logger,
		SessionManager: sessionManager,
		Users:          service,
	}))
	handler.MountRoutes(r)
	return r, mr, sessionManager
}

func sessionCookie(t *testing.T, res *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginCreatesSession(t *testing.T) {
	repo := newStubRepo()
	repo.seed(t, "noah", "opensesame123", auth.RoleAdmin)
	router, mr, sm := newAuthRouter(t, repo)

	body := strings.NewReader(`{"username":"noah","password":"opensesame123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	cookie := sessionCookie(t, res, sm.CookieName())
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one stored session, keys: %v", mr.Keys())
	}

	// The cookie authenticates subsequent requests.
	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)

	if meRes.Code != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d: %s", meRes.Code, meRes.Body.String())
	}
	var me struct {
		Username string    `json:"username"`
		Role     auth.Role `json:"role"`
	}
	if err := json.Unmarshal(meRes.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode /me: %v", err)
	}
	if me.Username != "noah" || me.Role != auth.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

func TestLoginRejectsClientChosenToken(t *testing.T) {
	repo := newStubRepo()
	repo.seed(t, "noah", "opensesame123", auth.RoleAdmin)
	router, mr, sm := newAuthRouter(t, repo)

	// A cookie planted before login must never name the authenticated
	// session.
	body := strings.NewReader(`{"username":"noah","password":"opensesame123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "attacker-chosen-token"})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	cookie := sessionCookie(t, res, sm.CookieName())
	if cookie == nil {
		t.Fatalf("expected a fresh session cookie")
	}
	if cookie.Value == "attacker-chosen-token" {
		t.Fatalf("login must issue a new token, not echo the planted one")
	}
	if mr.Exists("session:attacker-chosen-token") {
		t.Fatalf("session must not be stored under a client-chosen token")
	}

	// The planted token stays useless after login.
	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "attacker-chosen-token"})
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)
	if meRes.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for the planted token, got %d", meRes.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newStubRepo()
	repo.seed(t, "noah", "opensesame123", auth.RoleUser)
	router, _, sm := newAuthRouter(t, repo)

	for _, payload := range []string{
		`{"username":"noah","password":"wrongpass"}`,
		`{"username":"ghost","password":"wrongpass"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)

		if res.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", res.Code, res.Body.String())
		}
		if !strings.Contains(res.Body.String(), "Invalid username or password.") {
			t.Fatalf("unexpected body: %s", res.Body.String())
		}
		if sessionCookie(t, res, sm.CookieName()) != nil {
			t.Fatalf("failed login must not set a session cookie")
		}
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	repo := newStubRepo()
	repo.seed(t, "noah", "opensesame123", auth.RoleUser)
	router, mr, sm := newAuthRouter(t, repo)

	loginReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"noah","password":"opensesame123"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRes := httptest.NewRecorder()
	router.ServeHTTP(loginRes, loginReq)

	cookie := sessionCookie(t, loginRes, sm.CookieName())
	if cookie == nil {
		t.Fatalf("expected session cookie from login")
	}

	logoutReq := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logoutReq.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	logoutRes := httptest.NewRecorder()
	router.ServeHTTP(logoutRes, logoutReq)

	if logoutRes.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", logoutRes.Code)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected session to be deleted from redis, keys: %v", mr.Keys())
	}
	expired := sessionCookie(t, logoutRes, sm.CookieName())
	if expired == nil || expired.MaxAge >= 0 {
		t.Fatalf("expected expired session cookie, got %+v", expired)
	}

	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)
	if meRes.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", meRes.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newStubRepo()
	repo.seed(t, "visitor", "longenough1", auth.RoleUser)
	router, _, _ := newAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"visitor","password":"longenough2"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "Username is already taken.") {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestSetupAdminIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	router, _, _ := newAuthRouter(t, repo)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/setup-admin", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	var created struct {
		Username string    `json:"username"`
		Role     auth.Role `json:"role"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Username != "admin" || created.Role != auth.RoleAdmin {
		t.Fatalf("unexpected bootstrap account: %+v", created)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/setup-admin", nil))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), "Setup already completed.") {
		t.Fatalf("unexpected body: %s", second.Body.String())
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(repo.users))
	}
}
