package skills

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliocms/folio/internal/platform/httpx"
)

type mockSkillRepo struct {
	skills map[int64]Skill
	nextID int64
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{skills: make(map[int64]Skill), nextID: 1}
}

func (m *mockSkillRepo) List(ctx context.Context) ([]Skill, error) {
	var out []Skill
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSkillRepo) Create(ctx context.Context, s Skill) (Skill, error) {
	s.ID = m.nextID
	m.nextID++
	m.skills[s.ID] = s
	return s, nil
}

func (m *mockSkillRepo) Update(ctx context.Context, id int64, s Skill) (Skill, error) {
	if _, ok := m.skills[id]; !ok {
		return Skill{}, httpx.ErrNotFound
	}
	s.ID = id
	m.skills[id] = s
	return s, nil
}

func (m *mockSkillRepo) Delete(ctx context.Context, id int64) error {
	delete(m.skills, id)
	return nil
}

func newSkillsRouter(repo Repository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, repo, nil)
	r := chi.NewRouter()
	handler.MountPublic(r)
	handler.MountAdmin(r)
	return r
}

func TestListSkillsReturnsEmptyArray(t *testing.T) {
	router := newSkillsRouter(newMockSkillRepo())

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/skills", nil))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "[]\n", res.Body.String())
}

func TestCreateSkill(t *testing.T) {
	repo := newMockSkillRepo()
	router := newSkillsRouter(repo)

	body := strings.NewReader(`{"name":"Go","category":"backend","level":90,"sortOrder":1}`)
	req := httptest.NewRequest(http.MethodPost, "/skills", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var created Skill
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Go", created.Name)
	assert.Len(t, repo.skills, 1)
}

func TestCreateSkillValidation(t *testing.T) {
	router := newSkillsRouter(newMockSkillRepo())

	body := strings.NewReader(`{"name":"","category":"backend","level":150}`)
	req := httptest.NewRequest(http.MethodPost, "/skills", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	var resp httpx.ValidationResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed.", resp.Message)
	assert.NotEmpty(t, resp.Errors)
}

func TestUpdateMissingSkillReturns404(t *testing.T) {
	router := newSkillsRouter(newMockSkillRepo())

	body := strings.NewReader(`{"name":"Go","category":"backend","level":90}`)
	req := httptest.NewRequest(http.MethodPut, "/skills/99", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "Resource not found.")
}

func TestUpdateSkillInvalidID(t *testing.T) {
	router := newSkillsRouter(newMockSkillRepo())

	req := httptest.NewRequest(http.MethodPut, "/skills/abc", strings.NewReader(`{}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Invalid id.")
}

func TestDeleteSkillIsIdempotent(t *testing.T) {
	repo := newMockSkillRepo()
	router := newSkillsRouter(repo)

	for i := 0; i < 2; i++ {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/skills/1", nil))
		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "Deleted.")
	}
}
