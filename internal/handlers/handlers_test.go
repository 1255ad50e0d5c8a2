package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirehub-dev/hirehub/internal/auth"
	"github.com/hirehub-dev/hirehub/internal/handlers"
	"github.com/hirehub-dev/hirehub/internal/hub"
	"github.com/hirehub-dev/hirehub/internal/middleware"
	"github.com/hirehub-dev/hirehub/internal/models"
	"github.com/hirehub-dev/hirehub/internal/router"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type env struct {
	store  *store.MemoryStore
	hub    *hub.Hub
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()

	middleware.FlushUserCache()

	st := store.NewMemoryStore()
	messageHub := hub.New(st, 20*time.Millisecond)
	h := handlers.New(st, messageHub)

	return &env{
		store:  st,
		hub:    messageHub,
		router: router.NewRouter(st, h),
	}
}

func (e *env) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, e.store.CreateUser(user))

	return user
}

func (e *env) createProject(t *testing.T, submitter *models.User, title string) *models.Project {
	t.Helper()

	project := &models.Project{
		FullName:       "Jane Doe",
		SubmitterEmail: submitter.Email,
		IndustryRole:   "Software Development",
		Title:          title,
		Description:    strings.Repeat("a", 250),
		ProjectLink:    "https://example.com/demo",
		RepositoryLink: "https://example.com/repo",
		IsUnseen:       true,
		SubmittedByID:  submitter.ID,
	}
	require.NoError(t, e.store.CreateProject(project))

	return project
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	return token
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "boss@example.com",
		"password": "Hiring2025!",
		"role":     "manager",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		Token string         `json:"token"`
		User  types.UserView `json:"user"`
	}
	decode(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "manager", registered.User.Role)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "boss@example.com",
		"password": "Hiring2025!",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "boss@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRejectsDuplicateAndBadRole(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "boss@example.com", types.RoleManager)

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "boss@example.com",
		"password": "Hiring2025!",
		"role":     "manager",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "other@example.com",
		"password": "Hiring2025!",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitProjectValidation(t *testing.T) {
	e := newEnv(t)

	// Missing project_link: rejected before any mutation.
	rec := e.do(t, http.MethodPost, "/api/projects", "", gin.H{
		"full_name":     "Jane Doe",
		"email":         "jane@example.com",
		"industry_role": "Software Development",
		"title":         "Demo",
		"description":   "A demo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	projects, err := e.store.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)

	email := "jane@example.com"
	_, err = e.store.FindUser(store.UserFilter{Email: &email})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmitProjectProvisionsCandidate(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/projects", "", gin.H{
		"full_name":     "Jane Doe",
		"email":         "jane@example.com",
		"industry_role": "Software Development",
		"title":         "Demo",
		"description":   "A demo project",
		"project_link":  "https://example.com/demo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	email := "jane@example.com"
	user, err := e.store.FindUser(store.UserFilter{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, types.RoleCandidate, user.Role)

	projects, err := e.store.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, user.ID, projects[0].SubmittedByID)
	assert.True(t, projects[0].IsUnseen)

	// A second submission under the same email reuses the account.
	rec = e.do(t, http.MethodPost, "/api/projects", "", gin.H{
		"full_name":     "Jane Doe",
		"email":         "jane@example.com",
		"industry_role": "Design",
		"title":         "Second",
		"description":   "Another",
		"project_link":  "https://example.com/second",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	again, err := e.store.FindUser(store.UserFilter{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestListProjectsRequiresManager(t *testing.T) {
	e := newEnv(t)
	candidate := e.createUser(t, "jane@example.com", types.RoleCandidate)
	e.createProject(t, candidate, "Demo")

	rec := e.do(t, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/projects", tokenFor(t, candidate), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Forbidden access leaves the store untouched.
	projects, err := e.store.ListProjects()
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.True(t, projects[0].IsUnseen)
}

func TestListProjectsHydratesSubmitter(t *testing.T) {
	e := newEnv(t)
	manager := e.createUser(t, "boss@example.com", types.RoleManager)
	candidate := e.createUser(t, "jane@example.com", types.RoleCandidate)
	e.createProject(t, candidate, "Demo")

	rec := e.do(t, http.MethodGet, "/api/projects", tokenFor(t, manager), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []types.ProjectResponse
	decode(t, rec, &projects)
	require.Len(t, projects, 1)
	assert.Equal(t, "Demo", projects[0].Title)
	assert.Equal(t, candidate.Email, projects[0].SubmittedBy.Email)
	assert.Equal(t, types.RoleCandidate, projects[0].SubmittedBy.Role)
}

func TestSaveProject(t *testing.T) {
	e := newEnv(t)
	manager := e.createUser(t, "boss@example.com", types.RoleManager)
	candidate := e.createUser(t, "jane@example.com", types.RoleCandidate)
	project := e.createProject(t, candidate, "Demo")
	token := tokenFor(t, manager)

	rec := e.do(t, http.MethodPost, "/api/saved-projects", token, gin.H{"project_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/saved-projects", token, gin.H{"project_id": project.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	found, err := e.store.FindProjectByID(project.ID)
	require.NoError(t, err)
	assert.False(t, found.IsUnseen, "saving marks the project seen")

	// Saving again is allowed and recorded separately.
	rec = e.do(t, http.MethodPost, "/api/saved-projects", token, gin.H{"project_id": project.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/saved-projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved []types.ProjectResponse
	decode(t, rec, &saved)
	assert.Len(t, saved, 2)
}

func TestListMessages(t *testing.T) {
	e := newEnv(t)
	candidate := e.createUser(t, "jane@example.com", types.RoleCandidate)
	project := e.createProject(t, candidate, "Demo")
	token := tokenFor(t, candidate)

	// Unknown room reads as empty history.
	rec := e.do(t, http.MethodGet, "/api/messages/999", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	_, err := e.hub.Send(project.ID, candidate.ID, "hello")
	require.NoError(t, err)

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/messages/%d", project.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []types.MessageResponse
	decode(t, rec, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Body)
	assert.Equal(t, candidate.Email, messages[0].Sender.Email)
}

func TestAnalyticsEndpoints(t *testing.T) {
	e := newEnv(t)
	manager := e.createUser(t, "boss@example.com", types.RoleManager)
	candidate := e.createUser(t, "jane@example.com", types.RoleCandidate)
	e.createProject(t, candidate, "Demo")
	token := tokenFor(t, manager)

	rec := e.do(t, http.MethodGet, "/api/analytics", tokenFor(t, candidate), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rankings []struct {
		Email        string  `json:"email"`
		AverageScore float64 `json:"average_score"`
		Rank         int     `json:"rank"`
	}
	decode(t, rec, &rankings)
	require.Len(t, rankings, 1)
	assert.Equal(t, candidate.Email, rankings[0].Email)
	assert.Equal(t, 12.5, rankings[0].AverageScore) // 250 chars + both links
	assert.Equal(t, 1, rankings[0].Rank)

	rec = e.do(t, http.MethodGet, "/api/analytics/"+candidate.Email, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		TotalProjects int `json:"total_projects"`
		Projects      []struct {
			Score float64 `json:"score"`
		} `json:"projects"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, 1, detail.TotalProjects)
	require.Len(t, detail.Projects, 1)
	assert.Equal(t, 12.5, detail.Projects[0].Score)

	rec = e.do(t, http.MethodGet, "/api/analytics/ghost@example.com", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
