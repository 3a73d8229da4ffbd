package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth/domain"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth/middleware"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth/service"
)

type memUsers struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	seq     int
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*domain.User), byID: make(map[string]*domain.User)}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.byEmail[u.Email] = &stored
	m.byID[u.ID] = &stored
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := service.New(newMemUsers(), issuer)
	r := gin.New()
	New(svc).Register(r.Group("/api/v1/auth"), middleware.RequireAuth(issuer))
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type sessionResp struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("201 with token, hash never serialized", func(t *testing.T) {
		r := newAuthRouter()
		w := post(t, r, "/api/v1/auth/register",
			gin.H{"name": "Nimal", "email": "nimal@example.com", "password": "s3cret"})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp sessionResp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "nimal@example.com", resp.User.Email)
		assert.Equal(t, domain.RoleFarmer, resp.User.Role)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("409 on duplicate email", func(t *testing.T) {
		r := newAuthRouter()
		body := gin.H{"email": "a@b.c", "password": "x"}
		require.Equal(t, http.StatusCreated, post(t, r, "/api/v1/auth/register", body).Code)
		w := post(t, r, "/api/v1/auth/register", body)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"email already registered"}`, w.Body.String())
	})

	t.Run("400 on invalid role", func(t *testing.T) {
		r := newAuthRouter()
		w := post(t, r, "/api/v1/auth/register", gin.H{"email": "a@b.c", "password": "x", "role": "root"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("400 on missing credentials", func(t *testing.T) {
		r := newAuthRouter()
		w := post(t, r, "/api/v1/auth/register", gin.H{"name": "No Email"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	r := newAuthRouter()
	require.Equal(t, http.StatusCreated,
		post(t, r, "/api/v1/auth/register", gin.H{"email": "a@b.c", "password": "s3cret"}).Code)

	t.Run("200 with fresh token", func(t *testing.T) {
		w := post(t, r, "/api/v1/auth/login", gin.H{"email": "a@b.c", "password": "s3cret"})
		require.Equal(t, http.StatusOK, w.Code)
		var resp sessionResp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("401 on wrong password", func(t *testing.T) {
		w := post(t, r, "/api/v1/auth/login", gin.H{"email": "a@b.c", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"invalid email or password"}`, w.Body.String())
	})

	t.Run("401 on unknown email", func(t *testing.T) {
		w := post(t, r, "/api/v1/auth/login", gin.H{"email": "ghost@b.c", "password": "s3cret"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	r := newAuthRouter()
	w := post(t, r, "/api/v1/auth/register", gin.H{"name": "Nimal", "email": "a@b.c", "password": "x"})
	require.Equal(t, http.StatusCreated, w.Code)
	var session sessionResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	t.Run("200 with profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User domain.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, session.User.ID, resp.User.ID)
		assert.Equal(t, "Nimal", resp.User.Name)
	})

	t.Run("401 without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
