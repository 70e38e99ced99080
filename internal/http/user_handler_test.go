package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, taken := m.usersByEmail[user.Email]; taken {
		return &pgconn.PgError{Code: "23505"}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	if _, ok := m.usersByID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, user.Email)
	delete(m.usersByID, id)
	return nil
}

func (m *mockUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.usersByID[id]
	return ok, nil
}

func setupAuthRouter(userSvc *service.UserService, jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(zap.NewNop(), userSvc, jwtSvc)
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.GET("/api/users/me", JWTAuthMiddleware(jwtSvc), h.Me)
	return r
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newAuthFixture() (*gin.Engine, *service.UserService, *service.JWTService) {
	userSvc := service.NewUserService(zap.NewNop(), newMockUserRepo(), nil)
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	return setupAuthRouter(userSvc, jwtSvc), userSvc, jwtSvc
}

func TestRegister_Success(t *testing.T) {
	r, _, _ := newAuthFixture()

	rec := performRequest(r, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "supersecret",
		"role":     "learner",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Tokens service.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Data.Tokens.AccessToken == "" {
		t.Fatalf("expected success envelope with tokens: %s", rec.Body.String())
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _, _ := newAuthFixture()

	payload := map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "learner",
	}
	if rec := performRequest(r, http.MethodPost, "/api/auth/register", payload, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	rec := performRequest(r, http.MethodPost, "/api/auth/register", payload, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	r, _, _ := newAuthFixture()

	rec := performRequest(r, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "admin",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _, _ := newAuthFixture()

	performRequest(r, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "learner",
	}, "")

	rec := performRequest(r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrongpass",
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMe_RoundTrip(t *testing.T) {
	r, _, _ := newAuthFixture()

	rec := performRequest(r, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "learner",
	}, "")
	var registered struct {
		Data struct {
			Tokens service.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	rec = performRequest(r, http.MethodGet, "/api/users/me", nil, registered.Data.Tokens.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var me struct {
		Data struct {
			User domain.User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.Data.User.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", me.Data.User)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	r, _, _ := newAuthFixture()

	rec := performRequest(r, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "learner",
	}, "")
	var registered struct {
		Data struct {
			Tokens service.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	rec = performRequest(r, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": registered.Data.Tokens.RefreshToken,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// El token ya rotado no puede volver a usarse.
	rec = performRequest(r, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": registered.Data.Tokens.RefreshToken,
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on reused refresh token, got %d", rec.Code)
	}
}
