package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/comparathor/backend/internal/model"
	"github.com/comparathor/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type memoryUserStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int64
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*model.User)}
}

func (m *memoryUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) CreateUser(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	user := &model.User{
		ID:           m.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[email] = user
	copied := *user
	return &copied, nil
}

func newAuthRouter(t *testing.T, accessTTL time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := service.NewTokenCodec("test-secret", "HS256", accessTTL, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	authService := service.NewAuthService(newMemoryUserStore(), codec, service.NewRevocationSet())
	authHandler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/refresh-token", authHandler.Refresh)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", AuthMiddleware(authService), authHandler.Me)
	return r
}

func doJSON(r *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeTokens(t *testing.T, w *httptest.ResponseRecorder) model.TokenResponse {
	t.Helper()
	var resp model.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return resp
}

func TestRegisterAndLoginFlow(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	registered := decodeTokens(t, w)
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("register returned empty tokens")
	}
	if registered.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", registered.TokenType)
	}
	if registered.User == nil || registered.User.Role != model.RoleRegistered {
		t.Fatalf("unexpected user payload: %+v", registered.User)
	}

	// A later login mints a fresh access token; wait out the second so the
	// expiry claim actually differs.
	time.Sleep(1100 * time.Millisecond)

	w = doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	loggedIn := decodeTokens(t, w)
	if loggedIn.AccessToken == registered.AccessToken {
		t.Fatal("login returned the registration access token")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	body := `{"name":"Alice","email":"a@x.com","password":"secret1"}`
	if w := doJSON(r, http.MethodPost, "/auth/register", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/auth/register", body, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("second register: expected 400, got %d", w.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`, nil)

	wrongPassword := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, nil)
	unknownEmail := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"secret1"}`, nil)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	// Same body either way: no account-existence oracle.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatal("login failures are distinguishable")
	}
}

func TestLogoutThenRefresh(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`, nil)
	tokens := decodeTokens(t, w)

	refreshBody := fmt.Sprintf(`{"refresh_token":%q}`, tokens.RefreshToken)

	if w := doJSON(r, http.MethodPost, "/auth/refresh-token", refreshBody, nil); w.Code != http.StatusOK {
		t.Fatalf("refresh before logout: expected 200, got %d", w.Code)
	}

	if w := doJSON(r, http.MethodPost, "/auth/logout", refreshBody, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	if w := doJSON(r, http.MethodPost, "/auth/refresh-token", refreshBody, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", w.Code)
	}
}

func TestLogoutMissingToken(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	if w := doJSON(r, http.MethodPost, "/auth/logout", `{}`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing refresh token, got %d", w.Code)
	}
}

func TestRefreshGarbage(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	w := doJSON(r, http.MethodPost, "/auth/refresh-token", `{"refresh_token":"garbage"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtectedRoute(t *testing.T) {
	r := newAuthRouter(t, 15*time.Minute)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`, nil)
	tokens := decodeTokens(t, w)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokens.AccessToken)
	if w := doJSON(r, http.MethodGet, "/auth/me", "", header); w.Code != http.StatusOK {
		t.Fatalf("authorized request: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if w := doJSON(r, http.MethodGet, "/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", w.Code)
	}

	header.Set("Authorization", "Bearer garbage")
	if w := doJSON(r, http.MethodGet, "/auth/me", "", header); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestProtectedRouteExpiredToken(t *testing.T) {
	// A codec with a negative TTL issues tokens that are already dead.
	r := newAuthRouter(t, -time.Second)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`, nil)
	tokens := decodeTokens(t, w)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokens.AccessToken)
	if w := doJSON(r, http.MethodGet, "/auth/me", "", header); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", w.Code)
	}
}
