package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskman-api/internal/api/middleware"
	"github.com/phrazzld/taskman-api/internal/cache"
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/sqlite"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "handler-test-secret-with-at-least-32-chars"

type testEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Meta    json.RawMessage     `json:"meta"`
	TraceID string              `json:"trace_id"`
}

// newTestRouter wires the handlers the same way cmd/server does, on an
// in-memory SQLite database.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	authService, err := auth.NewAuthService(sqlite.NewUserStore(db, nil), hasher, hasher, jwtService, nil)
	require.NoError(t, err)

	taskService, err := service.NewTaskService(
		sqlite.NewTaskStore(db, nil),
		cache.NewMemoryCache(),
		service.TaskServiceOptions{CacheTTL: time.Minute, KeyByFilters: true},
		nil,
	)
	require.NoError(t, err)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/api/user", authHandler.Me)
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Show)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) (int, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

// registerAndLogin creates an account and returns a bearer token for it.
func registerAndLogin(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	code, _ := doRequest(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
