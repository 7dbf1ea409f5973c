package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	h := newTestRouter(t)

	code, env := doRequest(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Ada",
		"email":    "  Ada@Example.com ",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "User registered successfully", env.Message)

	body := decodeData[UserEnvelope](t, env)
	assert.Equal(t, "ada@example.com", body.User.Email)
	assert.Equal(t, "Ada", body.User.Name)
	assert.NotContains(t, string(env.Data), "password")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	h := newTestRouter(t)

	t.Run("all fields missing", func(t *testing.T) {
		code, env := doRequest(t, h, http.MethodPost, "/api/register", "", map[string]string{})
		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, MsgValidationFailed, env.Message)
		assert.Contains(t, env.Errors, "name")
		assert.Contains(t, env.Errors, "email")
		assert.Contains(t, env.Errors, "password")
	})

	t.Run("empty body", func(t *testing.T) {
		code, env := doRequest(t, h, http.MethodPost, "/api/register", "", nil)
		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Len(t, env.Errors, 3)
	})

	t.Run("duplicate email", func(t *testing.T) {
		payload := map[string]string{"name": "A", "email": "dup@example.com", "password": "secret123"}
		code, _ := doRequest(t, h, http.MethodPost, "/api/register", "", payload)
		require.Equal(t, http.StatusCreated, code)

		payload["email"] = "DUP@example.com"
		code, env := doRequest(t, h, http.MethodPost, "/api/register", "", payload)
		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, env.Errors, "email")
		assert.NotContains(t, env.Errors, "name")
	})

	t.Run("malformed json", func(t *testing.T) {
		code, env := doRequest(t, h, http.MethodPost, "/api/register", "", `{"name":`)
		require.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, MsgInvalidRequest, env.Message)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	h := newTestRouter(t)
	code, _ := doRequest(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)

	t.Run("success", func(t *testing.T) {
		code, env := doRequest(t, h, http.MethodPost, "/api/login", "", map[string]string{
			"email": "ADA@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Login successful", env.Message)

		login := decodeData[LoginResponse](t, env)
		assert.NotEmpty(t, login.Token)
		assert.Equal(t, "Bearer", login.TokenType)
		assert.Equal(t, "ada@example.com", login.User.Email)

		expiresAt, err := time.Parse(time.RFC3339, login.ExpiresAt)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		code1, env1 := doRequest(t, h, http.MethodPost, "/api/login", "", map[string]string{
			"email": "ada@example.com", "password": "wrong-password",
		})
		code2, env2 := doRequest(t, h, http.MethodPost, "/api/login", "", map[string]string{
			"email": "nobody@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusUnauthorized, code1)
		assert.Equal(t, code1, code2)
		assert.Equal(t, MsgInvalidCredentials, env1.Message)
		assert.Equal(t, env1.Message, env2.Message)
	})

	t.Run("validation", func(t *testing.T) {
		code, env := doRequest(t, h, http.MethodPost, "/api/login", "", map[string]string{
			"email": "not-an-email",
		})
		require.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, env.Errors, "email")
		assert.Contains(t, env.Errors, "password")
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := newTestRouter(t)
	token := registerAndLogin(t, h, "me@example.com")

	code, env := doRequest(t, h, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User data retrieved", env.Message)
	assert.Equal(t, "me@example.com", decodeData[UserEnvelope](t, env).User.Email)

	for name, tok := range map[string]string{
		"missing": "",
		"garbage": "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			code, env := doRequest(t, h, http.MethodGet, "/api/user", tok, nil)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, shared.MsgUnauthenticated, env.Message)
		})
	}
}
