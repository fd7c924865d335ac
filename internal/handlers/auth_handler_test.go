package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/services"
)

type authTestEnv struct {
	app    *fiber.App
	users  *memUserRepo
	tokens *services.TokenService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	repo := newMemUserRepo()
	userService := services.NewUserService(repo)
	tokenService := services.NewTokenService("test-secret", time.Hour, 24*time.Hour, repo)
	validate := validator.New()
	handler := NewAuthHandler(userService, tokenService, nil, newMemFileStore(), validate, false)

	app := fiber.New()
	app.Post("/api/auth/register", handler.Register)
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/logout", middleware.Auth(tokenService), handler.Logout)
	app.Put("/api/auth/change-password", middleware.Auth(tokenService), handler.ChangePassword)
	app.Post("/api/auth/transfer-admin", middleware.Auth(tokenService), middleware.AdminOnly, handler.TransferAdmin)

	return &authTestEnv{app: app, users: repo, tokens: tokenService}
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestRegisterAdmin(t *testing.T) {
	env := newAuthTestEnv(t)

	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "a",
		"email":    "a@x.com",
		"password": "Passw0rd",
		"isAdmin":  true,
	}))
	// username min length is 3
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "admin",
		"email":    "a@x.com",
		"password": "Passw0rd",
		"isAdmin":  true,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	body := decodeBody(t, res)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, true, body["isAdmin"])
	assert.NotZero(t, body["expiresAt"])

	// Auto-login: the session cookie is set alongside the body tokens.
	var sawCookie bool
	for _, cookie := range res.Cookies() {
		if cookie.Name == services.AuthCookieName && cookie.Value != "" {
			sawCookie = true
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, sawCookie, "register must set the HttpOnly session cookie")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newAuthTestEnv(t)

	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "jean",
		"email":    "jean@x.com",
		"password": "weak",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.NotEmpty(t, body["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAuthTestEnv(t)

	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "jean",
		"email":    "jean@x.com",
		"password": "Passw0rd",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jean@x.com",
		"password": "wrong",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, map[string]any{"error": "Invalid credentials"}, decodeBody(t, res))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	env := newAuthTestEnv(t)

	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ghost@x.com",
		"password": "Passw0rd",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	// Same body as a wrong password: no account enumeration.
	assert.Equal(t, map[string]any{"error": "Invalid credentials"}, decodeBody(t, res))
}

func TestLoginSuccess(t *testing.T) {
	env := newAuthTestEnv(t)

	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "jean",
		"email":    "jean@x.com",
		"password": "Passw0rd",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jean@x.com",
		"password": "Passw0rd",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, false, body["isAdmin"])
}

func registerAndToken(t *testing.T, env *authTestEnv, username, email string, isAdmin bool) string {
	t.Helper()
	res, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": "Passw0rd",
		"isAdmin":  isAdmin,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	body := decodeBody(t, res)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestChangePasswordFlow(t *testing.T) {
	env := newAuthTestEnv(t)
	token := registerAndToken(t, env, "jean", "jean@x.com", false)

	req := jsonRequest(http.MethodPut, "/api/auth/change-password", map[string]any{
		"currentPassword": "wrong",
		"newPassword":     "NewPassw0rd",
	})
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req = jsonRequest(http.MethodPut, "/api/auth/change-password", map[string]any{
		"currentPassword": "Passw0rd",
		"newPassword":     "NewPassw0rd",
	})
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Old password no longer works.
	res, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jean@x.com",
		"password": "Passw0rd",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestTransferAdminEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)
	adminToken := registerAndToken(t, env, "admin", "admin@x.com", true)
	userToken := registerAndToken(t, env, "jean", "jean@x.com", false)

	// Non-admin callers are rejected by the admin middleware.
	req := jsonRequest(http.MethodPost, "/api/auth/transfer-admin", map[string]any{"email": "admin@x.com"})
	req.Header.Set("Authorization", "Bearer "+userToken)
	res, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	req = jsonRequest(http.MethodPost, "/api/auth/transfer-admin", map[string]any{"email": "jean@x.com"})
	req.Header.Set("Authorization", "Bearer "+adminToken)
	res, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newAuthTestEnv(t)
	token := registerAndToken(t, env, "jean", "jean@x.com", false)

	req := jsonRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var cleared bool
	for _, cookie := range res.Cookies() {
		if cookie.Name == services.AuthCookieName {
			cleared = cookie.Value == "" || cookie.MaxAge < 0 || strings.Contains(cookie.Expires.String(), "1970")
		}
	}
	assert.True(t, cleared, "logout must clear the session cookie")
}
