package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental/internal/handlers"
	"rental/internal/middleware"
	"rental/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestApp(guard func(middleware.TokenVerifier) fiber.Handler, tokens middleware.TokenVerifier) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/", guard(tokens), func(c *fiber.Ctx) error {
		claims, ok := middleware.IdentityFrom(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(claims.UserID + "|" + claims.Email)
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestIdentify(t *testing.T) {
	tokens := services.NewTokenService(testSecret, time.Hour)
	app := newTestApp(middleware.Identify, tokens)

	valid, err := tokens.Issue(services.Claims{UserID: "user-1", Email: "ana@x.com"})
	require.NoError(t, err)
	expired, _ := services.NewTokenService(testSecret, -time.Hour).Issue(services.Claims{UserID: "user-1"})
	wrongSecret, _ := services.NewTokenService("wrong-secret", time.Hour).Issue(services.Claims{UserID: "user-1"})

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"no cookie", "", http.StatusOK, "anonymous"},
		{"valid", valid, http.StatusOK, "user-1|ana@x.com"},
		{"malformed", "not.a.valid.token", http.StatusUnauthorized, ""},
		{"expired", expired, http.StatusUnauthorized, ""},
		{"wrong secret", wrongSecret, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := request(t, app, tt.token)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, body)
				return
			}
			var errResp map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(body), &errResp))
			assert.Equal(t, "Unauthorized", errResp["kind"])
		})
	}
}

func TestAuthRequired(t *testing.T) {
	tokens := services.NewTokenService(testSecret, time.Hour)
	app := newTestApp(middleware.AuthRequired, tokens)

	status, _ := request(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	valid, err := tokens.Issue(services.Claims{UserID: "user-1", Email: "ana@x.com"})
	require.NoError(t, err)
	status, body := request(t, app, valid)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-1|ana@x.com", body)
}

type failingVerifier struct{}

func (failingVerifier) Verify(string) (services.Claims, error) {
	return services.Claims{}, errors.New("keystore offline")
}

func TestAuthRequired_VerifierErrorsBecomeUnauthorized(t *testing.T) {
	app := newTestApp(middleware.AuthRequired, failingVerifier{})

	status, _ := request(t, app, "anything")
	assert.Equal(t, http.StatusUnauthorized, status)
}
