package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental/internal/config"
	"rental/internal/models"
)

// MockEventPublisher records place events instead of sending them to RabbitMQ.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPlaceEvent(event models.PlaceEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("DB_DRIVER", driver)
	t.Setenv("DATABASE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := config.Load(config.NewViper())
	require.NoError(t, err)
	return cfg
}

func TestHealthCheck(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			app, cleanup, err := newApp(testConfig(t, driver), nil)
			require.NoError(t, err)
			defer cleanup()

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, false, body["events"])
		})
	}
}

func TestCreatePlacePublishesEvent(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("PublishPlaceEvent", mock.MatchedBy(func(e models.PlaceEvent) bool {
		return e.Type == models.PlaceCreated
	})).Return(nil).Once()

	app, cleanup, err := newApp(testConfig(t, "memory"), events)
	require.NoError(t, err)
	defer cleanup()

	token := registerAndLogin(t, app.Test)

	body, _ := json.Marshal(map[string]interface{}{"title": "Loft", "price": 50, "maxGuests": 2})
	req := httptest.NewRequest(http.MethodPost, "/places", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	events.AssertExpectations(t)
}

func TestUploadsAreServed(t *testing.T) {
	cfg := testConfig(t, "memory")
	app, cleanup, err := newApp(cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "photo1.jpg"), []byte("jpeg"), 0o644))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/photo1.jpg", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	content, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "jpeg", string(content))
}

func registerAndLogin(t *testing.T, do func(*http.Request, ...int) (*http.Response, error)) string {
	t.Helper()

	creds := map[string]string{"name": "Ana", "email": "ana@x.com", "password": "pw1"}
	body, _ := json.Marshal(creds)
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := do(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = do(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			assert.True(t, c.Expires.After(time.Now()))
			return c.Value
		}
	}
	t.Fatal("login did not set the token cookie")
	return ""
}
