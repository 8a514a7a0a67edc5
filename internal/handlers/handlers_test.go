package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/haeun-dev/health-tracker-backend/internal/auth"
	"github.com/haeun-dev/health-tracker-backend/internal/config"
	"github.com/haeun-dev/health-tracker-backend/internal/database"
	"github.com/haeun-dev/health-tracker-backend/internal/handlers"
	"github.com/haeun-dev/health-tracker-backend/internal/middleware"
	"github.com/haeun-dev/health-tracker-backend/internal/models"
	"github.com/haeun-dev/health-tracker-backend/internal/routes"
	"github.com/haeun-dev/health-tracker-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.HealthRecord{}))

	// the status handler pings through the package-level handle
	database.DB = db

	cfg := &config.Config{
		SessionCookie: "health_session",
		SessionExpiry: time.Hour,
		CORSOrigin:    "http://localhost:3000",
	}
	store := auth.NewStore(cfg)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(db), store)
	recordHandler := handlers.NewRecordHandler(services.NewRecordService(db))
	statusHandler := handlers.NewStatusHandler()

	app := fiber.New()
	app.Use(middleware.CORS(cfg))
	routes.Setup(app, store, authHandler, recordHandler, statusHandler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body string, cookies []*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, name, email, password string) []*http.Cookie {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/register",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, body["user"])
	require.NotEmpty(t, resp.Cookies(), "register must issue a session cookie")
	return resp.Cookies()
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["message"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUnauthenticatedAccessRejected(t *testing.T) {
	app := newTestApp(t)

	for _, route := range [][2]string{
		{fiber.MethodGet, "/api/health-data/2024-01-01"},
		{fiber.MethodPost, "/api/health-data/2024-01-01/water"},
		{fiber.MethodGet, "/api/health-data/weight-chart"},
		{fiber.MethodGet, "/api/health-data/export"},
		{fiber.MethodPost, "/api/health-data/import"},
		{fiber.MethodPost, "/api/logout"},
	} {
		resp, body := doJSON(t, app, route[0], route[1], "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", route[0], route[1])
		// error body only, no record data
		assert.Equal(t, true, body["error"])
		assert.Len(t, body, 2)
	}

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/check-auth", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])
	assert.Nil(t, body["user"])
}

func TestRegisterLoginSaveFetchFlow(t *testing.T) {
	app := newTestApp(t)
	cookies := register(t, app, "Haeun", "haeun@example.com", "secret123")

	// session resolves back to the user
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/check-auth", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "haeun@example.com", user["email"])

	// save a composite and a scalar, read the day back
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/health-data/2024-01-01/water",
		`{"count":8,"targetAmount":2000,"records":[]}`, cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/health-data/2024-01-01/weight",
		`"70.5"`, cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/health-data/2024-01-01", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 70.5, body["weight"])
	assert.EqualValues(t, 8, body["water"].(map[string]interface{})["count"])

	// a day without rows comes back as the synthesized default
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/health-data/2024-02-02", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	water := body["water"].(map[string]interface{})
	assert.EqualValues(t, 8, water["count"])
	assert.Len(t, water["records"].([]interface{}), 8)
	meals := body["meals"].(map[string]interface{})
	assert.Equal(t, []interface{}{"아침", "점심", "간식", "저녁"}, meals["labels"])

	// logout invalidates the session
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/logout", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/health-data/2024-01-01", "", cookies)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFailureParityOverHTTP(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Haeun", "haeun@example.com", "secret123")

	resp1, body1 := doJSON(t, app, fiber.MethodPost, "/api/login",
		`{"email":"haeun@example.com","password":"wrong"}`, nil)
	resp2, body2 := doJSON(t, app, fiber.MethodPost, "/api/login",
		`{"email":"ghost@example.com","password":"secret123"}`, nil)

	assert.Equal(t, fiber.StatusBadRequest, resp1.StatusCode)
	assert.Equal(t, resp1.StatusCode, resp2.StatusCode)
	assert.Equal(t, body1["message"], body2["message"])
}

func TestDuplicateRegister(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "First", "dup@example.com", "secret123")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/register",
		`{"name":"Second","email":"dup@example.com","password":"other456"}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["error"])
}

func TestMalformedDateAndCategory(t *testing.T) {
	app := newTestApp(t)
	cookies := register(t, app, "Haeun", "haeun@example.com", "secret123")

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/health-data/not-a-date", "", cookies)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/health-data/2024-01-01/we!ght", `"70"`, cookies)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/health-data/2024-01-01/weight", `null`, cookies)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestImportExportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	cookies := register(t, app, "Haeun", "haeun@example.com", "secret123")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/health-data/import",
		`{"2024-01-01":{"weight":"80"}}`, cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/health-data/export", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	day := body["2024-01-01"].(map[string]interface{})
	assert.EqualValues(t, 80, day["weight"])
}

func TestUnmatchedRoute(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["routes"], "404 body should enumerate available routes")
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
