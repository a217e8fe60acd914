package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"wecaare-insurance/internal/adapters/http/middleware"
	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/config"
	"wecaare-insurance/internal/pkg/password"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	for _, u := range []struct {
		username, plain, role string
	}{
		{"admin", "admin123456", models.RoleAdmin},
		{"staff", "staff123456", models.RoleStaff},
	} {
		hashed, err := password.Hash(u.plain)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.User{
			Username: u.username,
			Password: hashed,
			Role:     u.role,
			IsActive: true,
		}).Error)
	}

	cfg := &config.Config{
		AppMode: "dev",
		Port:    "0",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
	})
	Setup(app, db, cfg)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.Unmarshal(raw, &env)
	}

	return resp, env
}

func login(t *testing.T, app *fiber.App, username, pass string) string {
	t.Helper()

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": pass,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestLoginAndMe(t *testing.T) {
	app := newTestApp(t)

	token := login(t, app, "admin", "admin123456")

	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecordsRequireAuthentication(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/records", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStaffCannotTouchFinancials(t *testing.T) {
	app := newTestApp(t)
	staffToken := login(t, app, "staff", "staff123456")

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/records", staffToken, fiber.Map{
		"customer_name": "Ramesh Kumar",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var record struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))

	resp, _ = doJSON(t, app, http.MethodPut,
		"/api/v1/admin/records/1/financials", staffToken, fiber.Map{
			"total_commission": 1000,
		})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/financial-summary", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRecordLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	staffToken := login(t, app, "staff", "staff123456")
	adminToken := login(t, app, "admin", "admin123456")

	// Staff creates a record with basic fields
	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/records", staffToken, fiber.Map{
		"customer_name":     "Ramesh Kumar",
		"phone_number":      "9876543210",
		"vehicle_number":    "KA01AB1234",
		"policy_start_date": "2026-03-10",
		"expiry_date":       "2027-03-09",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var record struct {
		ID   uint   `json:"id"`
		UUID string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.NotEmpty(t, record.UUID)

	// Admin completes the financials
	resp, env = doJSON(t, app, http.MethodPut,
		"/api/v1/admin/records/1/financials", adminToken, fiber.Map{
			"total_premium":               12000,
			"total_commission":            1500,
			"customer_discounted_premium": 300,
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		AdminDetailsAdded bool `json:"admin_details_added"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.AdminDetailsAdded)

	// Summary reflects the completed record
	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/admin/financial-summary", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		TotalRevenue     float64 `json:"total_revenue"`
		TotalRecords     int64   `json:"total_records"`
		CompletedRecords int64   `json:"completed_records"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 12000.0, summary.TotalRevenue)
	assert.Equal(t, int64(1), summary.TotalRecords)
	assert.Equal(t, int64(1), summary.CompletedRecords)

	// Staff search finds it
	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/records?search=ramesh", staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	// Staff deletes, record disappears
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/records/1", staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/records/1", staffToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidDateRejected(t *testing.T) {
	app := newTestApp(t)
	staffToken := login(t, app, "staff", "staff123456")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/records", staffToken, fiber.Map{
		"customer_name": "Bad Date",
		"expiry_date":   "09-03-2027",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminManagesUsers(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "admin", "admin123456")
	staffToken := login(t, app, "staff", "staff123456")

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/admin/users", adminToken, fiber.Map{
		"username": "newstaff",
		"password": "newstaff123",
		"role":     "STAFF",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "newstaff", user.Username)

	// New account can log in
	login(t, app, "newstaff", "newstaff123")

	// Staff cannot manage users
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
