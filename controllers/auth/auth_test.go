package authController_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	authRoutes "learnhub/routers/authRoutes"
	userRoutes "learnhub/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*envelope, int) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return &env, resp.StatusCode
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	env, code := postJSON(t, app, "/auth/register",
		`{"name":"Jane Doe","email":"jane@test.local","password":"secret123"}`)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.True(t, env.Status)

	// Registered users always start as students
	var created struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.RoleStudent, created.Role)

	env, code = postJSON(t, app, "/auth/login",
		`{"email":"jane@test.local","password":"secret123"}`)
	assert.Equal(t, fiber.StatusOK, code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	// The issued token must authenticate against a protected route
	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	_, code := postJSON(t, app, "/auth/register",
		`{"name":"Jane Doe","email":"jane@test.local","password":"secret123"}`)
	require.Equal(t, fiber.StatusCreated, code)

	_, code = postJSON(t, app, "/auth/register",
		`{"name":"Jane Clone","email":"jane@test.local","password":"secret456"}`)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	// Missing name, invalid email, short password
	env, code := postJSON(t, app, "/auth/register",
		`{"name":"","email":"not-an-email","password":"abc"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.False(t, env.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	_, code := postJSON(t, app, "/auth/register",
		`{"name":"Jane Doe","email":"jane@test.local","password":"secret123"}`)
	require.Equal(t, fiber.StatusCreated, code)

	_, code = postJSON(t, app, "/auth/login",
		`{"email":"jane@test.local","password":"wrong-password"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestLoginUnknownUser(t *testing.T) {
	app := setupApp(t)

	_, code := postJSON(t, app, "/auth/login",
		`{"email":"nobody@test.local","password":"secret123"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
