package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}
}

func setupTestDb(t *testing.T) {
	t.Helper()
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
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", c.Locals("userId"))
	})
	return app
}

func TestJWTRoundTrip(t *testing.T) {
	setupTestConfig(t)
	app := protectedApp()

	token, err := GenerateJWT(42, "Test User", models.RoleStudent, "user@test.local")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMissingHeader(t *testing.T) {
	setupTestConfig(t)
	app := protectedApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMalformedHeader(t *testing.T) {
	setupTestConfig(t)
	app := protectedApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTExpiredToken(t *testing.T) {
	setupTestConfig(t)
	app := protectedApp()

	claims := jwt.MapClaims{
		"userId": float64(42),
		"iat":    time.Now().Add(-48 * time.Hour).Unix(),
		"exp":    time.Now().Add(-24 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTWrongSignature(t *testing.T) {
	setupTestConfig(t)
	app := protectedApp()

	claims := jwt.MapClaims{
		"userId": float64(42),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyRejectsStudent(t *testing.T) {
	setupTestConfig(t)
	setupTestDb(t)

	student := models.User{Name: "Student", Email: "student@test.local", Password: "hashed", Role: models.RoleStudent}
	require.NoError(t, database.Database.Db.Create(&student).Error)

	reached := false
	app := fiber.New()
	app.Get("/admin-only", JWTMiddleware, AdminOnly, func(c *fiber.Ctx) error {
		reached = true
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	token, err := GenerateJWT(student.ID, student.Name, student.Role, student.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	// The guard must stop the request before the handler runs
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.False(t, reached)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	setupTestConfig(t)
	setupTestDb(t)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "hashed", Role: models.RoleAdmin}
	require.NoError(t, database.Database.Db.Create(&admin).Error)

	app := fiber.New()
	app.Get("/admin-only", JWTMiddleware, AdminOnly, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	token, err := GenerateJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
