package userRoutes

import (
	userControllers "learnhub/controllers/user"
	"learnhub/middleware"
	userValidators "learnhub/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up all user-facing profile routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	// Self management
	userGroup.Get("/me", middleware.JWTMiddleware, userControllers.Me)
	userGroup.Put("/me", middleware.JWTMiddleware, userValidators.UpdateMe(), userControllers.UpdateMe)

	// User listing
	userGroup.Get("/", middleware.JWTMiddleware, userValidators.UserList(), userControllers.UserList)
	userGroup.Get("/:id", middleware.JWTMiddleware, userValidators.UserID(), userControllers.GetUser)

	// Deletion is admin-gated: the last-admin guard lives in the service layer
	userGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, userValidators.UserID(), userControllers.DeleteUser)
}
