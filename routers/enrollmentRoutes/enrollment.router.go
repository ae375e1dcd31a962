package enrollmentRoutes

import (
	enrollmentControllers "learnhub/controllers/enrollment"
	"learnhub/middleware"
	enrollmentValidators "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up the self-service enrollment routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments")

	enrollmentGroup.Get("/", middleware.JWTMiddleware, enrollmentControllers.GetEnrollments)
	enrollmentGroup.Post("/", middleware.JWTMiddleware, enrollmentValidators.CreateEnrollment(), enrollmentControllers.CreateEnrollment)
	enrollmentGroup.Delete("/:id", middleware.JWTMiddleware, enrollmentValidators.EnrollmentID(), enrollmentControllers.CancelEnrollment)
}
