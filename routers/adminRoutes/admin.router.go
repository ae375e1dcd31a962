package adminRoutes

import (
	adminControllers "learnhub/controllers/admin"
	userControllers "learnhub/controllers/user"
	"learnhub/middleware"
	adminValidators "learnhub/validators/admin"
	courseValidators "learnhub/validators/course"
	enrollmentValidators "learnhub/validators/enrollment"
	userValidators "learnhub/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up all administrative routes. The AdminOnly middleware
// rejects non-admin principals before any handler runs.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	// User management
	userGroup := adminGroup.Group("/users")
	userGroup.Get("/", adminControllers.ListUsers)
	userGroup.Post("/", adminValidators.CreateUser(), adminControllers.CreateUser)
	userGroup.Put("/:id", userValidators.UserID(), adminValidators.UpdateUser(), adminControllers.UpdateUser)
	userGroup.Delete("/:id", userValidators.UserID(), userControllers.DeleteUser)

	// Course management
	courseGroup := adminGroup.Group("/courses")
	courseGroup.Get("/", adminControllers.ListCourses)
	courseGroup.Delete("/:id/force", courseValidators.CourseID(), adminControllers.ForceDeleteCourse)

	// Enrollment management
	enrollmentGroup := adminGroup.Group("/enrollments")
	enrollmentGroup.Get("/", adminControllers.ListEnrollments)
	enrollmentGroup.Post("/", adminValidators.CreateEnrollment(), adminControllers.CreateEnrollment)
	enrollmentGroup.Delete("/:id", enrollmentValidators.EnrollmentID(), adminControllers.DeleteEnrollment)

	// Statistics
	adminGroup.Get("/statistics", adminControllers.Statistics)
	adminGroup.Get("/course-stats", adminControllers.CourseStats)
}
