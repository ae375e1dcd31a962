package courseRoutes

import (
	courseControllers "learnhub/controllers/course"
	"learnhub/middleware"
	courseValidators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course browsing, management and enrollment routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Course browsing and details
	courseGroup.Get("/", middleware.JWTMiddleware, courseValidators.CourseList(), courseControllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, courseValidators.CourseID(), courseControllers.GetCourseDetails)

	// Course management (admin)
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.CreateCourse(), courseControllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.CourseID(), courseValidators.UpdateCourse(), courseControllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.CourseID(), courseControllers.DeleteCourse)

	// Enrollment actions
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidators.CourseID(), courseControllers.EnrollInCourse)
	courseGroup.Post("/:id/complete", middleware.JWTMiddleware, courseValidators.CourseID(), courseControllers.CompleteCourse)

	// Enrolled students
	courseGroup.Get("/:id/students", middleware.JWTMiddleware, courseValidators.CourseID(), courseControllers.GetEnrolledStudents)
}
