package adminController

import (
	"errors"
	"log"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	enrollmentService "learnhub/services/enrollment"

	"github.com/gofiber/fiber/v2"
)

// ListCourses lists all courses with enrollment counts and enrolled users
func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.Database.Db.Preload("Enrollments.User").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"description":       course.Description,
			"created_at":        course.CreatedAt,
			"enrollments":       course.Enrollments,
			"enrollments_count": len(course.Enrollments),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses retrieved successfully!", result)
}

// ForceDeleteCourse deletes a course and all of its enrollments
func ForceDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	err := enrollmentService.DeleteCourse(database.Database.Db, uint(courseID), true)
	switch {
	case err == nil:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course and all enrollments deleted successfully!", nil)
	case errors.Is(err, enrollmentService.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	default:
		log.Printf("Error force deleting course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
}
