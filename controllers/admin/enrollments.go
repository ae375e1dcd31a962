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

// ListEnrollments lists all enrollments, newest first
func ListEnrollments(c *fiber.Ctx) error {
	var enrollments []models.Enrollment
	if err := database.Database.Db.Preload("User").Preload("Course").
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments retrieved successfully!", enrollments)
}

// CreateEnrollment enrolls an arbitrary user in a course
func CreateEnrollment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminEnrollment").(*struct {
		UserID   uint `json:"user_id"`
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := enrollmentService.EnrollUser(database.Database.Db, reqData.UserID, reqData.CourseID)
	switch {
	case err == nil:
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User enrolled successfully!", enrollment)
	case errors.Is(err, enrollmentService.ErrUserNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	case errors.Is(err, enrollmentService.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, enrollmentService.ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already enrolled in this course!", nil)
	default:
		log.Printf("Error enrolling user %d in course %d: %v", reqData.UserID, reqData.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll user!", nil)
	}
}

// DeleteEnrollment removes any enrollment by ID
func DeleteEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// The acting admin principal is passed explicitly to the service
	var admin models.User
	if err := database.Database.Db.First(&admin, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	err := enrollmentService.Cancel(database.Database.Db, admin, uint(enrollmentID))
	switch {
	case err == nil:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment removed successfully!", nil)
	case errors.Is(err, enrollmentService.ErrEnrollmentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	default:
		log.Printf("Error removing enrollment %d: %v", enrollmentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove enrollment!", nil)
	}
}
