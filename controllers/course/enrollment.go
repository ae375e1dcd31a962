package courseController

import (
	"errors"
	"log"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	enrollmentService "learnhub/services/enrollment"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	enrollment, err := enrollmentService.Enroll(database.Database.Db, user, uint(courseID))
	switch {
	case err == nil:
		utils.SendEnrollmentEmail(user.Email, user.Name, enrollment.Course.Title)
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Successfully enrolled in course!", enrollment)
	case errors.Is(err, enrollmentService.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, enrollmentService.ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	default:
		log.Printf("Error enrolling user %d in course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
}

func CompleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := enrollmentService.Complete(database.Database.Db, user, uint(courseID))
	switch {
	case err == nil:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course completed!", enrollment)
	case errors.Is(err, enrollmentService.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	case errors.Is(err, enrollmentService.ErrAlreadyCompleted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already completed!", nil)
	default:
		log.Printf("Error completing course %d for user %d: %v", courseID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete course!", nil)
	}
}

// enrolledStudentDetail carries the pivot columns for the students listing
type enrolledStudentDetail struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// GetEnrolledStudents lists enrolled students with their enrollment timestamps
func GetEnrolledStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var rows []enrolledStudentDetail
	if err := database.Database.Db.Table("enrollments").
		Select("users.id, users.name, users.email, enrollments.enrolled_at, enrollments.completed_at").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Where("enrollments.course_id = ?", courseID).
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrolled students!", nil)
	}

	students := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		students = append(students, fiber.Map{
			"id":           row.ID,
			"name":         row.Name,
			"email":        row.Email,
			"enrolled_at":  row.EnrolledAt,
			"completed_at": row.CompletedAt,
			"completed":    row.CompletedAt != nil,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students retrieved successfully!", fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
		},
		"enrolled_students": students,
	})
}
