package adminController

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

// Statistics returns aggregate counts across users, courses and enrollments
func Statistics(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalAdmins, totalStudents int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&totalAdmins)
	db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)

	var totalCourses, totalEnrollments int64
	db.Model(&models.Course{}).Count(&totalCourses)
	db.Model(&models.Enrollment{}).Count(&totalEnrollments)

	// Distinct entities that appear on at least one enrollment
	var coursesWithEnrollments, studentsWithEnrollments int64
	db.Model(&models.Enrollment{}).Distinct("course_id").Count(&coursesWithEnrollments)
	db.Model(&models.User{}).
		Where("role = ? AND id IN (?)", models.RoleStudent,
			db.Model(&models.Enrollment{}).Select("user_id")).
		Count(&studentsWithEnrollments)

	var recentEnrollments int64
	weekAgo := time.Now().AddDate(0, 0, -7)
	db.Model(&models.Enrollment{}).Where("created_at >= ?", weekAgo).Count(&recentEnrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics retrieved successfully!", fiber.Map{
		"total_users":               totalUsers,
		"total_admins":              totalAdmins,
		"total_students":            totalStudents,
		"total_courses":             totalCourses,
		"total_enrollments":         totalEnrollments,
		"courses_with_enrollments":  coursesWithEnrollments,
		"students_with_enrollments": studentsWithEnrollments,
		"recent_enrollments":        recentEnrollments,
	})
}

// CourseStat is one row of the per-course enrollment ranking
type CourseStat struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	CreatedAt        time.Time `json:"created_at"`
	EnrollmentsCount int64     `json:"enrollments_count"`
}

// CourseStats ranks courses by enrollment count, descending
func CourseStats(c *fiber.Ctx) error {
	var stats []CourseStat
	if err := database.Database.Db.Model(&models.Course{}).
		Select("courses.id, courses.title, courses.created_at, COUNT(enrollments.id) AS enrollments_count").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Group("courses.id, courses.title, courses.created_at").
		Order("enrollments_count desc").
		Scan(&stats).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course statistics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollment statistics retrieved successfully!", stats)
}
