package enrollment

import (
	"errors"
	"sync"
	"testing"

	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the whole in-memory database on one handle
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "hashed", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, title string) models.Course {
	t.Helper()
	course := models.Course{Title: title, Description: "test course"}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestEnrollCreatesSingleRow(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	enrollment, err := Enroll(db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.UserID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.Nil(t, enrollment.CompletedAt)

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollTwiceReturnsConflict(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	_, err = Enroll(db, student, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollMissingCourse(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)

	_, err := Enroll(db, student, 999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUniqueIndexGuardsDirectInsert(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	// Bypass the pre-check entirely: the constraint itself must reject the row
	dup := models.Enrollment{UserID: student.ID, CourseID: course.ID}
	err = db.Create(&dup).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestConcurrentEnrollOneWinner(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = Enroll(db, student, course.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyEnrolled):
			conflicts++
		default:
			t.Fatalf("unexpected enroll error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollUserValidatesTarget(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db, "Go Basics")

	_, err := EnrollUser(db, 999, course.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	enrollment, err := EnrollUser(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.UserID)
}

func TestCompleteWithoutEnrollment(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Complete(db, student, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestCompleteIsOneWay(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	enrollment, err := Complete(db, student, course.ID)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	firstCompletion := *enrollment.CompletedAt

	// A second complete must fail, not no-op
	_, err = Complete(db, student, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	var stored models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	require.NotNil(t, stored.CompletedAt)
	assert.WithinDuration(t, firstCompletion, *stored.CompletedAt, 0)
}

func TestCancelOwnEnrollment(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	enrollment, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	require.NoError(t, Cancel(db, student, enrollment.ID))

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Cancelling frees the pair for re-enrollment
	_, err = Enroll(db, student, course.ID)
	assert.NoError(t, err)
}

func TestCancelOtherUsersEnrollment(t *testing.T) {
	db := setupTestDb(t)
	owner := createUser(t, db, "Owner", "owner@test.local", models.RoleStudent)
	other := createUser(t, db, "Other", "other@test.local", models.RoleStudent)
	admin := createUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	course := createCourse(t, db, "Go Basics")

	enrollment, err := Enroll(db, owner, course.ID)
	require.NoError(t, err)

	// Another student cannot see, let alone cancel, the enrollment
	err = Cancel(db, other, enrollment.ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	// An admin can cancel anyone's
	require.NoError(t, Cancel(db, admin, enrollment.ID))

	var count int64
	db.Model(&models.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteCourseBlockedByEnrollments(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	err = DeleteCourse(db, course.ID, false)
	assert.ErrorIs(t, err, ErrCourseHasEnrollments)

	// The course and its enrollment are untouched
	var courseCount, enrollmentCount int64
	db.Model(&models.Course{}).Count(&courseCount)
	db.Model(&models.Enrollment{}).Count(&enrollmentCount)
	assert.Equal(t, int64(1), courseCount)
	assert.Equal(t, int64(1), enrollmentCount)
}

func TestForceDeleteCourseCascades(t *testing.T) {
	db := setupTestDb(t)
	first := createUser(t, db, "First", "first@test.local", models.RoleStudent)
	second := createUser(t, db, "Second", "second@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, first, course.ID)
	require.NoError(t, err)
	_, err = Enroll(db, second, course.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteCourse(db, course.ID, true))

	// No orphaned rows may survive the cascade
	var courseCount, enrollmentCount int64
	db.Model(&models.Course{}).Count(&courseCount)
	db.Model(&models.Enrollment{}).Count(&enrollmentCount)
	assert.Equal(t, int64(0), courseCount)
	assert.Equal(t, int64(0), enrollmentCount)
}

func TestDeleteEmptyCourse(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db, "Go Basics")

	require.NoError(t, DeleteCourse(db, course.ID, false))

	err := DeleteCourse(db, course.ID, false)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteLastAdminRefused(t *testing.T) {
	db := setupTestDb(t)
	admin := createUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)

	err := DeleteUser(db, admin.ID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteNonLastAdmin(t *testing.T) {
	db := setupTestDb(t)
	first := createUser(t, db, "First Admin", "admin1@test.local", models.RoleAdmin)
	createUser(t, db, "Second Admin", "admin2@test.local", models.RoleAdmin)

	require.NoError(t, DeleteUser(db, first.ID))

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteStudentCascadesEnrollments(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	_, err := Enroll(db, student, course.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(db, student.ID))

	var userCount, enrollmentCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Enrollment{}).Count(&enrollmentCount)
	assert.Equal(t, int64(0), userCount)
	assert.Equal(t, int64(0), enrollmentCount)
}

func TestEnrollCompleteLifecycle(t *testing.T) {
	db := setupTestDb(t)
	student := createUser(t, db, "Student", "student@test.local", models.RoleStudent)
	course := createCourse(t, db, "Go Basics")

	enrollment, err := Enroll(db, student, course.ID)
	require.NoError(t, err)
	assert.Nil(t, enrollment.CompletedAt)

	completed, err := Complete(db, student, course.ID)
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	// The course's enrollment count reflects exactly one enrollment
	var count int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
