package enrollment

import (
	"errors"
	"time"

	"learnhub/models"

	"gorm.io/gorm"
)

// Enrollment lifecycle errors. Controllers map these to HTTP status codes.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrNotEnrolled          = errors.New("not enrolled in this course")
	ErrAlreadyCompleted     = errors.New("course already completed")
	ErrCourseHasEnrollments = errors.New("course has active enrollments")
	ErrLastAdmin            = errors.New("cannot delete the last admin")
)

// Enroll enrolls the acting user in a course. The duplicate pre-check only
// gives a friendly conflict on the common path; the composite unique index on
// (user_id, course_id) is the authoritative guard under concurrent requests.
func Enroll(db *gorm.DB, actor models.User, courseID uint) (*models.Enrollment, error) {
	return create(db, actor.ID, courseID)
}

// EnrollUser enrolls an arbitrary user in a course (administrative path)
func EnrollUser(db *gorm.DB, userID, courseID uint) (*models.Enrollment, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return create(db, userID, courseID)
}

func create(db *gorm.DB, userID, courseID uint) (*models.Enrollment, error) {
	// Check if course exists
	var course models.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	// Check if user is already enrolled
	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}

	if err := db.Create(&enrollment).Error; err != nil {
		// A concurrent enroll for the same pair loses the race at the unique
		// index and surfaces here as a duplicate key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	enrollment.Course = course
	return &enrollment, nil
}

// Complete marks the acting user's enrollment in a course as completed.
// The transition is one-way: a second call fails rather than no-ops.
func Complete(db *gorm.DB, actor models.User, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", actor.ID, courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	if enrollment.Completed() {
		return nil, ErrAlreadyCompleted
	}

	// Guard the transition in the update predicate so two racing completes
	// cannot both flip the timestamp.
	now := time.Now()
	result := db.Model(&models.Enrollment{}).
		Where("id = ? AND completed_at IS NULL", enrollment.ID).
		Update("completed_at", &now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyCompleted
	}

	enrollment.CompletedAt = &now
	return &enrollment, nil
}

// Cancel deletes an enrollment. Students may only cancel their own; admins may
// cancel any. The record is removed entirely, completion history included.
func Cancel(db *gorm.DB, actor models.User, enrollmentID uint) error {
	query := db
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}

	var enrollment models.Enrollment
	if err := query.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	// Hard delete so a later re-enrollment does not collide with the unique index
	return db.Unscoped().Delete(&enrollment).Error
}

// DeleteCourse deletes a course. Without force the operation is blocked while
// enrollments exist; with force all dependent enrollments are removed first.
func DeleteCourse(db *gorm.DB, courseID uint, force bool) error {
	var course models.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	var enrollmentCount int64
	if err := db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&enrollmentCount).Error; err != nil {
		return err
	}

	if enrollmentCount > 0 && !force {
		return ErrCourseHasEnrollments
	}

	// Delete with transaction so no orphaned enrollments survive
	tx := db.Begin()
	if force {
		if err := tx.Unscoped().Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Unscoped().Delete(&course).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// DeleteUser deletes a user and cascades their enrollments. Deleting the last
// remaining admin is refused.
func DeleteUser(db *gorm.DB, userID uint) error {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Don't allow deleting the last admin
	if user.IsAdmin() {
		var adminCount int64
		if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}

	tx := db.Begin()
	if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Delete(&user).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
