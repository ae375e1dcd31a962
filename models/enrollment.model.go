package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment joins a user to a course. The composite unique index is the
// authoritative guard against duplicate enrollment under concurrent requests.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	User        User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Course      Course     `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// Completed reports whether the enrollment has been completed
func (e *Enrollment) Completed() bool {
	return e.CompletedAt != nil
}
