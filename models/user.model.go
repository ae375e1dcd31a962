package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

type User struct {
	gorm.Model
	Name        string       `json:"name" gorm:"default:''"`
	Email       string       `json:"email" gorm:"unique;not null"`
	Password    string       `json:"-" gorm:"not null"`
	Role        string       `json:"role" gorm:"default:'STUDENT'"` // STUDENT, ADMIN
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
