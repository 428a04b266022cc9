// institution-portal/models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold after onboarding. Owner is set implicitly when the
// user creates a workspace; the others are chosen on the role-selection step.
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
	RoleUnassigned = "unassigned"
)

// User is an account holder. Password stores the bcrypt hash, never the
// plain text. OTPCode/OTPCreatedAt drive both signup verification and
// password reset; the code is single-use and time-limited.
type User struct {
	gorm.Model
	Name          string     `json:"name" gorm:"not null"`
	Email         string     `json:"email" gorm:"unique;index;not null"`
	Password      string     `json:"-" gorm:"not null"`
	Role          string     `json:"role" gorm:"default:unassigned"`
	IsVerified    bool       `json:"isVerified" gorm:"default:false"`
	OTPCode       string     `json:"-"`
	OTPCreatedAt  *time.Time `json:"-"`
	InstitutionID *uint      `json:"institutionId" gorm:"index"`
}

func (User) TableName() string { return "users" }
