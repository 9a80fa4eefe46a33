package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"` // bcrypt hash
	ProfileImage string     `gorm:"size:200" json:"profile_image"`
	Bio          string     `gorm:"size:2000" json:"bio"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	ResetCode    string     `gorm:"size:64" json:"-"` // password reset code, empty when none pending
	ResetExpires *time.Time `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	// Deactivation is soft: IsActive flips to false, the row stays.
}
