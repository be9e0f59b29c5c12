package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a marketplace user's role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleConsumer Role = "consumer"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleConsumer:
		return true
	}
	return false
}

// User represents an account of any role
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"type:varchar(120);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	FullName  string         `json:"fullname" gorm:"column:fullname;type:varchar(200)"`
	Role      Role           `json:"role" gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// DisplayName is the name shown to other users and snapshotted into orders:
// the full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
