package model

import "time"

// Address is a delivery address owned by a user
type Address struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	AddressLine string    `json:"address_line" gorm:"type:varchar(255);not null"`
	Barangay    string    `json:"barangay" gorm:"type:varchar(120);not null"`
	City        string    `json:"city" gorm:"type:varchar(120);not null"`
	Province    string    `json:"province" gorm:"type:varchar(120);not null"`
	Phone       string    `json:"phone" gorm:"type:varchar(30);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
