package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is a vendor's listing
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(200);not null"`
	Price       float64        `json:"price" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:1"`
	Description string         `json:"description" gorm:"type:varchar(400)"`
	ImagePath   string         `json:"image_path" gorm:"type:varchar(300)"`
	VendorID    uint           `json:"vendor_id" gorm:"index;not null"`
	Vendor      *User          `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProductReview is a user's rating of a product. Users may review a product
// more than once.
type ProductReview struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFilter narrows a marketplace listing
type ProductFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	VendorID uint
}
