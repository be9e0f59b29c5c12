package model

import "time"

// AuditLog records a user action. Entries are never updated.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ActorID     *uint     `json:"actor_id" gorm:"index"`
	Action      string    `json:"action" gorm:"type:varchar(50);not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"timestamp" gorm:"index"`
}

// All returns every model for migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&ProductReview{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Address{},
		&AuditLog{},
	}
}
