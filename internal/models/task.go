package models

import "time"

// Task belongs to exactly one user. Ownership is fixed at creation; UserID is
// never reassigned.
type Task struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Done        bool   `gorm:"default:false" json:"done"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
