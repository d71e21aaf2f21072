package models

import "time"

// User is an account holder. Accounts are created disabled and become active
// once the registration code is confirmed.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:false" json:"is_active"`

	Tasks          []Task          `gorm:"foreignKey:UserID" json:"-"`
	ActivationCode *ActivationCode `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
