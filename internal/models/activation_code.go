package models

import "time"

// ActivationCode stores the single outstanding one-time code for a pending
// account. The unique index on UserID guarantees at most one code per user;
// reissuing replaces the previous code. Codes carry no expiry and are deleted
// when activation succeeds.
type ActivationCode struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	Code   int  `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
