package models

import (
	"time"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// User represents the canonical identity entity. IDs are 24-hex object ids
// issued by pkg/oid.
type User struct {
	ID           string         `gorm:"type:char(24);primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'user'"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
