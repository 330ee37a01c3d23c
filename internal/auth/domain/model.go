// Package domain contains core types for administrator authentication.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const RoleAdmin = "admin"

// Administrator is the single privileged account. It is seeded out of band
// and never created through the public API.
type Administrator struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_administrators_email"`
	PasswordHash string       `gorm:"type:text;not null"`
	Role         string       `gorm:"type:text;not null;default:admin"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Administrator) TableName() string { return "administrators" }

// Identity is the verified caller attached to authorized requests.
type Identity struct {
	ID   snowflake.ID
	Role string
}

// Profile is the public shape of an administrator; the hash never leaves
// the auth package.
type Profile struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
