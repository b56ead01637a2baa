package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash, never the plaintext. Email is stored
// lowercased; uniqueness is enforced by the database.
type User struct {
	ID              string
	Email           string
	Password        string
	FirstName       string
	CountryCode     string // ISO 3166-1 alpha-2
	IsEmailVerified bool
	LastActive      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// writes go through this so case-variant duplicates collapse to one row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
