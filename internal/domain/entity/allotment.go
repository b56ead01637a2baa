package entity

import "time"

// Allotment is a user's plot record. One per user.
type Allotment struct {
	ID            string
	UserID        string
	PostalZipCode string
	WidthMeters   float64
	LengthMeters  float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
