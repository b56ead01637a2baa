package entity

import "time"

// Weekday names accepted in preferences, Monday first to match the
// task-list rendering order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Preferences holds per-user scheduling preferences for derived tasks.
type Preferences struct {
	UserID    string
	FeedDay   string // one of Weekdays
	WaterDay  string // one of Weekdays; anchor for low-frequency watering
	UpdatedAt time.Time
}

// DefaultPreferences are created alongside registration.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{UserID: userID, FeedDay: "sunday", WaterDay: "sunday"}
}

// ValidWeekday reports whether day names one of the seven weekdays.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
