package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DayHours is the booking window for one weekday. Start and end are minutes
// since midnight, half-open: a slot starting exactly at EndMinute is outside
// the window. An enabled day with StartMinute >= EndMinute simply has no valid
// window; it is stored as given, not rejected.
type DayHours struct {
	Weekday     time.Weekday `db:"weekday" json:"weekday"`
	Enabled     bool         `db:"enabled" json:"enabled"`
	StartMinute int          `db:"start_minute" json:"start_minute"`
	EndMinute   int          `db:"end_minute" json:"end_minute"`
}

// WorkingHours holds one entry per weekday, indexed by time.Weekday
// (0=Sunday..6=Saturday).
type WorkingHours struct {
	UserID uuid.UUID   `json:"user_id"`
	Days   [7]DayHours `json:"days"`
}

// DayFor returns the entry for the weekday of the given instant, using the
// instant's own wall clock.
func (w *WorkingHours) DayFor(t time.Time) DayHours {
	return w.Days[int(t.Weekday())]
}

// DefaultWorkingHours is what a practitioner gets before saving anything:
// Mon-Fri 08:00-18:00, Sat 08:00-12:00, Sun closed.
func DefaultWorkingHours(userID uuid.UUID) *WorkingHours {
	w := &WorkingHours{UserID: userID}
	for d := time.Sunday; d <= time.Saturday; d++ {
		entry := DayHours{Weekday: d, Enabled: true, StartMinute: 8 * 60, EndMinute: 18 * 60}
		switch d {
		case time.Sunday:
			entry.Enabled = false
			entry.StartMinute = 0
			entry.EndMinute = 0
		case time.Saturday:
			entry.EndMinute = 12 * 60
		}
		w.Days[int(d)] = entry
	}
	return w
}

type UpdateWorkingHoursRequest struct {
	Days []DayHoursRequest `json:"days" binding:"required,len=7,dive"`
}

type DayHoursRequest struct {
	Weekday     int    `json:"weekday" binding:"min=0,max=6"`
	Enabled     bool   `json:"enabled"`
	Start       string `json:"start" binding:"omitempty,clocktime"`
	End         string `json:"end" binding:"omitempty,clocktime"`
	StartMinute *int   `json:"start_minute" binding:"omitempty,min=0,max=1440"`
	EndMinute   *int   `json:"end_minute" binding:"omitempty,min=0,max=1440"`
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
