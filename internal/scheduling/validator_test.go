package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaflow/agenda-api/internal/model"
)

// Monday 2025-06-02 in a fixed zone; weekday math must use wall clock only.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.FixedZone("BRT", -3*3600))

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func appt(start time.Time, duration int, status model.AppointmentStatus) *model.Appointment {
	a := &model.Appointment{
		StartAt:         start,
		DurationMinutes: duration,
		Status:          status,
	}
	a.ID = uuid.New()
	return a
}

func defaultHours() *model.WorkingHours {
	return model.DefaultWorkingHours(uuid.New())
}

func TestWithinWorkingHoursBoundaries(t *testing.T) {
	hours := defaultHours()

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"opening instant is valid", at(monday, 8, 0), true},
		{"one minute before opening", at(monday, 7, 59), false},
		{"closing instant is invalid", at(monday, 18, 0), false},
		{"last minute before closing", at(monday, 17, 59), true},
		{"midday", at(monday, 12, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinWorkingHours(hours, tt.t))
		})
	}
}

func TestWithinWorkingHoursDisabledDay(t *testing.T) {
	hours := defaultHours()
	sunday := monday.AddDate(0, 0, -1)

	for _, clock := range [][2]int{{0, 0}, {9, 0}, {12, 0}, {23, 59}} {
		assert.False(t, WithinWorkingHours(hours, at(sunday, clock[0], clock[1])),
			"disabled day must reject any time of day")
	}
}

func TestWithinWorkingHoursSaturdayWindow(t *testing.T) {
	hours := defaultHours()
	saturday := monday.AddDate(0, 0, 5)

	assert.True(t, WithinWorkingHours(hours, at(saturday, 8, 0)))
	assert.True(t, WithinWorkingHours(hours, at(saturday, 11, 59)))
	assert.False(t, WithinWorkingHours(hours, at(saturday, 12, 0)))
}

func TestWithinWorkingHoursInvertedWindow(t *testing.T) {
	hours := defaultHours()
	// start >= end is stored as-is and means no valid instant that day
	hours.Days[int(time.Monday)].StartMinute = 18 * 60
	hours.Days[int(time.Monday)].EndMinute = 8 * 60

	assert.False(t, WithinWorkingHours(hours, at(monday, 12, 0)))
	assert.False(t, WithinWorkingHours(hours, at(monday, 18, 0)))
}

func TestWithinWorkingHoursIgnoresDurationPastClosing(t *testing.T) {
	hours := defaultHours()
	// only the start instant is checked: a 90-minute booking at 17:30 runs
	// past the 18:00 close but is still accepted
	start := at(monday, 17, 30)
	assert.True(t, WithinWorkingHours(hours, start))

	res := ValidateBooking(hours, nil, start, 90, nil)
	assert.True(t, res.OK)
}

func TestFindConflictHalfOpenOverlap(t *testing.T) {
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled),
	}

	tests := []struct {
		name     string
		start    time.Time
		duration int
		conflict bool
	}{
		{"inside existing", at(monday, 10, 30), 30, true},
		{"straddles start", at(monday, 9, 30), 60, true},
		{"straddles end", at(monday, 10, 45), 60, true},
		{"covers entirely", at(monday, 9, 0), 180, true},
		{"identical interval", at(monday, 10, 0), 60, true},
		{"back-to-back after", at(monday, 11, 0), 30, false},
		{"back-to-back before", at(monday, 9, 0), 60, false},
		{"disjoint", at(monday, 14, 0), 60, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(existing, tt.start, tt.duration, nil)
			if tt.conflict {
				require.NotNil(t, got)
				assert.Equal(t, existing[0].ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestFindConflictSkipsCancelled(t *testing.T) {
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusCancelled),
	}

	assert.Nil(t, FindConflict(existing, at(monday, 10, 0), 60, nil),
		"cancelled appointments never conflict, even on the identical interval")
}

func TestFindConflictDoesNotSkipCompleted(t *testing.T) {
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusCompleted),
	}

	assert.NotNil(t, FindConflict(existing, at(monday, 10, 30), 30, nil))
}

func TestFindConflictSelfExclusion(t *testing.T) {
	a := appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled)
	existing := []*model.Appointment{a}

	// re-submitting the same record unchanged must not conflict with itself
	assert.Nil(t, FindConflict(existing, a.StartAt, a.DurationMinutes, &a.ID))

	// but a different record on the same interval still does
	other := uuid.New()
	assert.NotNil(t, FindConflict(existing, a.StartAt, a.DurationMinutes, &other))
}

func TestFindConflictSymmetry(t *testing.T) {
	a := appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled)
	b := appt(at(monday, 10, 30), 60, model.AppointmentStatusScheduled)

	forward := FindConflict([]*model.Appointment{a, b}, at(monday, 10, 45), 30, nil)
	backward := FindConflict([]*model.Appointment{b, a}, at(monday, 10, 45), 30, nil)

	assert.NotNil(t, forward)
	assert.NotNil(t, backward)
}

func TestFindConflictReturnsFirstInSuppliedOrder(t *testing.T) {
	a := appt(at(monday, 9, 0), 120, model.AppointmentStatusScheduled)
	b := appt(at(monday, 10, 0), 120, model.AppointmentStatusConfirmed)

	got := FindConflict([]*model.Appointment{a, b}, at(monday, 10, 0), 60, nil)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
}

func TestValidateBookingRejectsOverlap(t *testing.T) {
	hours := defaultHours()
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled),
	}

	res := ValidateBooking(hours, existing, at(monday, 10, 30), 30, nil)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonSchedulingConflict, res.Reason)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, at(monday, 10, 0), res.Conflict.StartAt)
}

func TestValidateBookingAcceptsBackToBack(t *testing.T) {
	hours := defaultHours()
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled),
	}

	res := ValidateBooking(hours, existing, at(monday, 11, 0), 30, nil)
	assert.True(t, res.OK)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Nil(t, res.Conflict)
}

func TestValidateBookingRejectsDisabledDay(t *testing.T) {
	hours := defaultHours()
	sunday := monday.AddDate(0, 0, -1)

	res := ValidateBooking(hours, nil, at(sunday, 9, 0), 30, nil)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonOutsideWorkingHours, res.Reason)
	assert.False(t, res.Window.Enabled)
}

func TestValidateBookingAcceptsOverCancelled(t *testing.T) {
	hours := defaultHours()
	existing := []*model.Appointment{
		appt(at(monday, 10, 0), 60, model.AppointmentStatusCancelled),
	}

	res := ValidateBooking(hours, existing, at(monday, 10, 0), 60, nil)
	assert.True(t, res.OK)
}

func TestValidateBookingSelfUpdate(t *testing.T) {
	hours := defaultHours()
	a := appt(at(monday, 10, 0), 60, model.AppointmentStatusScheduled)

	res := ValidateBooking(hours, []*model.Appointment{a}, a.StartAt, a.DurationMinutes, &a.ID)
	assert.True(t, res.OK)
}

func TestValidateBookingChecksHoursBeforeConflicts(t *testing.T) {
	hours := defaultHours()
	sunday := monday.AddDate(0, 0, -1)
	existing := []*model.Appointment{
		appt(at(sunday, 9, 0), 60, model.AppointmentStatusScheduled),
	}

	// both checks would fail; working hours wins
	res := ValidateBooking(hours, existing, at(sunday, 9, 0), 60, nil)
	assert.Equal(t, ReasonOutsideWorkingHours, res.Reason)
	assert.Nil(t, res.Conflict)
}

func TestValidateBookingWindowReported(t *testing.T) {
	hours := defaultHours()

	res := ValidateBooking(hours, nil, at(monday, 6, 0), 30, nil)
	assert.Equal(t, ReasonOutsideWorkingHours, res.Reason)
	assert.Equal(t, 8*60, res.Window.StartMinute)
	assert.Equal(t, 18*60, res.Window.EndMinute)
}
