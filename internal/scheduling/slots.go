package scheduling

import (
	"time"

	"github.com/agendaflow/agenda-api/internal/model"
)

// AvailableSlots enumerates bookable slots of the given duration on one
// calendar day, stepping through the weekday's working window. Unlike
// ValidateBooking, which only checks the start instant, suggested slots must
// fit entirely before closing so the endpoint never offers a slot the
// practitioner would consider truncated. Slots starting before now are
// skipped.
func AvailableSlots(hours *model.WorkingHours, existing []*model.Appointment, day time.Time, duration, step time.Duration, now time.Time) []model.TimeSlot {
	if duration <= 0 || step <= 0 {
		return nil
	}

	window := hours.DayFor(day)
	if !window.Enabled || window.StartMinute >= window.EndMinute {
		return nil
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	open := midnight.Add(time.Duration(window.StartMinute) * time.Minute)
	closing := midnight.Add(time.Duration(window.EndMinute) * time.Minute)

	var slots []model.TimeSlot
	for t := open; !t.Add(duration).After(closing); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		if FindConflict(existing, t, int(duration/time.Minute), nil) != nil {
			continue
		}
		slots = append(slots, model.TimeSlot{Start: t, End: t.Add(duration)})
	}
	return slots
}
