// Package scheduling decides whether an appointment may be booked at a given
// time. It is pure computation over data supplied by the caller: the
// practitioner's working-hours configuration and the existing appointments on
// the candidate's calendar day. Both the authenticated agenda and the public
// booking link run the exact same checks through ValidateBooking.
package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
)

type Reason string

const (
	ReasonNone                Reason = ""
	ReasonOutsideWorkingHours Reason = "outside_working_hours"
	ReasonSchedulingConflict  Reason = "scheduling_conflict"
)

// Result is a booking verdict. It is always a decision, never an error: I/O
// problems while gathering inputs belong to the caller, which must block the
// booking rather than validate against partial data.
type Result struct {
	OK       bool
	Reason   Reason
	Conflict *model.Appointment // set when Reason == ReasonSchedulingConflict
	Window   model.DayHours     // the candidate weekday's configured window
}

// WithinWorkingHours reports whether the candidate's start instant falls
// inside the configured window for its weekday. The window is half-open:
// starting exactly at opening time is valid, starting exactly at closing time
// is not. Only the start instant is checked; a booking whose duration runs
// past closing is still accepted. Weekday and time-of-day are taken from the
// instant's own wall clock, with no time zone conversion.
func WithinWorkingHours(hours *model.WorkingHours, startAt time.Time) bool {
	day := hours.DayFor(startAt)
	if !day.Enabled {
		return false
	}
	minute := startAt.Hour()*60 + startAt.Minute()
	return day.StartMinute <= minute && minute < day.EndMinute
}

// FindConflict scans the supplied appointments for one whose interval overlaps
// the candidate interval [start, start+duration). Intervals are half-open, so
// back-to-back appointments do not conflict. Cancelled appointments never
// conflict, and excludeID lets an update ignore its own prior record. The
// first overlapping appointment in the supplied order is returned, or nil.
func FindConflict(existing []*model.Appointment, start time.Time, durationMinutes int, excludeID *uuid.UUID) *model.Appointment {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for _, a := range existing {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.Status == model.AppointmentStatusCancelled {
			continue
		}
		if start.Before(a.EndAt()) && end.After(a.StartAt) {
			return a
		}
	}
	return nil
}

// ValidateBooking runs both checks in order: working hours first, then
// conflicts. existing must be the practitioner's appointments for the
// candidate's calendar day (any status; cancelled ones are filtered here).
func ValidateBooking(hours *model.WorkingHours, existing []*model.Appointment, start time.Time, durationMinutes int, excludeID *uuid.UUID) Result {
	window := hours.DayFor(start)
	if !WithinWorkingHours(hours, start) {
		return Result{Reason: ReasonOutsideWorkingHours, Window: window}
	}
	if conflict := FindConflict(existing, start, durationMinutes, excludeID); conflict != nil {
		return Result{Reason: ReasonSchedulingConflict, Conflict: conflict, Window: window}
	}
	return Result{OK: true, Window: window}
}
