package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	"github.com/agendaflow/agenda-api/internal/scheduling"
	"github.com/agendaflow/agenda-api/internal/service/event"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
	"github.com/agendaflow/agenda-api/pkg/metrics"
)

// Flow labels for booking metrics.
const (
	FlowAgenda = "agenda"
	FlowPublic = "public"
)

// DefaultSlotStep is the interval between suggested availability slots.
const DefaultSlotStep = 30 * time.Minute

// Service owns the appointment lifecycle for the authenticated agenda and
// performs the booking validation shared with the public flow. Every write
// goes through Schedule or validate so the two entry points can never drift.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	hoursRepo       repository.WorkingHoursRepository
	events          *event.Service
	metrics         *metrics.Metrics
	logger          *logger.Logger
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	hoursRepo repository.WorkingHoursRepository,
	events *event.Service,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		hoursRepo:       hoursRepo,
		events:          events,
		metrics:         m,
		logger:          logger,
	}
}

// Create books an appointment on the authenticated practitioner's agenda.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = model.DefaultAppointmentDuration
	}

	appt := &model.Appointment{
		UserID:          userID,
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		PatientEmail:    req.PatientEmail,
		StartAt:         req.StartAt,
		DurationMinutes: duration,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}

	if err := s.Schedule(ctx, appt, FlowAgenda); err != nil {
		return nil, err
	}

	s.events.EmitAppointment(ctx, event.TypeAppointmentCreated, appt)
	return appt, nil
}

// Schedule validates and persists a new appointment. Both the agenda and the
// public booking flow come through here; flow only labels metrics.
func (s *Service) Schedule(ctx context.Context, appt *model.Appointment, flow string) error {
	if err := s.validate(ctx, appt.UserID, appt.StartAt, appt.DurationMinutes, nil, flow); err != nil {
		return err
	}

	if err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return s.mapWriteError(err, appt.StartAt, flow)
	}

	s.metrics.BookingsAccepted.WithLabelValues(flow).Inc()
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID.String(),
		"user_id", appt.UserID.String(),
		"start_at", appt.StartAt,
		"flow", flow)
	return nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointmentRepo.Get(ctx, userID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// Update edits an appointment. Whenever the result occupies calendar time
// (status scheduled or confirmed) the booking rules run again with the
// appointment's own record excluded from conflict checks, so re-submitting an
// unchanged slot passes while moving onto another booking does not.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.appointmentRepo.Get(ctx, userID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.PatientName != nil {
		appt.PatientName = *req.PatientName
	}
	if req.PatientPhone != nil {
		appt.PatientPhone = req.PatientPhone
	}
	if req.PatientEmail != nil {
		appt.PatientEmail = req.PatientEmail
	}
	if req.StartAt != nil {
		appt.StartAt = *req.StartAt
	}
	if req.DurationMinutes != nil {
		appt.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	if appt.Status == model.AppointmentStatusScheduled || appt.Status == model.AppointmentStatusConfirmed {
		if err := s.validate(ctx, userID, appt.StartAt, appt.DurationMinutes, &appt.ID, FlowAgenda); err != nil {
			return nil, err
		}
	}

	if err := s.appointmentRepo.Update(ctx, appt); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, s.mapWriteError(err, appt.StartAt, FlowAgenda)
	}

	eventType := event.TypeAppointmentUpdated
	if req.Status != nil && *req.Status == model.AppointmentStatusCancelled {
		eventType = event.TypeAppointmentCancelled
	}
	s.events.EmitAppointment(ctx, eventType, appt)
	return appt, nil
}

// Cancel marks an appointment cancelled, freeing its slot. The record stays.
func (s *Service) Cancel(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	status := model.AppointmentStatusCancelled
	return s.Update(ctx, userID, id, &model.UpdateAppointmentRequest{Status: &status})
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	appt, err := s.appointmentRepo.Get(ctx, userID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("appointment", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.appointmentRepo.Delete(ctx, userID, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("appointment", err)
		}
		return apperrors.Internal(err)
	}

	s.events.EmitAppointment(ctx, event.TypeAppointmentDeleted, appt)
	return nil
}

// GetAvailability lists open slots of the given duration on one calendar day.
func (s *Service) GetAvailability(ctx context.Context, userID uuid.UUID, day time.Time, durationMinutes int) ([]model.TimeSlot, error) {
	if durationMinutes <= 0 {
		durationMinutes = model.DefaultAppointmentDuration
	}

	hours, err := s.workingHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.dayAppointments(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	return scheduling.AvailableSlots(hours, existing, day, duration, DefaultSlotStep, time.Now().In(day.Location())), nil
}

// validate runs the booking rules against a fresh snapshot of the candidate
// day. Any failure to gather inputs blocks the booking: validating against
// partial data could double-book.
func (s *Service) validate(ctx context.Context, userID uuid.UUID, start time.Time, durationMinutes int, excludeID *uuid.UUID, flow string) error {
	hours, err := s.workingHours(ctx, userID)
	if err != nil {
		return err
	}

	existing, err := s.dayAppointments(ctx, userID, start)
	if err != nil {
		return err
	}

	result := scheduling.ValidateBooking(hours, existing, start, durationMinutes, excludeID)
	if result.OK {
		return nil
	}

	s.metrics.BookingsRejected.WithLabelValues(flow, string(result.Reason)).Inc()

	switch result.Reason {
	case scheduling.ReasonOutsideWorkingHours:
		return apperrors.Unprocessable(s.windowMessage(result.Window), nil)
	case scheduling.ReasonSchedulingConflict:
		return apperrors.Conflict(
			fmt.Sprintf("time slot conflicts with an existing appointment at %s", result.Conflict.StartAt.Format("15:04")),
			nil,
		)
	default:
		return apperrors.Internal(fmt.Errorf("unknown validation reason %q", result.Reason))
	}
}

func (s *Service) windowMessage(window model.DayHours) string {
	if !window.Enabled {
		return fmt.Sprintf("the practice is closed on %ss", window.Weekday)
	}
	return fmt.Sprintf("requested time is outside working hours (%s to %s)",
		model.FormatClock(window.StartMinute), model.FormatClock(window.EndMinute))
}

// workingHours fetches the practitioner's configuration, substituting the
// defaults only when none was ever saved. A storage failure is not "no
// configuration" and fails the booking.
func (s *Service) workingHours(ctx context.Context, userID uuid.UUID) (*model.WorkingHours, error) {
	hours, err := s.hoursRepo.Get(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return model.DefaultWorkingHours(userID), nil
		}
		return nil, apperrors.Unavailable("could not load working hours", err)
	}
	return hours, nil
}

// dayAppointments snapshots the candidate's calendar day, bounded in the
// candidate's own location.
func (s *Service) dayAppointments(ctx context.Context, userID uuid.UUID, at time.Time) ([]*model.Appointment, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	existing, err := s.appointmentRepo.ListForDay(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Unavailable("could not load existing appointments", err)
	}
	return existing, nil
}

// mapWriteError turns storage-level rejections into booking errors. ErrOverlap
// means a concurrent booking won the race after our snapshot passed; it gets
// the same conflict response as a validation failure.
func (s *Service) mapWriteError(err error, start time.Time, flow string) error {
	if err == repository.ErrOverlap {
		s.metrics.BookingsRejected.WithLabelValues(flow, string(scheduling.ReasonSchedulingConflict)).Inc()
		s.logger.Warn("booking lost slot race", "start_at", start, "flow", flow)
		return apperrors.Conflict("time slot was just booked by someone else", err)
	}
	return apperrors.Internal(err)
}
