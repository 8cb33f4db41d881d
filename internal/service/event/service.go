package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

// Event types published through the outbox.
const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentUpdated   = "appointment.updated"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeAppointmentDeleted   = "appointment.deleted"
)

// Service records domain events in the transactional outbox. The worker picks
// them up and publishes to the broker; writing the row is the only thing that
// happens on the request path.
type Service struct {
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
}

func NewService(outboxRepo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{outboxRepo: outboxRepo, logger: logger}
}

// AppointmentPayload is the wire form of appointment lifecycle events.
type AppointmentPayload struct {
	AppointmentID   string `json:"appointment_id"`
	UserID          string `json:"user_id"`
	PatientName     string `json:"patient_name"`
	StartAt         string `json:"start_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	PublicBooking   bool   `json:"public_booking"`
}

// EmitAppointment records one lifecycle event for the given appointment.
// Failures are logged and swallowed: an event that never fires must not undo
// a booking that already committed.
func (s *Service) EmitAppointment(ctx context.Context, eventType string, appt *model.Appointment) {
	payload, err := json.Marshal(AppointmentPayload{
		AppointmentID:   appt.ID.String(),
		UserID:          appt.UserID.String(),
		PatientName:     appt.PatientName,
		StartAt:         appt.StartAt.Format(time.RFC3339),
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		PublicBooking:   appt.PublicBooking,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(fmt.Errorf("failed to record outbox event: %w", err), "outbox write failed",
			"event_type", eventType,
			"appointment_id", appt.ID.String())
	}
}
