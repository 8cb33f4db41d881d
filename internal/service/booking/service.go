package booking

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	"github.com/agendaflow/agenda-api/internal/service/appointment"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

const (
	slugCacheTTL     = 1 * time.Minute
	slugCacheCleanup = 5 * time.Minute
)

// EmailSender delivers booking confirmations. Satisfied by email.Service.
type EmailSender interface {
	SendBookingConfirmation(appt *model.Appointment, profile *model.Profile) error
}

// Service is the unauthenticated self-booking flow behind a practitioner's
// public link. It resolves the slug, gates on the profile's public switch and
// delegates the actual booking to the appointment service, so visitors face
// exactly the same rules as the practitioner's own agenda.
type Service struct {
	profileRepo  repository.ProfileRepository
	appointments *appointment.Service
	email        EmailSender
	slugCache    *gocache.Cache
	logger       *logger.Logger
}

func NewService(
	profileRepo repository.ProfileRepository,
	appointments *appointment.Service,
	email EmailSender,
	logger *logger.Logger,
) *Service {
	return &Service{
		profileRepo:  profileRepo,
		appointments: appointments,
		email:        email,
		slugCache:    gocache.New(slugCacheTTL, slugCacheCleanup),
		logger:       logger,
	}
}

// ResolveProfile looks up a public page by slug. Unknown slugs and pages whose
// owner disabled public booking are indistinguishable to the visitor.
func (s *Service) ResolveProfile(ctx context.Context, slug string) (*model.Profile, error) {
	if cached, found := s.slugCache.Get(slug); found {
		profile := cached.(*model.Profile)
		if !profile.PublicEnabled {
			return nil, apperrors.NotFound("page", nil)
		}
		return profile, nil
	}

	profile, err := s.profileRepo.GetBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("page", err)
		}
		return nil, apperrors.Unavailable("could not load page", err)
	}

	s.slugCache.Set(slug, profile, gocache.DefaultExpiration)

	if !profile.PublicEnabled {
		return nil, apperrors.NotFound("page", nil)
	}
	return profile, nil
}

// Book creates an appointment for an unauthenticated visitor. The status is
// always scheduled and the record is flagged as a public booking; visitors
// cannot choose either.
func (s *Service) Book(ctx context.Context, slug string, req *model.PublicBookingRequest) (*model.Appointment, error) {
	profile, err := s.ResolveProfile(ctx, slug)
	if err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = model.DefaultAppointmentDuration
	}

	appt := &model.Appointment{
		UserID:          profile.UserID,
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		PatientEmail:    req.PatientEmail,
		StartAt:         req.StartAt,
		DurationMinutes: duration,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
		PublicBooking:   true,
	}

	if err := s.appointments.Schedule(ctx, appt, appointment.FlowPublic); err != nil {
		return nil, err
	}

	// Confirmation mail must not hold up or fail the booking.
	go func(appt model.Appointment, profile model.Profile) {
		if err := s.email.SendBookingConfirmation(&appt, &profile); err != nil {
			s.logger.Error(err, "booking confirmation delivery failed", "appointment_id", appt.ID.String())
		}
	}(*appt, *profile)

	return appt, nil
}

// Availability lists open slots on the public page for one calendar day.
func (s *Service) Availability(ctx context.Context, slug string, day time.Time, durationMinutes int) ([]model.TimeSlot, error) {
	profile, err := s.ResolveProfile(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetAvailability(ctx, profile.UserID, day, durationMinutes)
}
