package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned
	// by the requesting practitioner.
	ErrNotFound = errors.New("record not found")

	// ErrOverlap is returned when the store's exclusion constraint rejects
	// an appointment write: a concurrent booking won the slot between our
	// validation snapshot and the write.
	ErrOverlap = errors.New("appointment overlaps an existing appointment")

	// ErrDuplicate is returned on unique-constraint violations (e.g. a
	// taken public slug or registration email).
	ErrDuplicate = errors.New("record already exists")
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, userID, id uuid.UUID) error
		List(ctx context.Context, userID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// ListForDay returns all appointments, any status, whose start_at
		// falls within [dayStart, dayEnd), ordered by start_at.
		ListForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error)
	}

	WorkingHoursRepository interface {
		// Get returns ErrNotFound when the practitioner never saved a
		// configuration; callers substitute the defaults.
		Get(ctx context.Context, userID uuid.UUID) (*model.WorkingHours, error)
		Upsert(ctx context.Context, hours *model.WorkingHours) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, userID, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, userID, id uuid.UUID) error
		List(ctx context.Context, userID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
		GetBySlug(ctx context.Context, slug string) (*model.Profile, error)
		Update(ctx context.Context, profile *model.Profile) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
