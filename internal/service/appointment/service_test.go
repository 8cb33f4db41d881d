package appointment

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	"github.com/agendaflow/agenda-api/internal/service/event"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
	"github.com/agendaflow/agenda-api/pkg/metrics"
)

// 2025-06-02 is a Monday.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.FixedZone("BRT", -3*60*60))

func at(h, m int) time.Time {
	return time.Date(monday.Year(), monday.Month(), monday.Day(), h, m, 0, 0, monday.Location())
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
	createErr    error
	listErr      error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appt.ID = uuid.New()
	f.appointments = append(f.appointments, appt)
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id && a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointmentRepo) Update(_ context.Context, appt *model.Appointment) error {
	for i, a := range f.appointments {
		if a.ID == appt.ID && a.UserID == appt.UserID {
			f.appointments[i] = appt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i, a := range f.appointments {
		if a.ID == id && a.UserID == userID {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeAppointmentRepo) List(_ context.Context, userID uuid.UUID, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListForDay(_ context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.UserID == userID && !a.StartAt.Before(dayStart) && a.StartAt.Before(dayEnd) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeHoursRepo struct {
	hours *model.WorkingHours
	err   error
}

func (f *fakeHoursRepo) Get(_ context.Context, userID uuid.UUID) (*model.WorkingHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.hours == nil {
		return nil, repository.ErrNotFound
	}
	return f.hours, nil
}

func (f *fakeHoursRepo) Upsert(_ context.Context, hours *model.WorkingHours) error {
	f.hours = hours
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

var testMetrics = metrics.NewMetrics("agenda", "test")

func newTestService(apptRepo *fakeAppointmentRepo, hoursRepo *fakeHoursRepo, outbox *fakeOutboxRepo) *Service {
	l := logger.NewLogger(nil)
	return NewService(apptRepo, hoursRepo, event.NewService(outbox, l), testMetrics, l)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.StatusCode()
}

func TestCreateWithinWorkingHours(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	outbox := &fakeOutboxRepo{}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, outbox)

	appt, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, model.DefaultAppointmentDuration, appt.DurationMinutes)
	assert.False(t, appt.PublicBooking)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, event.TypeAppointmentCreated, outbox.events[0].EventType)
}

func TestCreateOutsideWorkingHours(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(19, 0),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	assert.Contains(t, err.Error(), "18:00")
}

func TestCreateOnClosedDay(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeHoursRepo{}, &fakeOutboxRepo{})

	sunday := at(10, 0).AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     sunday,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	assert.Contains(t, err.Error(), "closed")
}

func TestCreateConflict(t *testing.T) {
	userID := uuid.New()
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Bruno Lima",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusConfirmed,
	}}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), userID, &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 30),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Contains(t, err.Error(), "10:00")
}

func TestCreateIgnoresCancelled(t *testing.T) {
	userID := uuid.New()
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Bruno Lima",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusCancelled,
	}}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), userID, &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	assert.NoError(t, err)
}

func TestCreateBackToBack(t *testing.T) {
	userID := uuid.New()
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Bruno Lima",
		StartAt:         at(9, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), userID, &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	assert.NoError(t, err)
}

func TestCreateFailsClosedOnHoursError(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeHoursRepo{err: errors.New("connection refused")}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestCreateFailsClosedOnSnapshotError(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{listErr: errors.New("connection refused")}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestCreateLostSlotRace(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{createErr: repository.ErrOverlap}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientName: "Ana Souza",
		StartAt:     at(10, 0),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestUpdateExcludesOwnRecord(t *testing.T) {
	userID := uuid.New()
	existing := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Ana Souza",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{existing}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	// Shift by 30 minutes; the only overlap is with itself.
	newStart := at(10, 30)
	appt, err := svc.Update(context.Background(), userID, existing.ID, &model.UpdateAppointmentRequest{
		StartAt: &newStart,
	})
	require.NoError(t, err)
	assert.Equal(t, newStart, appt.StartAt)
}

func TestUpdateConflictWithOtherAppointment(t *testing.T) {
	userID := uuid.New()
	first := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Ana Souza",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	second := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Bruno Lima",
		StartAt:         at(11, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{first, second}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	newStart := at(11, 30)
	_, err := svc.Update(context.Background(), userID, first.ID, &model.UpdateAppointmentRequest{
		StartAt: &newStart,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestCancelSkipsValidation(t *testing.T) {
	userID := uuid.New()
	first := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Ana Souza",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	// Hours repo errors; cancelling must still work because a cancellation
	// never occupies calendar time.
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{first}}
	svc := newTestService(apptRepo, &fakeHoursRepo{err: errors.New("down")}, &fakeOutboxRepo{})

	appt, err := svc.Cancel(context.Background(), userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, appt.Status)
}

func TestCancelEmitsCancelledEvent(t *testing.T) {
	userID := uuid.New()
	first := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Ana Souza",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{first}}
	outbox := &fakeOutboxRepo{}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, outbox)

	_, err := svc.Cancel(context.Background(), userID, first.ID)
	require.NoError(t, err)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, event.TypeAppointmentCancelled, outbox.events[0].EventType)
}

func TestGetAppointmentOwnership(t *testing.T) {
	owner := uuid.New()
	appt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		UserID:          owner,
		PatientName:     "Ana Souza",
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{appt}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	_, err := svc.Get(context.Background(), uuid.New(), appt.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	got, err := svc.Get(context.Background(), owner, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
}

func TestGetAvailabilityExcludesBookedSlots(t *testing.T) {
	// A Monday far enough out that no slot is skipped as already past.
	day := time.Date(2030, 6, 3, 0, 0, 0, 0, monday.Location())
	booked := time.Date(2030, 6, 3, 8, 0, 0, 0, monday.Location())

	userID := uuid.New()
	apptRepo := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		PatientName:     "Ana Souza",
		StartAt:         booked,
		DurationMinutes: 60,
		Status:          model.AppointmentStatusScheduled,
	}}}
	svc := newTestService(apptRepo, &fakeHoursRepo{}, &fakeOutboxRepo{})

	slots, err := svc.GetAvailability(context.Background(), userID, day, 60)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		assert.False(t, slot.Start.Before(booked.Add(time.Hour)), "slot %v overlaps the booked hour", slot.Start)
	}
}
