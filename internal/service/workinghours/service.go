package workinghours

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

// Service manages the practitioner's weekly booking windows.
type Service struct {
	hoursRepo repository.WorkingHoursRepository
	logger    *logger.Logger
}

func NewService(hoursRepo repository.WorkingHoursRepository, logger *logger.Logger) *Service {
	return &Service{hoursRepo: hoursRepo, logger: logger}
}

// Get returns the saved configuration, or the defaults when the practitioner
// never saved one. Reads substitute defaults; booking validation does the same
// substitution itself so this endpoint and the validator always agree.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*model.WorkingHours, error) {
	hours, err := s.hoursRepo.Get(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return model.DefaultWorkingHours(userID), nil
		}
		return nil, apperrors.Internal(err)
	}
	return hours, nil
}

// Update replaces the full weekly configuration. Each day accepts either
// "HH:MM" strings or raw minutes; an enabled day with an inverted or empty
// window is stored as given and simply never matches a booking.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *model.UpdateWorkingHoursRequest) (*model.WorkingHours, error) {
	hours := &model.WorkingHours{UserID: userID}
	seen := [7]bool{}

	for _, day := range req.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid weekday %d", day.Weekday), nil)
		}
		if seen[day.Weekday] {
			return nil, apperrors.BadRequest(fmt.Sprintf("duplicate weekday %d", day.Weekday), nil)
		}
		seen[day.Weekday] = true

		entry, err := parseDay(day)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error(), err)
		}
		hours.Days[day.Weekday] = entry
	}

	if err := s.hoursRepo.Upsert(ctx, hours); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("working hours updated", "user_id", userID.String())
	return hours, nil
}

func parseDay(day model.DayHoursRequest) (model.DayHours, error) {
	entry := model.DayHours{
		Weekday: time.Weekday(day.Weekday),
		Enabled: day.Enabled,
	}

	switch {
	case day.StartMinute != nil && day.EndMinute != nil:
		entry.StartMinute = *day.StartMinute
		entry.EndMinute = *day.EndMinute
	case day.Start != "" && day.End != "":
		start, err := model.ParseClock(day.Start)
		if err != nil {
			return model.DayHours{}, err
		}
		end, err := model.ParseClock(day.End)
		if err != nil {
			return model.DayHours{}, err
		}
		entry.StartMinute = start
		entry.EndMinute = end
	case day.Enabled:
		return model.DayHours{}, fmt.Errorf("enabled weekday %d needs a start and end time", day.Weekday)
	}

	return entry, nil
}
