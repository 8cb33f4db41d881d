package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
)

func (r *workingHoursRepository) Get(ctx context.Context, userID uuid.UUID) (*model.WorkingHours, error) {
	query := `
		SELECT weekday, enabled, start_minute, end_minute
		FROM working_hours
		WHERE user_id = $1
		ORDER BY weekday ASC
	`
	var entries []model.DayHours
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get working hours: %w", err)
	}
	if len(entries) == 0 {
		return nil, repository.ErrNotFound
	}

	hours := &model.WorkingHours{UserID: userID}
	for _, e := range entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			return nil, fmt.Errorf("invalid weekday %d in working hours", e.Weekday)
		}
		hours.Days[int(e.Weekday)] = e
	}
	return hours, nil
}

func (r *workingHoursRepository) Upsert(ctx context.Context, hours *model.WorkingHours) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO working_hours (user_id, weekday, enabled, start_minute, end_minute, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (user_id, weekday)
			DO UPDATE SET enabled = $3, start_minute = $4, end_minute = $5, updated_at = $6
		`
		now := time.Now()
		for _, day := range hours.Days {
			if _, err := tx.ExecContext(ctx, query,
				hours.UserID, day.Weekday, day.Enabled, day.StartMinute, day.EndMinute, now,
			); err != nil {
				return fmt.Errorf("failed to upsert working hours for weekday %d: %w", day.Weekday, err)
			}
		}
		return nil
	})
}
