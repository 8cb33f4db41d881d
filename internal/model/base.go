package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all persisted models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TimeSlot is a bookable interval offered by the availability endpoints
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
