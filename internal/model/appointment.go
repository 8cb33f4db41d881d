package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

const DefaultAppointmentDuration = 60

// Appointment is a booked time slot on a practitioner's agenda. Patients have
// no account of their own: contact details live as free text on the record,
// with an optional link to the practitioner's patient register.
type Appointment struct {
	Base
	UserID          uuid.UUID         `db:"user_id" json:"user_id"`
	PatientID       *uuid.UUID        `db:"patient_id" json:"patient_id,omitempty"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	PatientPhone    *string           `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientEmail    *string           `db:"patient_email" json:"patient_email,omitempty"`
	StartAt         time.Time         `db:"start_at" json:"start_at"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	PublicBooking   bool              `db:"public_booking" json:"public_booking"`
}

// EndAt returns the exclusive end of the appointment's interval.
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type CreateAppointmentRequest struct {
	PatientName     string     `json:"patient_name" binding:"required,max=200"`
	PatientID       *uuid.UUID `json:"patient_id"`
	PatientPhone    *string    `json:"patient_phone" binding:"omitempty,max=30"`
	PatientEmail    *string    `json:"patient_email" binding:"omitempty,email"`
	StartAt         time.Time  `json:"start_at" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateAppointmentRequest struct {
	PatientName     *string            `json:"patient_name" binding:"omitempty,max=200"`
	PatientPhone    *string            `json:"patient_phone" binding:"omitempty,max=30"`
	PatientEmail    *string            `json:"patient_email" binding:"omitempty,email"`
	StartAt         *time.Time         `json:"start_at"`
	DurationMinutes *int               `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed cancelled completed"`
	Notes           *string            `json:"notes" binding:"omitempty,max=1000"`
}

// PublicBookingRequest is the payload accepted from unauthenticated visitors
// on a practitioner's public link.
type PublicBookingRequest struct {
	PatientName     string    `json:"patient_name" binding:"required,max=200"`
	PatientPhone    *string   `json:"patient_phone" binding:"omitempty,max=30"`
	PatientEmail    *string   `json:"patient_email" binding:"omitempty,email"`
	StartAt         time.Time `json:"start_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Notes           *string   `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	Status    AppointmentStatus
	PatientID *uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}
