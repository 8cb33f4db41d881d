package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a record in the practitioner's register. Patients never log in;
// the record is owned by the practitioner alone.
type Patient struct {
	Base
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	CPF             *string    `db:"cpf" json:"cpf,omitempty"`
	BirthDate       *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Insurance       *string    `db:"insurance" json:"insurance,omitempty"`
	InsuranceCard   *string    `db:"insurance_card" json:"insurance_card,omitempty"`
	AddressStreet   *string    `db:"address_street" json:"address_street,omitempty"`
	AddressNumber   *string    `db:"address_number" json:"address_number,omitempty"`
	AddressDistrict *string    `db:"address_district" json:"address_district,omitempty"`
	AddressCity     *string    `db:"address_city" json:"address_city,omitempty"`
	AddressState    *string    `db:"address_state" json:"address_state,omitempty"`
	AddressZip      *string    `db:"address_zip" json:"address_zip,omitempty"`
	Profession      *string    `db:"profession" json:"profession,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
}

type CreatePatientRequest struct {
	Name            string     `json:"name" binding:"required,max=200"`
	CPF             *string    `json:"cpf" binding:"omitempty,max=14"`
	BirthDate       *time.Time `json:"birth_date"`
	Phone           *string    `json:"phone" binding:"omitempty,max=30"`
	Email           *string    `json:"email" binding:"omitempty,email"`
	Insurance       *string    `json:"insurance" binding:"omitempty,max=100"`
	InsuranceCard   *string    `json:"insurance_card" binding:"omitempty,max=50"`
	AddressStreet   *string    `json:"address_street" binding:"omitempty,max=200"`
	AddressNumber   *string    `json:"address_number" binding:"omitempty,max=20"`
	AddressDistrict *string    `json:"address_district" binding:"omitempty,max=100"`
	AddressCity     *string    `json:"address_city" binding:"omitempty,max=100"`
	AddressState    *string    `json:"address_state" binding:"omitempty,max=2"`
	AddressZip      *string    `json:"address_zip" binding:"omitempty,max=10"`
	Profession      *string    `json:"profession" binding:"omitempty,max=100"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

type UpdatePatientRequest struct {
	Name            *string    `json:"name" binding:"omitempty,max=200"`
	CPF             *string    `json:"cpf" binding:"omitempty,max=14"`
	BirthDate       *time.Time `json:"birth_date"`
	Phone           *string    `json:"phone" binding:"omitempty,max=30"`
	Email           *string    `json:"email" binding:"omitempty,email"`
	Insurance       *string    `json:"insurance" binding:"omitempty,max=100"`
	InsuranceCard   *string    `json:"insurance_card" binding:"omitempty,max=50"`
	AddressStreet   *string    `json:"address_street" binding:"omitempty,max=200"`
	AddressNumber   *string    `json:"address_number" binding:"omitempty,max=20"`
	AddressDistrict *string    `json:"address_district" binding:"omitempty,max=100"`
	AddressCity     *string    `json:"address_city" binding:"omitempty,max=100"`
	AddressState    *string    `json:"address_state" binding:"omitempty,max=2"`
	AddressZip      *string    `json:"address_zip" binding:"omitempty,max=10"`
	Profession      *string    `json:"profession" binding:"omitempty,max=100"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

type PatientFilters struct {
	Search string
}
