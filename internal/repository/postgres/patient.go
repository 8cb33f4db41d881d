package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
)

const patientColumns = `
	id, user_id, name, cpf, birth_date, phone, email,
	insurance, insurance_card, address_street, address_number,
	address_district, address_city, address_state, address_zip,
	profession, notes, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, user_id, name, cpf, birth_date, phone, email,
			insurance, insurance_card, address_street, address_number,
			address_district, address_city, address_state, address_zip,
			profession, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.UserID,
		patient.Name,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.Email,
		patient.Insurance,
		patient.InsuranceCard,
		patient.AddressStreet,
		patient.AddressNumber,
		patient.AddressDistrict,
		patient.AddressCity,
		patient.AddressState,
		patient.AddressZip,
		patient.Profession,
		patient.Notes,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND user_id = $2`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, cpf = $2, birth_date = $3, phone = $4, email = $5,
			insurance = $6, insurance_card = $7, address_street = $8,
			address_number = $9, address_district = $10, address_city = $11,
			address_state = $12, address_zip = $13, profession = $14,
			notes = $15, updated_at = $16
		WHERE id = $17 AND user_id = $18
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.Email,
		patient.Insurance,
		patient.InsuranceCard,
		patient.AddressStreet,
		patient.AddressNumber,
		patient.AddressDistrict,
		patient.AddressCity,
		patient.AddressState,
		patient.AddressZip,
		patient.Profession,
		patient.Notes,
		patient.UpdatedAt,
		patient.ID,
		patient.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *patientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *patientRepository) List(ctx context.Context, userID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE user_id = $1`
	args := []interface{}{userID}

	if filters != nil && filters.Search != "" {
		query += ` AND (name ILIKE $2 OR cpf ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY name ASC"

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
