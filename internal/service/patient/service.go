package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

// Service manages the practitioner's patient register.
type Service struct {
	patientRepo repository.PatientRepository
	logger      *logger.Logger
}

func NewService(patientRepo repository.PatientRepository, logger *logger.Logger) *Service {
	return &Service{patientRepo: patientRepo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		UserID:          userID,
		Name:            req.Name,
		CPF:             req.CPF,
		BirthDate:       req.BirthDate,
		Phone:           req.Phone,
		Email:           req.Email,
		Insurance:       req.Insurance,
		InsuranceCard:   req.InsuranceCard,
		AddressStreet:   req.AddressStreet,
		AddressNumber:   req.AddressNumber,
		AddressDistrict: req.AddressDistrict,
		AddressCity:     req.AddressCity,
		AddressState:    req.AddressState,
		AddressZip:      req.AddressZip,
		Profession:      req.Profession,
		Notes:           req.Notes,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("patient created",
		"patient_id", patient.ID.String(),
		"user_id", userID.String())
	return patient, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, userID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.patientRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, userID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.CPF != nil {
		patient.CPF = req.CPF
	}
	if req.BirthDate != nil {
		patient.BirthDate = req.BirthDate
	}
	if req.Phone != nil {
		patient.Phone = req.Phone
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.Insurance != nil {
		patient.Insurance = req.Insurance
	}
	if req.InsuranceCard != nil {
		patient.InsuranceCard = req.InsuranceCard
	}
	if req.AddressStreet != nil {
		patient.AddressStreet = req.AddressStreet
	}
	if req.AddressNumber != nil {
		patient.AddressNumber = req.AddressNumber
	}
	if req.AddressDistrict != nil {
		patient.AddressDistrict = req.AddressDistrict
	}
	if req.AddressCity != nil {
		patient.AddressCity = req.AddressCity
	}
	if req.AddressState != nil {
		patient.AddressState = req.AddressState
	}
	if req.AddressZip != nil {
		patient.AddressZip = req.AddressZip
	}
	if req.Profession != nil {
		patient.Profession = req.Profession
	}
	if req.Notes != nil {
		patient.Notes = req.Notes
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.patientRepo.Delete(ctx, userID, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("patient", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
