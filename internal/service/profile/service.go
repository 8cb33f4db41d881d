package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

// Service manages the practitioner's public card and booking-link settings.
type Service struct {
	profileRepo repository.ProfileRepository
	logger      *logger.Logger
}

func NewService(profileRepo repository.ProfileRepository, logger *logger.Logger) *Service {
	return &Service{profileRepo: profileRepo, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("profile", err)
		}
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

// Update applies partial profile edits. Slug changes hit the store's unique
// constraint; a taken slug comes back as a conflict.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("profile", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Specialty != nil {
		profile.Specialty = req.Specialty
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.PublicSlug != nil {
		profile.PublicSlug = *req.PublicSlug
	}
	if req.PublicEnabled != nil {
		profile.PublicEnabled = *req.PublicEnabled
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = req.PhotoURL
	}
	if req.Instagram != nil {
		profile.Instagram = req.Instagram
	}
	if req.TikTok != nil {
		profile.TikTok = req.TikTok
	}
	if req.Facebook != nil {
		profile.Facebook = req.Facebook
	}
	if req.LinkedIn != nil {
		profile.LinkedIn = req.LinkedIn
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		switch err {
		case repository.ErrNotFound:
			return nil, apperrors.NotFound("profile", err)
		case repository.ErrDuplicate:
			return nil, apperrors.Conflict("public slug is already taken", err)
		default:
			return nil, apperrors.Internal(err)
		}
	}

	s.logger.Info("profile updated", "user_id", userID.String())
	return profile, nil
}
