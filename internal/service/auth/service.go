package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	"github.com/agendaflow/agenda-api/pkg/auth"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
	"github.com/agendaflow/agenda-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// Service handles practitioner registration and login. Registering creates
// both the login identity and a profile whose public page starts disabled.
type Service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	hasher      security.PasswordHasher
	jwt         *auth.JWTService
	logger      *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	hasher security.PasswordHasher,
	jwt *auth.JWTService,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		hasher:      hasher,
		jwt:         jwt,
		logger:      logger,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("email is already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	profile := &model.Profile{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		PublicSlug: defaultSlug(user.ID),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.logger.Error(err, "failed to create profile for new user", "user_id", user.ID.String())
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("practitioner registered", "user_id", user.ID.String())
	return user, nil
}

// Login verifies credentials and issues an access token. Repeated failures
// lock the account for a window; locked accounts get the same unauthorized
// response as bad credentials.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Internal(err)
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutWindow {
			return nil, apperrors.Unauthorized(nil)
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
			s.logger.Warn("account locked after repeated failures", "user_id", user.ID.String())
		}
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			s.logger.Error(updateErr, "failed to record login attempt", "user_id", user.ID.String())
		}
		return nil, apperrors.Unauthorized(err)
	}

	now := time.Now()
	user.LoginAttempts = 0
	user.LastLoginAttempt = now
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login", "user_id", user.ID.String())
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// defaultSlug derives an initial public slug from the user's id; the
// practitioner can change it later.
func defaultSlug(id uuid.UUID) string {
	return strings.SplitN(id.String(), "-", 2)[0]
}
