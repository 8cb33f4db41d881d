package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
	pkgauth "github.com/agendaflow/agenda-api/pkg/auth"
	apperrors "github.com/agendaflow/agenda-api/pkg/errors"
	"github.com/agendaflow/agenda-api/pkg/logger"
	"github.com/agendaflow/agenda-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail   map[string]*model.User
	createErr error
	updateErr error
	updates   int
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uuid.New()
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byEmail[user.Email] = user
	return nil
}

type fakeProfileRepo struct {
	created []*model.Profile
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	profile.ID = uuid.New()
	f.created = append(f.created, profile)
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*model.Profile, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) GetBySlug(_ context.Context, _ string) (*model.Profile, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) Update(_ context.Context, _ *model.Profile) error {
	return nil
}

func newTestService(users *fakeUserRepo, profiles *fakeProfileRepo) *Service {
	l := logger.NewLogger(nil)
	jwt := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(users, profiles, security.NewBcryptHasher(bcrypt.MinCost), jwt, l)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.StatusCode()
}

func register(t *testing.T, svc *Service, email, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dra. Carla Lima",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	users := &fakeUserRepo{}
	profiles := &fakeProfileRepo{}
	svc := newTestService(users, profiles)

	user := register(t, svc, "Carla@Example.com", "s3cret-enough")

	assert.Equal(t, "carla@example.com", user.Email, "email is stored lowercase")
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.NotEqual(t, "s3cret-enough", user.PasswordHash)

	require.Len(t, profiles.created, 1)
	assert.Equal(t, user.ID, profiles.created[0].UserID)
	assert.NotEmpty(t, profiles.created[0].PublicSlug)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{createErr: repository.ErrDuplicate}
	svc := newTestService(users, &fakeProfileRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dra. Carla Lima",
		Email:    "carla@example.com",
		Password: "s3cret-enough",
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestLoginIssuesToken(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")

	token, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Carla@Example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	user := users.byEmail["carla@example.com"]
	assert.Zero(t, user.LoginAttempts)
	require.NotNil(t, user.LastLoginAt)
}

func TestLoginSucceedsWhenRecordingFails(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")
	users.updateErr = errors.New("connection reset")

	token, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "carla@example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err, "bookkeeping failures must not block a valid login")
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, 1, users.updates)
}

func TestLoginWrongPassword(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "carla@example.com",
		Password: "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.Equal(t, 1, users.byEmail["carla@example.com"].LoginAttempts)
}

func TestLoginWrongPasswordWithAttemptRecordingDown(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")
	users.updateErr = errors.New("connection reset")

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "carla@example.com",
		Password: "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")

	bad := &model.LoginRequest{Email: "carla@example.com", Password: "not-the-password"}
	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), bad)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	}
	assert.Equal(t, model.UserStatusLocked, users.byEmail["carla@example.com"].Status)

	// the correct password is rejected while the lockout window is open, and
	// the response is indistinguishable from bad credentials
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "carla@example.com",
		Password: "s3cret-enough",
	})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLoginUnlocksAfterWindowExpires(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(users, &fakeProfileRepo{})
	register(t, svc, "carla@example.com", "s3cret-enough")

	user := users.byEmail["carla@example.com"]
	user.Status = model.UserStatusLocked
	user.LoginAttempts = maxLoginAttempts
	user.LastLoginAttempt = time.Now().Add(-lockoutWindow - time.Minute)

	token, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "carla@example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, model.UserStatusActive, user.Status)
}
