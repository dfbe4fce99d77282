package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"authapi/internal/entity"
	"authapi/internal/metrics"
	"authapi/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type UserService struct {
	users    repository.UserRepository
	audit    auditor
	hasher   PasswordHasher
	notifier Notifier
	logger   logrus.FieldLogger
}

func NewUserService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	hasher PasswordHasher,
	notifier Notifier,
	logger logrus.FieldLogger,
) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{
		users:    users,
		audit:    auditor{logs: securityLogs, logger: logger},
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// Create provisions an account that must rotate its password on first login.
// The welcome email is best effort.
func (s *UserService) Create(ctx context.Context, actor Actor, input CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	nome := strings.TrimSpace(input.Nome)
	if username == "" || email == "" || nome == "" {
		return nil, ErrInvalidInput
	}
	if !IsStrongPassword(input.Password) {
		return nil, ErrWeakPassword
	}
	image, err := decodeImage(input.ProfileImageBase64, nil)
	if err != nil {
		return nil, err
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = entity.UserRoleUser
	}

	taken, err := s.users.ExistsConflicting(ctx, 0, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: check conflicts: %w", ErrPersistenceFailure, err)
	}
	if taken {
		return nil, ErrUsernameOrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:           username,
		Nome:               nome,
		Email:              email,
		Phone:              input.Phone,
		CodAssessor:        input.CodAssessor,
		Role:               role,
		Escritorio:         input.Escritorio,
		PasswordHash:       hash,
		ProfileImageData:   image,
		MustChangePassword: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameOrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", ErrPersistenceFailure, err)
	}

	s.sendWelcome(ctx, user, input.Password)
	s.audit.record(ctx, &user.ID, actor.IP, entity.UserCreated, map[string]any{"actor_id": actor.UserID})
	return user, nil
}

func (s *UserService) sendWelcome(ctx context.Context, user *entity.User, password string) {
	logger := s.logger.WithField("user_id", user.ID)
	if s.notifier == nil {
		return
	}
	body, err := renderWelcomeEmail(user.Nome, user.Username, password)
	if err != nil {
		logger.WithError(err).Warn("render welcome email")
		return
	}
	if err := s.notifier.Send(ctx, user.Email, welcomeSubject, body); err != nil {
		metrics.NotificationFailures.WithLabelValues("welcome").Inc()
		logger.WithError(err).Warn("send welcome email")
	}
}

// UpdateSelf applies profile changes of the caller. Setting NewPassword needs
// the current password and is written in the same update.
func (s *UserService) UpdateSelf(ctx context.Context, actor Actor, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistenceFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	changePassword := input.NewPassword != ""
	if changePassword {
		if input.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		ok, err := s.hasher.Verify(user.PasswordHash, input.CurrentPassword)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("stored password hash is unreadable")
		}
		if !ok {
			return nil, ErrCurrentPasswordIncorrect
		}
		if !IsStrongPassword(input.NewPassword) {
			return nil, ErrWeakPassword
		}
	}

	image, err := decodeImage(input.ProfileImageBase64, user.ProfileImageData)
	if err != nil {
		return nil, err
	}
	user.Nome = strings.TrimSpace(input.Nome)
	user.Phone = input.Phone
	user.Escritorio = input.Escritorio
	user.ProfileImageData = image

	if changePassword {
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		err = s.users.UpdateWithPassword(ctx, user)
		if err != nil {
			return nil, s.translateUpdateError(err)
		}
		s.audit.record(ctx, &user.ID, actor.IP, entity.PasswordChanged, map[string]any{"source": "profile"})
	} else if err := s.users.Update(ctx, user); err != nil {
		return nil, s.translateUpdateError(err)
	}

	s.audit.record(ctx, &user.ID, actor.IP, entity.UserUpdated, map[string]any{"actor_id": actor.UserID})
	return user, nil
}

// AdminUpdate overwrites every profile field of the user. The password is never touched.
func (s *UserService) AdminUpdate(ctx context.Context, actor Actor, id int64, input AdminUpdateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	role := strings.TrimSpace(input.Role)
	if username == "" || email == "" || role == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistenceFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	taken, err := s.users.ExistsConflicting(ctx, id, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: check conflicts: %w", ErrPersistenceFailure, err)
	}
	if taken {
		return nil, ErrUsernameOrEmailTaken
	}

	image, err := decodeImage(input.ProfileImageBase64, user.ProfileImageData)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Nome = strings.TrimSpace(input.Nome)
	user.Email = email
	user.Phone = input.Phone
	user.CodAssessor = input.CodAssessor
	user.Role = role
	user.Escritorio = input.Escritorio
	user.ProfileImageData = image

	if err := s.users.Update(ctx, user); err != nil {
		return nil, s.translateUpdateError(err)
	}
	s.audit.record(ctx, &user.ID, actor.IP, entity.UserUpdated, map[string]any{"actor_id": actor.UserID})
	return user, nil
}

// Delete refuses to remove the caller's own account.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int64) error {
	if actor.UserID == id {
		return ErrSelfDeleteForbidden
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: delete user: %w", ErrPersistenceFailure, err)
	}
	s.audit.record(ctx, &actor.UserID, actor.IP, entity.UserDeleted, map[string]any{"deleted_user_id": id})
	return nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", ErrPersistenceFailure, err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistenceFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) translateUpdateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrUsernameOrEmailTaken
	default:
		return fmt.Errorf("%w: update user: %w", ErrPersistenceFailure, err)
	}
}

// decodeImage keeps current for nil, clears for "" and otherwise decodes std base64.
func decodeImage(encoded *string, current []byte) ([]byte, error) {
	if encoded == nil {
		return current, nil
	}
	if *encoded == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: profile image is not valid base64", ErrInvalidInput)
	}
	return data, nil
}
