package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"authapi/internal/entity"
	"authapi/internal/metrics"
	"authapi/internal/repository"
	"authapi/internal/utils"

	"github.com/sirupsen/logrus"
)

// dummyPassword is hashed once so unknown identifiers still pay for a verification.
const dummyPassword = "dummy-password-for-timing-1!"

type CredentialService struct {
	users    repository.UserRepository
	audit    auditor
	hasher   PasswordHasher
	tokens   TokenIssuer
	notifier Notifier
	clock    Clock
	logger   logrus.FieldLogger
	config   CredentialConfig

	generateCode ResetCodeGenerator
	dummyHash    string
}

func NewCredentialService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	notifier Notifier,
	clock Clock,
	logger logrus.FieldLogger,
	config CredentialConfig,
) *CredentialService {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = DefaultResetTokenTTL
	}
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.WithError(err).Warn("prepare dummy password hash")
	}
	return &CredentialService{
		users:        users,
		audit:        auditor{logs: securityLogs, logger: logger},
		hasher:       hasher,
		tokens:       tokens,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
		config:       config,
		generateCode: utils.GenerateResetCode,
		dummyHash:    dummyHash,
	}
}

// WithResetCodeGenerator replaces the source of recovery codes.
func (s *CredentialService) WithResetCodeGenerator(generate ResetCodeGenerator) *CredentialService {
	s.generateCode = generate
	return s
}

// Login never changes stored state. Unknown identifiers, wrong passwords and
// unreadable hashes all return ErrInvalidCredentials.
func (s *CredentialService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrPersistenceFailure, err)
	}
	if user == nil {
		_, _ = s.hasher.Verify(s.dummyHash, input.Password)
		s.audit.record(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"identifier": identifier})
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("stored password hash is unreadable")
	}
	if !ok {
		s.audit.record(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"identifier": identifier})
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := s.tokens.IssueToken(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit.record(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return &LoginResult{
		AccessToken:        token,
		ExpiresIn:          expiresIn,
		User:               *user,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// ChangeInitialPassword replaces the password of the authenticated user and
// clears MustChangePassword in one update. The old password is not checked.
func (s *CredentialService) ChangeInitialPassword(ctx context.Context, actor Actor, newPassword string) error {
	if !IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.ReplacePassword(ctx, actor.UserID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: replace password: %w", ErrPersistenceFailure, err)
	}
	s.audit.record(ctx, &actor.UserID, actor.IP, entity.PasswordChanged, map[string]any{"source": "initial"})
	return nil
}

// ForgotPassword returns nil for unknown emails without writing or sending anything.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string, ipAddress *string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: find user: %w", ErrPersistenceFailure, err)
	}
	if user == nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	code, err := s.storeResetCode(ctx, user.ID)
	if err != nil {
		return err
	}

	body, err := renderResetEmail(code, s.config.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if err := s.notifier.Send(ctx, user.Email, resetSubject, body); err != nil {
		metrics.NotificationFailures.WithLabelValues("password_reset").Inc()
		return fmt.Errorf("%w: send reset code: %w", ErrTransportFailure, err)
	}

	s.audit.record(ctx, &user.ID, ipAddress, entity.PasswordResetRequested, nil)
	return nil
}

func (s *CredentialService) storeResetCode(ctx context.Context, userID int64) (string, error) {
	expiresAt := s.clock.Now().Add(s.config.ResetTokenTTL)
	for attempt := 0; attempt < maxResetCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return "", fmt.Errorf("generate reset code: %w", err)
		}
		err = s.users.SetResetToken(ctx, userID, code, expiresAt)
		switch {
		case err == nil:
			return code, nil
		case errors.Is(err, repository.ErrResetTokenTaken):
			continue
		case errors.Is(err, repository.ErrNotFound):
			return "", ErrUserNotFound
		default:
			return "", fmt.Errorf("%w: store reset code: %w", ErrPersistenceFailure, err)
		}
	}
	return "", fmt.Errorf("%w: no free reset code after %d attempts", ErrPersistenceFailure, maxResetCodeAttempts)
}

// ResetPassword consumes a recovery code at most once. A code is valid while
// now is strictly before its expiry.
func (s *CredentialService) ResetPassword(ctx context.Context, token string, newPassword string, ipAddress *string) error {
	if !IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}
	token = strings.TrimSpace(token)
	if !utils.IsResetCode(token) {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: find reset token: %w", ErrPersistenceFailure, err)
	}
	now := s.clock.Now()
	if user == nil || !user.HasPendingReset(now) {
		return ErrInvalidOrExpiredToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	consumed, err := s.users.ConsumeResetToken(ctx, user.ID, token, now, hash)
	if err != nil {
		return fmt.Errorf("%w: consume reset token: %w", ErrPersistenceFailure, err)
	}
	if !consumed {
		return ErrInvalidOrExpiredToken
	}

	s.audit.record(ctx, &user.ID, ipAddress, entity.PasswordReset, nil)
	return nil
}
