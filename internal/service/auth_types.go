package service

import (
	"context"
	"time"

	"authapi/internal/entity"
)

const (
	DefaultResetTokenTTL = 30 * time.Minute

	// maxResetCodeAttempts bounds regeneration when a code is pending for another user.
	maxResetCodeAttempts = 5
)

type CredentialConfig struct {
	ResetTokenTTL time.Duration
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns (false, nil) on mismatch and an error when hash cannot be parsed.
	Verify(hash string, password string) (bool, error)
}

// Notifier delivers an HTML email to one recipient.
type Notifier interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}

type TokenIssuer interface {
	IssueToken(user entity.User) (string, time.Duration, error)
}

type ResetCodeGenerator func() (string, error)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type LoginInput struct {
	Identifier string
	Password   string
	IPAddress  *string
}

type LoginResult struct {
	AccessToken        string
	ExpiresIn          time.Duration
	User               entity.User
	MustChangePassword bool
}

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID int64
	Role   string
	IP     *string
}

type CreateUserInput struct {
	Username    string
	Nome        string
	Email       string
	Password    string
	Phone       *string
	CodAssessor *string
	Role        string
	Escritorio  *string

	ProfileImageBase64 *string
}

// UpdateProfileInput holds self-service changes. A nil ProfileImageBase64 keeps
// the stored image and an empty one clears it.
type UpdateProfileInput struct {
	Nome               string
	Phone              *string
	Escritorio         *string
	ProfileImageBase64 *string
	CurrentPassword    string
	NewPassword        string
}

type AdminUpdateUserInput struct {
	Username           string
	Nome               string
	Email              string
	Phone              *string
	CodAssessor        *string
	Role               string
	Escritorio         *string
	ProfileImageBase64 *string
}
