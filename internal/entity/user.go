package entity

import (
	"time"
)

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type User struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Username    string  `gorm:"type:varchar(100);not null"`
	Nome        string  `gorm:"type:varchar(255);not null"`
	Email       string  `gorm:"type:varchar(255);not null"`
	Phone       *string `gorm:"type:varchar(50)"`
	CodAssessor *string `gorm:"type:varchar(50)"`
	Role        string  `gorm:"type:varchar(50);not null"`
	Escritorio  *string `gorm:"type:varchar(100)"`

	PasswordHash     string `gorm:"type:varchar(255);not null"`
	ProfileImageData []byte `gorm:"type:bytea"`

	PasswordResetToken  *string `gorm:"type:varchar(6)"`
	PasswordResetExpiry *time.Time
	MustChangePassword  bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingReset reports whether a recovery code is stored and still valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	if u.PasswordResetToken == nil || u.PasswordResetExpiry == nil {
		return false
	}
	return now.Before(*u.PasswordResetExpiry)
}

// IsAdminRole reports whether role grants user administration. Roles are compared exactly.
func IsAdminRole(role string) bool {
	return role == UserRoleAdmin
}
