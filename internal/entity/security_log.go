package entity

import (
	"time"

	"gorm.io/datatypes"
)

type SecurityAction string

const (
	LoginSuccess           SecurityAction = "login_success"
	LoginFailed            SecurityAction = "login_failed"
	PasswordChanged        SecurityAction = "password_changed"
	PasswordResetRequested SecurityAction = "password_reset_requested"
	PasswordReset          SecurityAction = "password_reset"
	UserCreated            SecurityAction = "user_created"
	UserUpdated            SecurityAction = "user_updated"
	UserDeleted            SecurityAction = "user_deleted"
)

type SecurityLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	UserID *int64 `gorm:"index"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(50);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
