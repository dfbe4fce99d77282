package service

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrWeakPassword             = errors.New("password must be at least 8 characters and contain at least one number and one special character")
	ErrUsernameOrEmailTaken     = errors.New("username or email already in use")
	ErrInvalidOrExpiredToken    = errors.New("invalid or expired token")
	ErrUserNotFound             = errors.New("user not found")
	ErrSelfDeleteForbidden      = errors.New("you cannot delete your own account")
	ErrCurrentPasswordRequired  = errors.New("current password is required to set a new password")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrTransportFailure         = errors.New("notification transport failure")
	ErrPersistenceFailure       = errors.New("persistence failure")
)
