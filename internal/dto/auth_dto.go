package dto

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken        string       `json:"access_token"`
	ExpiresIn          int64        `json:"expires_in"`
	User               UserResponse `json:"user"`
	MustChangePassword bool         `json:"must_change_password"`
}

type ChangeInitialPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
