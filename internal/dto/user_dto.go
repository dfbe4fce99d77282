package dto

import (
	"encoding/base64"

	"authapi/internal/entity"
)

type CreateUserRequest struct {
	Username           string  `json:"username" validate:"required,max=100"`
	Nome               string  `json:"nome" validate:"required,max=255"`
	Email              string  `json:"email" validate:"required,email,max=255"`
	Password           string  `json:"password" validate:"required"`
	Phone              *string `json:"phone" validate:"omitempty,max=50"`
	CodAssessor        *string `json:"cod_assessor" validate:"omitempty,max=50"`
	Role               string  `json:"role" validate:"required,max=50"`
	Escritorio         *string `json:"escritorio" validate:"omitempty,max=100"`
	ProfileImageBase64 *string `json:"profile_image_base64"`
}

// UpdateProfileRequest changes the caller's own profile. Password is the new
// password and requires CurrentPassword.
type UpdateProfileRequest struct {
	Nome               string  `json:"nome" validate:"required,max=255"`
	Phone              *string `json:"phone" validate:"omitempty,max=50"`
	Escritorio         *string `json:"escritorio" validate:"omitempty,max=100"`
	ProfileImageBase64 *string `json:"profile_image_base64"`
	Password           string  `json:"password"`
	CurrentPassword    string  `json:"current_password"`
}

type AdminUpdateUserRequest struct {
	Username           string  `json:"username" validate:"required,max=100"`
	Nome               string  `json:"nome" validate:"required,max=255"`
	Email              string  `json:"email" validate:"required,email,max=255"`
	Phone              *string `json:"phone" validate:"omitempty,max=50"`
	CodAssessor        *string `json:"cod_assessor" validate:"omitempty,max=50"`
	Role               string  `json:"role" validate:"required,max=50"`
	Escritorio         *string `json:"escritorio" validate:"omitempty,max=100"`
	ProfileImageBase64 *string `json:"profile_image_base64"`
}

// UserResponse never carries the password hash or recovery state.
type UserResponse struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Nome               string  `json:"nome"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone"`
	CodAssessor        *string `json:"cod_assessor"`
	Role               string  `json:"role"`
	Escritorio         *string `json:"escritorio"`
	MustChangePassword bool    `json:"must_change_password"`
	ProfileImageBase64 string  `json:"profile_image_base64,omitempty"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	response := UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Nome:               user.Nome,
		Email:              user.Email,
		Phone:              user.Phone,
		CodAssessor:        user.CodAssessor,
		Role:               user.Role,
		Escritorio:         user.Escritorio,
		MustChangePassword: user.MustChangePassword,
	}
	if len(user.ProfileImageData) > 0 {
		response.ProfileImageBase64 = base64.StdEncoding.EncodeToString(user.ProfileImageData)
	}
	return response
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
