package dto

import (
	"encoding/json"
	"testing"

	"authapi/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserResponseFromEntity_HidesSecrets(t *testing.T) {
	token := "123456"
	user := &entity.User{
		ID:                 5,
		Username:           "alice",
		Nome:               "Alice",
		Email:              "alice@example.com",
		Role:               entity.UserRoleAdmin,
		PasswordHash:       "$argon2id$secret",
		PasswordResetToken: &token,
		ProfileImageData:   []byte("img"),
		MustChangePassword: true,
	}

	body, err := json.Marshal(UserResponseFromEntity(user))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Equal(t, "aW1n", fields["profile_image_base64"])
	assert.Equal(t, true, fields["must_change_password"])
	assert.NotContains(t, string(body), "argon2id")
	assert.NotContains(t, string(body), "123456")
}

func TestUserResponseFromEntity_OmitsEmptyImage(t *testing.T) {
	body, err := json.Marshal(UserResponseFromEntity(&entity.User{ID: 1}))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "profile_image_base64")
}

func TestValidation(t *testing.T) {
	validate := validator.New()

	assert.NoError(t, validate.Struct(LoginRequest{Identifier: "alice", Password: "x"}))
	assert.Error(t, validate.Struct(LoginRequest{Password: "x"}))
	assert.Error(t, validate.Struct(PasswordForgotRequest{Email: "not-an-email"}))

	valid := CreateUserRequest{Username: "bob", Nome: "Bob", Email: "bob@example.com", Password: "x", Role: "user"}
	assert.NoError(t, validate.Struct(valid))
	valid.Role = ""
	assert.Error(t, validate.Struct(valid))
}
