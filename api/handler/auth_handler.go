package handler

import (
	"errors"
	"net/http"

	"authapi/api/middleware"
	"authapi/internal/dto"
	"authapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	forgotPasswordMessage  = "if the email exists, a recovery code has been sent"
	passwordChangedMessage = "password changed successfully"
	passwordResetMessage   = "password reset successfully"
)

var errUnauthorized = errors.New("unauthorized")

type AuthHandler struct {
	Service  *service.CredentialService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewAuthHandler(svc *service.CredentialService, validate *validator.Validate, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		IPAddress:  stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:        result.AccessToken,
		ExpiresIn:          int64(result.ExpiresIn.Seconds()),
		User:               dto.UserResponseFromEntity(&result.User),
		MustChangePassword: result.MustChangePassword,
	})
}

func (h *AuthHandler) ChangeInitialPassword(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	var req dto.ChangeInitialPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ChangeInitialPassword(c.Request().Context(), actor, req.NewPassword); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeMessage(c, http.StatusOK, passwordChangedMessage)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ForgotPassword(c.Request().Context(), req.Email, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeMessage(c, http.StatusOK, forgotPasswordMessage)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeMessage(c, http.StatusOK, passwordResetMessage)
}

func actorFromContext(c echo.Context) (service.Actor, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: principal.UserID, Role: principal.Role, IP: stringPtr(c.RealIP())}, true
}
