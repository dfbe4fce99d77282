package handler

import (
	"net/http"

	"authapi/internal/dto"
	"authapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	Service  *service.UserService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewUserHandler(svc *service.UserService, validate *validator.Validate, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *UserHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

func (h *UserHandler) Create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	var req dto.CreateUserRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.Create(c.Request().Context(), actor, service.CreateUserInput{
		Username:           req.Username,
		Nome:               req.Nome,
		Email:              req.Email,
		Password:           req.Password,
		Phone:              req.Phone,
		CodAssessor:        req.CodAssessor,
		Role:               req.Role,
		Escritorio:         req.Escritorio,
		ProfileImageBase64: req.ProfileImageBase64,
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) Me(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	user, err := h.Service.Get(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	var req dto.UpdateProfileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.UpdateSelf(c.Request().Context(), actor, service.UpdateProfileInput{
		Nome:               req.Nome,
		Phone:              req.Phone,
		Escritorio:         req.Escritorio,
		ProfileImageBase64: req.ProfileImageBase64,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.Password,
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) AdminUpdate(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	id, err := parseID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	var req dto.AdminUpdateUserRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.AdminUpdate(c.Request().Context(), actor, id, service.AdminUpdateUserInput{
		Username:           req.Username,
		Nome:               req.Nome,
		Email:              req.Email,
		Phone:              req.Phone,
		CodAssessor:        req.CodAssessor,
		Role:               req.Role,
		Escritorio:         req.Escritorio,
		ProfileImageBase64: req.ProfileImageBase64,
	})
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) Delete(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errUnauthorized)
	}
	id, err := parseID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.Delete(c.Request().Context(), actor, id); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
