package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"authapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

var errInvalidBody = errors.New("invalid request body")

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errInvalidBody
	}
	return nil
}

func validate(v *validator.Validate, payload any) error {
	if v == nil {
		return nil
	}
	if err := v.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			field := validationErrors[0]
			return errors.New(strings.ToLower(field.Field()) + " failed on " + field.Tag())
		}
		return err
	}
	return nil
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// writeServiceError maps service sentinels to status codes. Transport and
// persistence details are logged and never returned to the client.
func writeServiceError(c echo.Context, logger logrus.FieldLogger, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrCurrentPasswordRequired),
		errors.Is(err, service.ErrCurrentPasswordIncorrect),
		errors.Is(err, service.ErrSelfDeleteForbidden),
		errors.Is(err, service.ErrInvalidOrExpiredToken):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUsernameOrEmailTaken):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		return writeMessage(c, status, internalErrorMessage)
	}
	if errors.Is(err, service.ErrInvalidInput) {
		return writeError(c, status, err)
	}
	return writeError(c, status, rootSentinel(err))
}

// rootSentinel strips wrapping context so clients see only the sentinel text.
func rootSentinel(err error) error {
	for _, sentinel := range []error{
		service.ErrWeakPassword,
		service.ErrCurrentPasswordRequired,
		service.ErrCurrentPasswordIncorrect,
		service.ErrSelfDeleteForbidden,
		service.ErrInvalidOrExpiredToken,
		service.ErrInvalidCredentials,
		service.ErrUserNotFound,
		service.ErrUsernameOrEmailTaken,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
