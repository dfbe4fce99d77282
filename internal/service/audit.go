package service

import (
	"context"
	"encoding/json"

	"authapi/internal/entity"
	"authapi/internal/metrics"
	"authapi/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// auditor records credential events in the security log and the event counters.
// Audit failures are logged and never fail the operation.
type auditor struct {
	logs   repository.SecurityLogRepository
	logger logrus.FieldLogger
}

func (a auditor) record(
	ctx context.Context,
	userID *int64,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	outcome := metrics.OutcomeSuccess
	if action == entity.LoginFailed {
		outcome = metrics.OutcomeFailure
	}
	metrics.CredentialEvents.WithLabelValues(string(action), outcome).Inc()

	if a.logs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			a.logger.WithError(err).WithField("action", action).Warn("encode security log metadata")
			return
		}
		payload = datatypes.JSON(bytes)
	}
	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := a.logs.Log(ctx, log); err != nil {
		a.logger.WithError(err).WithField("action", action).Warn("write security log")
	}
}
