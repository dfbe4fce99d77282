package main

import (
	"fmt"

	"authapi/config"
	"authapi/internal/repository"
	"authapi/internal/service"
	"authapi/internal/utils"

	"github.com/sirupsen/logrus"
)

type stores struct {
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository
	close        func() error
}

func openStores(cfg *config.Config, logger logrus.FieldLogger) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:        repository.NewMemoryUserRepository(),
			securityLogs: repository.NewMemorySecurityLogRepository(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := config.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	logger.Info("connected to database")
	return &stores{
		users:        repository.NewUserRepository(db),
		securityLogs: repository.NewSecurityLogRepository(db),
		close:        sqlDB.Close,
	}, nil
}

func newHasher(cfg *config.Config) *service.Argon2idHasher {
	return service.NewArgon2idHasher(service.Argon2Params{
		MemoryKiB: cfg.Argon2MemoryKiB,
		Time:      cfg.Argon2Time,
		Threads:   cfg.Argon2Threads,
	})
}

func newJWTManager(cfg *config.Config) (*utils.JWTManager, error) {
	return utils.NewJWTManager(utils.TokenConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
}

func newNotifier(cfg *config.Config, logger logrus.FieldLogger) (service.Notifier, error) {
	switch cfg.MailDriver {
	case config.MailDriverResend:
		return service.NewResendNotifier(cfg.ResendAPIKey, cfg.MailFrom), nil
	case config.MailDriverSMTP:
		return service.NewSMTPNotifier(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), nil
	case config.MailDriverLog:
		return service.LogNotifier{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}
