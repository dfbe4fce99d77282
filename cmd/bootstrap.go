package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"authapi/config"
	"authapi/internal/entity"
	"authapi/internal/repository"
	"authapi/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type adminSeed struct {
	Username string
	Email    string
	Nome     string
	Password string
}

// NewBootstrapAdminCmd creates the bootstrap-admin subcommand.
func NewBootstrapAdminCmd() *cobra.Command {
	seed := &adminSeed{}
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first administrator account",
		Long: `Create an administrator in the postgres store. The password is
temporary: the account must change it on first login.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("bootstrap-admin needs the postgres store, got %q", cfg.StoreDriver)
			}
			if cfg.DatabaseURL == "" {
				return errDatabaseURLRequired
			}
			logger := config.NewLogger(cfg.LogLevel, os.Stderr)
			st, err := openStores(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.close() }()

			user, err := bootstrapAdmin(cmd.Context(), st.users, newHasher(cfg), *seed)
			if err != nil {
				return err
			}
			cmd.Printf("Administrator %s created with id %d\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&seed.Username, "username", "", "administrator username (required)")
	cmd.Flags().StringVar(&seed.Email, "email", "", "administrator email (required)")
	cmd.Flags().StringVar(&seed.Nome, "nome", "Administrator", "administrator display name")
	cmd.Flags().StringVar(&seed.Password, "password", "", "temporary password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func bootstrapAdmin(ctx context.Context, users repository.UserRepository, hasher service.PasswordHasher, seed adminSeed) (*entity.User, error) {
	username := strings.TrimSpace(seed.Username)
	email := strings.TrimSpace(seed.Email)
	nome := strings.TrimSpace(seed.Nome)
	if nome == "" {
		nome = username
	}
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", service.ErrInvalidInput)
	}
	if !service.IsStrongPassword(seed.Password) {
		return nil, service.ErrWeakPassword
	}

	taken, err := users.ExistsConflicting(ctx, 0, username, email)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	if taken {
		return nil, service.ErrUsernameOrEmailTaken
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		Username:           username,
		Nome:               nome,
		Email:              email,
		Role:               entity.UserRoleAdmin,
		PasswordHash:       hash,
		MustChangePassword: true,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, service.ErrUsernameOrEmailTaken
		}
		return nil, fmt.Errorf("create administrator: %w", err)
	}
	return user, nil
}

// seedAdminIfMissing creates the administrator unless the username or email is already present.
func seedAdminIfMissing(ctx context.Context, users repository.UserRepository, hasher service.PasswordHasher, seed adminSeed, logger logrus.FieldLogger) error {
	user, err := bootstrapAdmin(ctx, users, hasher, seed)
	if errors.Is(err, service.ErrUsernameOrEmailTaken) {
		logger.WithField("username", seed.Username).Info("seed administrator already present")
		return nil
	}
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("seed administrator created")
	return nil
}
