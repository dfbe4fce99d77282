package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the authapi CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authapi",
		Short: "Credential lifecycle and user administration API",
		Long: `authapi authenticates users, issues access tokens, runs the
password recovery flow and lets administrators manage accounts.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewBootstrapAdminCmd())

	return cmd
}
