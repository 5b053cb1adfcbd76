package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/mediavault-server/internal/token"
)

// newTokenCommand issues an access token for an owner. Accounts live in the
// identity collaborator, so this is meant for operators and local testing.
func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Print an access token for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid owner id: %w", err)
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			access, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL).GenerateAccessToken(ownerID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), access)
			return err
		},
	}
}
