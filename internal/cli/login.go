package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podcasteditor/cli/internal/auth"
)

func newLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for backend calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			store := auth.FileTokenSource{Path: cfg.Auth.TokenFile}
			if err := store.Save(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Printf("Token saved to %s\n", cfg.Auth.TokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer access token issued by the auth service")

	return cmd
}
