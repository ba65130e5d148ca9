package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/podcasteditor/cli/internal/auth"
	"github.com/podcasteditor/cli/internal/client"
	"github.com/podcasteditor/cli/internal/config"
)

var (
	cfg *config.Config

	apiURLFlag    string
	tokenFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "podedit",
	Short: "PodcastEditor command-line client",
	Long:  "Upload audio or video to the PodcastEditor service and track processing jobs.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if apiURLFlag != "" {
			cfg.API.BaseURL = apiURLFlag
		}
		if tokenFileFlag != "" {
			cfg.Auth.TokenFile = tokenFileFlag
		}
	},
}

func Execute() error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&tokenFileFlag, "token-file", "", "Path to the saved access token")

	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLoginCmd())
}

func newTokenSource() auth.TokenSource {
	return auth.FileTokenSource{Path: cfg.Auth.TokenFile}
}

func newBackend() *client.APIClient {
	return client.NewAPIClient(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)*time.Second, newTokenSource())
}
