package commands

import (
	"fmt"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/cli/client"
	"github.com/routinnet/routix-platform-ai/internal/cli/config"
	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

// authedClient loads the saved config and builds a client with the
// stored token. Commands that need a login call this first.
func authedClient() (*config.Config, *client.APIClient, error) {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, nil, fmt.Errorf("config load failed")
	}

	if !cfg.IsAuthenticated() {
		ui.PrintError("not authenticated, please login first")
		fmt.Println("\nRun 'routixctl login' to authenticate.")
		return nil, nil, fmt.Errorf("authentication required")
	}

	apiClient, err := client.NewAPIClient(cfg.Server, cfg.AccessToken)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, nil, fmt.Errorf("client creation failed")
	}

	return cfg, apiClient, nil
}

// formatTimestamp shortens an RFC3339 timestamp for table output.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatPrice renders cents as dollars.
func formatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
