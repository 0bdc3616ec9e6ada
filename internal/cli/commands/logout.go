package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/config"
	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

// logoutCmd is the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "discard the stored authentication token",
	Long: `Remove the locally stored credentials (~/.routixctl/config.json).

Tokens are stateless, so this only affects this machine; the token itself
remains valid until it expires.`,
	Example: `  $ routixctl logout`,
	Args:    cobra.NoArgs,
	RunE:    runLogout,
}

func init() {
	logoutCmd.SilenceUsage = true
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	if !cfg.IsAuthenticated() {
		ui.PrintInfo("Not logged in.")
		return nil
	}

	if err := config.Clear(); err != nil {
		ui.PrintError("failed to remove credentials: %v", err)
		return fmt.Errorf("logout failed")
	}

	ui.PrintSuccess("logged out %s", cfg.Username)
	return nil
}
