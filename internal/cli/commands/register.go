package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/client"
	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

var (
	registerServer   string
	registerEmail    string
	registerUsername string
)

// registerCmd is the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "create a new Routix account",
	Long: `Create a new account on the Routix API server.

New accounts start with a signup credit grant, enough for the first few
thumbnail generations. Run 'routixctl login' afterwards to authenticate.`,
	Example: `  # Register against the default server
  $ routixctl register

  # Register on a custom server
  $ routixctl register -s http://api.example.com:8080 -e you@example.com -u yourname`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerServer, "server", "s", "http://localhost:8080", "API server address")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email for the new account")
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username for the new account")

	registerCmd.SilenceUsage = true
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if registerEmail == "" {
		prompt := &survey.Input{Message: "Email:"}
		if err := survey.AskOne(prompt, &registerEmail, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read email: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	if registerUsername == "" {
		prompt := &survey.Input{Message: "Username:"}
		if err := survey.AskOne(prompt, &registerUsername, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read username: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	var password string
	prompt := &survey.Password{Message: "Password (min 8 characters):"}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read password: %v", err)
		return fmt.Errorf("input failed")
	}

	apiClient, err := client.NewAPIClient(registerServer, "")
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Connecting to %s...", registerServer)

	user, err := apiClient.Register(ctx, registerEmail, registerUsername, password)
	if err != nil {
		ui.PrintErrorBox("Registration Failed", err.Error())
		return fmt.Errorf("registration failed")
	}

	successContent := fmt.Sprintf(`Username:  %s
Email:     %s
Credits:   %d`,
		user.Username,
		user.Email,
		user.Credits,
	)
	ui.PrintSuccessBox("✓ Account Created", successContent)

	fmt.Println()
	ui.PrintInfo("Run 'routixctl login' to authenticate.")

	return nil
}
