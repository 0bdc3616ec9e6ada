package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/client"
	"github.com/routinnet/routix-platform-ai/internal/cli/config"
	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

var (
	loginServer string
	loginEmail  string
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "authenticate with the Routix API server",
	Long: `Authenticate with the Routix API server and save credentials locally.

Your authentication token will be stored in ~/.routixctl/config.json and used
automatically for all subsequent commands. The token remains valid until
it expires or you login again.`,
	Example: `  # Login to default server (localhost:8080)
  $ routixctl login

  # Login to custom server
  $ routixctl login -s http://api.example.com:8080

  # Login with email (will prompt for password)
  $ routixctl login -e you@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginServer, "server", "s", "http://localhost:8080", "API server address")
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email for authentication")

	// Silence usage to avoid showing help on every error
	loginCmd.SilenceUsage = true
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Prompt for email if not provided
	if loginEmail == "" {
		prompt := &survey.Input{
			Message: "Email:",
		}
		if err := survey.AskOne(prompt, &loginEmail, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read email: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	// 2. Prompt for password (hidden input)
	var password string
	prompt := &survey.Password{
		Message: "Password:",
	}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read password: %v", err)
		return fmt.Errorf("input failed")
	}

	// 3. Create API client
	apiClient, err := client.NewAPIClient(loginServer, "")
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Connecting to %s...", loginServer)

	// 4. Call login API
	data, err := apiClient.Login(ctx, loginEmail, password)
	if err != nil {
		ui.PrintErrorBox("Login Failed", err.Error())
		return fmt.Errorf("authentication failed")
	}

	// 5. Save config to local file
	cfg := &config.Config{
		Server:      loginServer,
		AccessToken: data.Token,
		Email:       data.User.Email,
		Username:    data.User.Username,
		UserID:      data.User.ID,
	}

	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	// 6. Display success message
	configPath, _ := config.GetConfigPath()
	successContent := fmt.Sprintf(`Username:       %s
Credits:        %d
Token expires:  %s
Config saved:   %s`,
		data.User.Username,
		data.User.Credits,
		data.Expire,
		configPath,
	)

	ui.PrintSuccessBox("✓ Login Successful", successContent)

	// 7. Display usage hints
	fmt.Println()
	ui.PrintInfo("You can now use the following commands:")
	ui.PrintBold("  routixctl chat             # Start interactive chat")
	ui.PrintBold("  routixctl conversations    # List your conversations")
	ui.PrintBold("  routixctl credits balance  # Check your credit balance")

	return nil
}
