package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "routixctl",
	Short:   "Routix thumbnail platform CLI",
	Version: version,
	Long: `A command-line tool for the Routix AI thumbnail platform. Provides interactive
chat with live generation progress, conversation management, and credit
accounting from your terminal.`,
	Example: `  # Create an account
  $ routixctl register -s http://localhost:8080

  # Authenticate with the API server
  $ routixctl login -s http://localhost:8080 -e you@example.com

  # List your conversations
  $ routixctl conversations

  # Start interactive chat
  $ routixctl chat

  # Check your credit balance
  $ routixctl credits balance

  # Get help on a specific command
  $ routixctl generations --help`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(generationsCmd)
	rootCmd.AddCommand(creditsCmd)
	rootCmd.AddCommand(chatCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("routixctl version %s\n", version)
}
