package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

// conversationsCmd lists and manages conversations
var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "list your conversations",
	Long: `List your conversations with message counts and last activity.

Use the subcommands to create or delete a conversation.`,
	Example: `  # List conversations
  $ routixctl conversations

  # Create a new conversation
  $ routixctl conversations create "Gaming channel thumbnails"

  # Delete a conversation
  $ routixctl conversations delete <id>`,
	Args: cobra.NoArgs,
	RunE: runListConversations,
}

var conversationsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "create a new conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreateConversation,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a conversation and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteConversation,
}

func init() {
	conversationsCmd.AddCommand(conversationsCreateCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)

	conversationsCmd.SilenceUsage = true
	conversationsCreateCmd.SilenceUsage = true
	conversationsDeleteCmd.SilenceUsage = true
}

func runListConversations(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	conversations, err := apiClient.ListConversations(ctx)
	if err != nil {
		ui.PrintError("failed to list conversations: %v", err)
		return fmt.Errorf("list operation failed")
	}

	if len(conversations) == 0 {
		ui.PrintInfo("No conversations yet. Run 'routixctl chat' to start one.")
		return nil
	}

	fmt.Println()
	ui.PrintBold("%-36s  %-30s  %8s  %s", "ID", "TITLE", "MESSAGES", "LAST ACTIVITY")
	for _, conv := range conversations {
		title := conv.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Printf("%-36s  %-30s  %8d  %s\n", conv.ID, title, conv.MessageCount, formatTimestamp(conv.LastMessageAt))
	}
	fmt.Println()
	ui.PrintInfo("%d conversation(s)", len(conversations))

	return nil
}

func runCreateConversation(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	conv, err := apiClient.CreateConversation(ctx, title)
	if err != nil {
		ui.PrintError("failed to create conversation: %v", err)
		return fmt.Errorf("create operation failed")
	}

	ui.PrintSuccess("created conversation %s (%s)", conv.Title, conv.ID)
	return nil
}

func runDeleteConversation(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	if err := apiClient.DeleteConversation(ctx, args[0]); err != nil {
		ui.PrintError("failed to delete conversation: %v", err)
		return fmt.Errorf("delete operation failed")
	}

	ui.PrintSuccess("deleted conversation %s", args[0])
	return nil
}
