package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/client"
	"github.com/routinnet/routix-platform-ai/internal/cli/tui"
	"github.com/routinnet/routix-platform-ai/internal/cli/types"
	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

var chatConversationID string

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start interactive chat with the thumbnail assistant",
	Long: `Start an interactive chat session with the Routix assistant.

The session runs over a live websocket: assistant replies, typing
indicators and thumbnail generation progress arrive as they happen.
Without --conversation you pick an existing conversation or start a
new one.`,
	Example: `  # Start interactive chat (pick or create a conversation)
  $ routixctl chat

  # Resume a specific conversation
  $ routixctl chat -c <conversation-id>

  # Keyboard controls:
  • Enter sends the message
  • Esc quits the session`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversationID, "conversation", "c", "", "Conversation ID to resume")

	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	conversationID := chatConversationID
	if conversationID == "" {
		conversationID, err = pickConversation(ctx, apiClient)
		if err != nil {
			return err
		}
	}

	// Seed the transcript before the socket opens.
	history, err := apiClient.ListMessages(ctx, conversationID)
	if err != nil {
		ui.PrintError("failed to load messages: %v", err)
		return fmt.Errorf("message load failed")
	}

	program := tui.NewChatProgram(apiClient, conversationID, history)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}

// pickConversation lets the user resume an existing thread or start a
// fresh one.
func pickConversation(ctx context.Context, apiClient *client.APIClient) (string, error) {
	conversations, err := apiClient.ListConversations(ctx)
	if err != nil {
		ui.PrintError("failed to list conversations: %v", err)
		return "", fmt.Errorf("list operation failed")
	}

	const newConversation = "+ New conversation"
	options := []string{newConversation}
	byLabel := make(map[string]types.Conversation, len(conversations))
	for _, conv := range conversations {
		label := fmt.Sprintf("%s (%d messages)", conv.Title, conv.MessageCount)
		options = append(options, label)
		byLabel[label] = conv
	}

	var choice string
	prompt := &survey.Select{
		Message: "Conversation:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		ui.PrintError("failed to read selection: %v", err)
		return "", fmt.Errorf("input failed")
	}

	if choice == newConversation {
		conv, err := apiClient.CreateConversation(ctx, "")
		if err != nil {
			ui.PrintError("failed to create conversation: %v", err)
			return "", fmt.Errorf("create operation failed")
		}
		return conv.ID, nil
	}

	return byLabel[choice].ID, nil
}
