package entity

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a titled thread of chat messages owned by one user.
type Conversation struct {
	ID            string
	UserID        string
	Title         string
	IsArchived    bool
	MessageCount  int
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const titleMaxLen = 50

// TitleFromMessage derives a conversation title from the first user
// message: the first 50 characters, with an ellipsis when truncated.
func TitleFromMessage(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}

// MessageMeta is the decoded form of a message's metadata blob. It is
// parsed once at the data-access boundary; rendering code never touches
// raw JSON.
type MessageMeta struct {
	RequiresGeneration bool   `json:"requires_generation,omitempty"`
	GenerationID       string `json:"generation_id,omitempty"`
	Analysis           bool   `json:"analysis,omitempty"`
	Kind               string `json:"type,omitempty"`
}

// Message is one immutable entry in a conversation.
type Message struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	Attachments    []string
	Meta           *MessageMeta
	CreatedAt      time.Time
}

// IsUser reports whether the message was authored by the account owner.
func (m *Message) IsUser() bool { return m.Role == RoleUser }
