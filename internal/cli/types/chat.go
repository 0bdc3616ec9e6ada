package types

// Conversation represents one chat thread
type Conversation struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	IsArchived    bool   `json:"is_archived"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
	CreatedAt     string `json:"created_at"`
}

// MessageMeta carries optional generation metadata on a message
type MessageMeta struct {
	RequiresGeneration bool   `json:"requires_generation,omitempty"`
	GenerationID       string `json:"generation_id,omitempty"`
	Kind               string `json:"kind,omitempty"`
}

// Message represents one chat message
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Role           string       `json:"role"`
	Content        string       `json:"content"`
	Attachments    []string     `json:"attachments,omitempty"`
	Meta           *MessageMeta `json:"meta,omitempty"`
	CreatedAt      string       `json:"created_at"`
}

// SendMessageRequest submits one chat message over HTTP
type SendMessageRequest struct {
	ConversationID string   `json:"conversation_id,omitempty"`
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments,omitempty"`
}

// ChatData is the result of one chat round trip
type ChatData struct {
	Conversation Conversation `json:"conversation"`
	UserMessage  Message      `json:"user_message"`
	Assistant    Message      `json:"assistant_message"`
	Generation   *Generation  `json:"generation,omitempty"`
}

// CreateConversationRequest opens a new thread
type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}
