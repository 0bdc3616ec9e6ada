package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/routinnet/routix-platform-ai/internal/config"
	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

const systemPrompt = `You are the assistant of a thumbnail generation platform.
Given the user's latest message and the conversation so far, decide whether the
user is asking for a thumbnail to be generated. Respond with a single JSON
object, no markdown, with these fields:
  "wants_generation": boolean,
  "prompt": string (the image prompt to use, empty if not generating),
  "style": string (one of "basic", "premium", "pro", empty for default),
  "reply": string (your conversational reply to the user)`

// client drives intent analysis through the OpenAI chat API.
type client struct {
	api    openai.Client
	model  string
	logger *slog.Logger
}

// NewClient builds the assistant backed by the OpenAI API. With no API
// key configured it falls back to keyword matching so the platform
// stays usable in development.
func NewClient(cfg config.AssistantConfig, logger *slog.Logger) domain.AssistantClient {
	if cfg.APIKey == "" {
		logger.Warn("assistant api key not configured, using keyword fallback")
		return &keywordClient{logger: logger}
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		api:    openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

func (c *client) AnalyzeIntent(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		if m.Role == entity.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(content))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed struct {
		WantsGeneration bool   `json:"wants_generation"`
		Prompt          string `json:"prompt"`
		Style           string `json:"style"`
		Reply           string `json:"reply"`
	}
	if err := sonic.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Warn("assistant returned non-json payload, treating as plain reply", "error", err)
		return &domain.IntentAnalysis{Reply: raw}, nil
	}

	return &domain.IntentAnalysis{
		WantsGeneration: parsed.WantsGeneration,
		Prompt:          parsed.Prompt,
		Style:           parsed.Style,
		Reply:           parsed.Reply,
	}, nil
}

// keywordClient is the offline fallback. It looks for generation verbs
// in the message instead of calling a model.
type keywordClient struct {
	logger *slog.Logger
}

var generationKeywords = []string{
	"generate", "create", "make", "design", "draw", "thumbnail",
}

func (c *keywordClient) AnalyzeIntent(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
	lower := strings.ToLower(content)
	for _, kw := range generationKeywords {
		if strings.Contains(lower, kw) {
			return &domain.IntentAnalysis{
				WantsGeneration: true,
				Prompt:          content,
				Reply:           "Starting a thumbnail generation for you.",
			}, nil
		}
	}
	return &domain.IntentAnalysis{
		Reply: "Tell me what kind of thumbnail you need and I will generate it.",
	}, nil
}
