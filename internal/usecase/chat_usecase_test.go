package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/domain/mocks"
)

// fakeGenerationUsecase lets chat tests observe generation starts
// without pulling in the whole billing stack.
type fakeGenerationUsecase struct {
	domain.GenerationUsecase
	started []*domain.GenerationRequest
	err     error
}

func (f *fakeGenerationUsecase) Start(ctx context.Context, req *domain.GenerationRequest) (*entity.Generation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, req)
	return &entity.Generation{
		ID:             "gen-1",
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Prompt:         req.Prompt,
		Status:         entity.StatusQueued,
	}, nil
}

func TestSendMessageStoresAndBroadcastsBothSides(t *testing.T) {
	var stored []*entity.Message
	convRepo := &mocks.MockConversationRepository{
		AddMessageFunc: func(ctx context.Context, msg *entity.Message) (*entity.Message, error) {
			out := *msg
			out.ID = "msg-" + out.Role
			stored = append(stored, &out)
			return &out, nil
		},
	}
	assistant := &mocks.MockAssistantClient{
		AnalyzeIntentFunc: func(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
			return &domain.IntentAnalysis{Reply: "sounds good"}, nil
		},
	}
	bc := &recordingBroadcaster{}

	uc := NewChatUsecase(convRepo, assistant, &fakeGenerationUsecase{}, bc, testLogger())

	res, err := uc.SendMessage(context.Background(), &domain.ChatRequest{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Content:        "hello there",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stored) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(stored))
	}
	if stored[0].Role != entity.RoleUser || stored[1].Role != entity.RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", stored[0].Role, stored[1].Role)
	}
	if res.Assistant.Content != "sounds good" {
		t.Fatalf("unexpected assistant reply: %q", res.Assistant.Content)
	}
	if len(bc.messages) != 2 {
		t.Fatalf("expected both messages broadcast, got %d", len(bc.messages))
	}
	if res.Generation != nil {
		t.Fatal("no generation expected for a plain chat message")
	}
}

func TestSendMessageStartsGenerationOnIntent(t *testing.T) {
	assistant := &mocks.MockAssistantClient{
		AnalyzeIntentFunc: func(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
			return &domain.IntentAnalysis{
				WantsGeneration: true,
				Prompt:          "neon gaming thumbnail",
				Style:           "premium",
				Reply:           "On it!",
			}, nil
		},
	}
	gens := &fakeGenerationUsecase{}

	uc := NewChatUsecase(&mocks.MockConversationRepository{}, assistant, gens, &recordingBroadcaster{}, testLogger())

	res, err := uc.SendMessage(context.Background(), &domain.ChatRequest{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Content:        "make me a thumbnail",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gens.started) != 1 {
		t.Fatalf("expected 1 generation start, got %d", len(gens.started))
	}
	if gens.started[0].Algorithm != "premium" {
		t.Fatalf("expected premium algorithm, got %s", gens.started[0].Algorithm)
	}
	if res.Generation == nil || res.Generation.ID != "gen-1" {
		t.Fatalf("generation missing from result: %+v", res.Generation)
	}
	if res.Assistant.Meta == nil || res.Assistant.Meta.GenerationID != "gen-1" {
		t.Fatalf("assistant message not linked to generation: %+v", res.Assistant.Meta)
	}
}

func TestSendMessageSurfacesInsufficientCredits(t *testing.T) {
	assistant := &mocks.MockAssistantClient{
		AnalyzeIntentFunc: func(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
			return &domain.IntentAnalysis{WantsGeneration: true, Prompt: "x", Reply: "On it!"}, nil
		},
	}
	gens := &fakeGenerationUsecase{err: domain.NewInsufficientCreditsError(3, 1)}

	uc := NewChatUsecase(&mocks.MockConversationRepository{}, assistant, gens, &recordingBroadcaster{}, testLogger())

	res, err := uc.SendMessage(context.Background(), &domain.ChatRequest{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Content:        "make me a thumbnail",
	})
	if err != nil {
		t.Fatalf("chat must not fail when the generation cannot start: %v", err)
	}
	if res.Generation != nil {
		t.Fatal("no generation should be attached")
	}
	if !strings.Contains(res.Assistant.Content, "insufficient credits") {
		t.Fatalf("reply does not explain the failure: %q", res.Assistant.Content)
	}
}

func TestSendMessageTitlesNewConversation(t *testing.T) {
	var titled *string
	convRepo := &mocks.MockConversationRepository{
		UpdateConversationFunc: func(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error) {
			titled = title
			return &entity.Conversation{ID: conversationID, UserID: userID, Title: *title}, nil
		},
	}

	uc := NewChatUsecase(convRepo, &mocks.MockAssistantClient{}, &fakeGenerationUsecase{}, &recordingBroadcaster{}, testLogger())

	long := strings.Repeat("thumbnail ideas ", 10)
	res, err := uc.SendMessage(context.Background(), &domain.ChatRequest{
		UserID:  "user-1",
		Content: long,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if titled == nil {
		t.Fatal("new conversation was not titled from the first message")
	}
	if !strings.HasSuffix(*titled, "...") {
		t.Fatalf("long title not truncated: %q", *titled)
	}
	if got := len([]rune(strings.TrimSuffix(*titled, "..."))); got != 50 {
		t.Fatalf("expected 50-rune title prefix, got %d", got)
	}
	if res.Conversation.Title != *titled {
		t.Fatalf("result conversation has stale title %q", res.Conversation.Title)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	uc := NewChatUsecase(&mocks.MockConversationRepository{}, &mocks.MockAssistantClient{}, &fakeGenerationUsecase{}, &recordingBroadcaster{}, testLogger())

	_, err := uc.SendMessage(context.Background(), &domain.ChatRequest{
		UserID:  "user-1",
		Content: "   ",
	})
	if err == nil || !domain.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestTitleFromMessageShortContentKeptWhole(t *testing.T) {
	if got := entity.TitleFromMessage("short title"); got != "short title" {
		t.Fatalf("short content must be kept as-is, got %q", got)
	}
}
