package mocks

import (
	"context"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// MockAssistantClient is a mock implementation of domain.AssistantClient
type MockAssistantClient struct {
	AnalyzeIntentFunc func(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error)
}

// AnalyzeIntent mocks the AnalyzeIntent method
func (m *MockAssistantClient) AnalyzeIntent(ctx context.Context, content string, history []*entity.Message) (*domain.IntentAnalysis, error) {
	if m.AnalyzeIntentFunc != nil {
		return m.AnalyzeIntentFunc(ctx, content, history)
	}
	return &domain.IntentAnalysis{Reply: "ok"}, nil
}

// MockThumbnailGenerator is a mock implementation of domain.ThumbnailGenerator
type MockThumbnailGenerator struct {
	GenerateFunc func(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error)
}

// Generate mocks the Generate method
func (m *MockThumbnailGenerator) Generate(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, gen, algo)
	}
	return "/static/results/" + gen.ID + ".png", map[string]any{"width": 1280, "height": 720}, nil
}
