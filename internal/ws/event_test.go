package ws

import (
	"testing"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

func TestProcessingEventCarriesMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      entity.GenerationStatus
		progress    int
		wantMessage string
	}{
		{"queued", entity.StatusQueued, 0, "waiting in queue"},
		{"analyzing", entity.StatusProcessing, 10, "analyzing prompt"},
		{"matching", entity.StatusProcessing, 30, "matching template"},
		{"generating", entity.StatusProcessing, 60, "generating image"},
		{"saving", entity.StatusProcessing, 90, "saving result"},
		{"completed", entity.StatusCompleted, 100, "generation complete"},
		{"failed", entity.StatusFailed, 60, "generation failed"},
		{"cancelled", entity.StatusCancelled, 30, "generation cancelled"},
		{"unknown status passes through", entity.GenerationStatus("archived"), 0, "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewProcessingEvent(&entity.Generation{
				ID:       "gen-1",
				Status:   tt.status,
				Progress: tt.progress,
			})
			payload, ok := ev.Data.(*ProcessingPayload)
			if !ok {
				t.Fatalf("unexpected payload type %T", ev.Data)
			}
			if payload.Message != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, payload.Message)
			}
			if payload.Status != string(tt.status) {
				t.Fatalf("expected status %q, got %q", tt.status, payload.Status)
			}
		})
	}
}
