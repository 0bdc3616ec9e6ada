package ws

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

type fakeSocket struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *fakeSocket) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev, ok := v.(Event); ok {
		s.events = append(s.events, ev)
	}
	return nil
}

func (s *fakeSocket) SetWriteDeadline(t time.Time) error { return nil }
func (s *fakeSocket) Ping() error                        { return nil }

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) written() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(slog.Default())

	s1 := &fakeSocket{}
	s2 := &fakeSocket{}
	c1 := hub.Attach("user-1", "conv-1", s1)
	c2 := hub.Attach("user-2", "conv-1", s2)
	defer hub.Detach(c1)
	defer hub.Detach(c2)

	msg := &entity.Message{
		ID:             "msg-1",
		ConversationID: "conv-1",
		Role:           entity.RoleAssistant,
		Content:        "hello",
		CreatedAt:      time.Now(),
	}
	hub.BroadcastMessage("conv-1", msg)

	waitFor(t, func() bool { return len(s1.written()) == 1 && len(s2.written()) == 1 })

	got := s1.written()[0]
	if got.Type != EventMessage {
		t.Fatalf("expected message event, got %s", got.Type)
	}
	payload, ok := got.Data.(*MessagePayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", got.Data)
	}
	if payload.ID != "msg-1" || payload.Content != "hello" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHubBroadcastScopedToConversation(t *testing.T) {
	hub := NewHub(slog.Default())

	s1 := &fakeSocket{}
	s2 := &fakeSocket{}
	c1 := hub.Attach("user-1", "conv-1", s1)
	c2 := hub.Attach("user-1", "conv-2", s2)
	defer hub.Detach(c1)
	defer hub.Detach(c2)

	hub.BroadcastProcessing("conv-1", &entity.Generation{
		ID:       "gen-1",
		Status:   entity.StatusProcessing,
		Progress: 30,
	})

	waitFor(t, func() bool { return len(s1.written()) == 1 })

	if len(s2.written()) != 0 {
		t.Fatalf("event leaked to other conversation: %+v", s2.written())
	}
}

func TestHubTypingSkipsAuthor(t *testing.T) {
	hub := NewHub(slog.Default())

	author := &fakeSocket{}
	other := &fakeSocket{}
	c1 := hub.Attach("user-1", "conv-1", author)
	c2 := hub.Attach("user-2", "conv-1", other)
	defer hub.Detach(c1)
	defer hub.Detach(c2)

	hub.BroadcastTyping("conv-1", "user-1", true)

	waitFor(t, func() bool { return len(other.written()) == 1 })

	if len(author.written()) != 0 {
		t.Fatal("typing event echoed back to its author")
	}
	payload := other.written()[0].Data.(*TypingPayload)
	if payload.UserID != "user-1" || !payload.IsTyping {
		t.Fatalf("unexpected typing payload: %+v", payload)
	}
}

func TestHubDetachClosesSocketAndNotifies(t *testing.T) {
	hub := NewHub(slog.Default())

	leaving := &fakeSocket{}
	staying := &fakeSocket{}
	c1 := hub.Attach("user-1", "conv-1", leaving)
	c2 := hub.Attach("user-2", "conv-1", staying)
	defer hub.Detach(c2)

	hub.Detach(c1)

	waitFor(t, func() bool {
		leaving.mu.Lock()
		closed := leaving.closed
		leaving.mu.Unlock()
		return closed
	})

	waitFor(t, func() bool { return len(staying.written()) == 1 })
	if staying.written()[0].Type != EventUserDisconnected {
		t.Fatalf("expected user_disconnected, got %s", staying.written()[0].Type)
	}
}

func TestHubSlowConsumerDoesNotBlock(t *testing.T) {
	hub := NewHub(slog.Default())

	s := &fakeSocket{}
	c := hub.Attach("user-1", "conv-1", s)
	// Stop the write loop so the buffer fills up.
	c.cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			hub.Broadcast("conv-1", Event{Type: EventPong})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow consumer")
	}
}
