package realtime

import (
	"sync"

	"github.com/routinnet/routix-platform-ai/internal/cli/types"
)

// Synchronizer maintains the ordered, deduplicated message list for
// the active conversation. The initial page comes from a REST fetch
// via Seed; socket pushes arrive through Apply. Duplicate IDs are
// discarded silently, so replays after a reconnect are harmless.
type Synchronizer struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	messages []types.Message
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{seen: map[string]struct{}{}}
}

// Seed replaces the list with the fetched history. Duplicates within
// the seed itself are also dropped.
func (s *Synchronizer) Seed(msgs []types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = make(map[string]struct{}, len(msgs))
	s.messages = s.messages[:0]
	for _, msg := range msgs {
		s.appendLocked(msg)
	}
}

// Apply appends one pushed message unless its ID is already present.
// It reports whether the message was inserted.
func (s *Synchronizer) Apply(msg types.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(msg)
}

// Reset clears the list, e.g. when the conversation changes.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = map[string]struct{}{}
	s.messages = nil
}

// Messages returns a copy of the current list in arrival order.
func (s *Synchronizer) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of distinct messages.
func (s *Synchronizer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Synchronizer) appendLocked(msg types.Message) bool {
	if _, dup := s.seen[msg.ID]; dup {
		return false
	}
	s.seen[msg.ID] = struct{}{}
	s.messages = append(s.messages, msg)
	return true
}
