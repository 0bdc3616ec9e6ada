package realtime

import (
	"sync"
	"time"
)

const defaultTypingInterval = 2 * time.Second

// TypingEmitter sends outbound typing signals without flooding the
// connection: at most one emission per interval, no matter how many
// keystrokes arrive inside the window.
type TypingEmitter struct {
	send     func(isTyping bool) error
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent time.Time
}

// NewTypingEmitter builds an emitter around a send function. A zero
// interval falls back to the default.
func NewTypingEmitter(send func(isTyping bool) error, interval time.Duration) *TypingEmitter {
	if interval <= 0 {
		interval = defaultTypingInterval
	}
	return &TypingEmitter{
		send:     send,
		interval: interval,
		now:      time.Now,
	}
}

// SetTyping emits the typing state unless an emission already happened
// inside the current throttle window.
func (e *TypingEmitter) SetTyping(isTyping bool) error {
	e.mu.Lock()
	now := e.now()
	if now.Sub(e.lastSent) < e.interval {
		e.mu.Unlock()
		return nil
	}
	e.lastSent = now
	e.mu.Unlock()

	return e.send(isTyping)
}
