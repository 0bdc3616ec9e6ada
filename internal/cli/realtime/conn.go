package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by Send when no socket is live.
var ErrNotConnected = errors.New("realtime: not connected")

// Socket is one live duplex connection.
type Socket interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Dialer opens a socket to the given URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Socket, error)
}

// DialFunc adapts a function to the Dialer interface.
type DialFunc func(ctx context.Context, url string) (Socket, error)

func (f DialFunc) Dial(ctx context.Context, url string) (Socket, error) { return f(ctx, url) }

// NewDialer returns a websocket dialer for ws:// and wss:// URLs.
func NewDialer() Dialer {
	return DialFunc(func(ctx context.Context, url string) (Socket, error) {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

const defaultRetryDelay = 2 * time.Second

// Manager keeps one live connection per open conversation. It opens
// the socket once both the conversation ID and the auth token are set,
// drops and redials when the conversation changes, and retries once
// after an unexpected close. Reconnect is safe to call at any time.
type Manager struct {
	dialer     Dialer
	urlFor     func(conversationID, token string) string
	onEvent    func(Event)
	retryDelay time.Duration

	mu             sync.Mutex
	conversationID string
	token          string
	sock           Socket
	connected      bool
	lastErr        error
	session        int
	closed         bool
}

// NewManager builds a connection manager. urlFor turns a conversation
// ID and token into the socket URL; onEvent receives every inbound
// frame and may be nil.
func NewManager(dialer Dialer, urlFor func(conversationID, token string) string, onEvent func(Event)) *Manager {
	return &Manager{
		dialer:     dialer,
		urlFor:     urlFor,
		onEvent:    onEvent,
		retryDelay: defaultRetryDelay,
	}
}

// SetRetryDelay overrides the delay before the automatic redial.
func (m *Manager) SetRetryDelay(d time.Duration) {
	m.mu.Lock()
	m.retryDelay = d
	m.mu.Unlock()
}

// SetAuth stores the token and opens the connection if a conversation
// is already selected.
func (m *Manager) SetAuth(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.Reconnect()
}

// SetConversation switches the active conversation. The old socket is
// closed and a new one is opened for the new ID.
func (m *Manager) SetConversation(conversationID string) {
	m.mu.Lock()
	if m.conversationID == conversationID {
		m.mu.Unlock()
		return
	}
	m.conversationID = conversationID
	m.session++
	sock := m.sock
	m.sock = nil
	m.connected = false
	m.lastErr = nil
	m.mu.Unlock()

	if sock != nil {
		sock.Close()
	}
	m.Reconnect()
}

// IsConnected reports whether the socket is currently live.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// LastError returns the most recent connection error, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Send writes one outbound frame to the live socket.
func (m *Manager) Send(v any) error {
	m.mu.Lock()
	sock := m.sock
	m.mu.Unlock()
	if sock == nil {
		return ErrNotConnected
	}
	return sock.WriteJSON(v)
}

// Reconnect opens the connection if it is currently down and both the
// conversation ID and token are present. Calling it while connected or
// closed is a no-op.
func (m *Manager) Reconnect() {
	m.mu.Lock()
	if m.closed || m.connected || m.conversationID == "" || m.token == "" {
		m.mu.Unlock()
		return
	}
	convID, token, session := m.conversationID, m.token, m.session
	m.mu.Unlock()

	m.open(convID, token, session)
}

// Close shuts the manager down permanently.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.session++
	sock := m.sock
	m.sock = nil
	m.connected = false
	m.mu.Unlock()

	if sock != nil {
		sock.Close()
	}
}

func (m *Manager) open(conversationID, token string, session int) {
	sock, err := m.dialer.Dial(context.Background(), m.urlFor(conversationID, token))

	m.mu.Lock()
	if m.closed || m.session != session || m.connected {
		m.mu.Unlock()
		if err == nil {
			sock.Close()
		}
		return
	}
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()
		return
	}
	m.sock = sock
	m.connected = true
	m.lastErr = nil
	m.mu.Unlock()

	go m.readLoop(sock, session)
}

// readLoop consumes frames until the socket dies. An unexpected close
// marks the manager disconnected and schedules one redial.
func (m *Manager) readLoop(sock Socket, session int) {
	for {
		var ev Event
		if err := sock.ReadJSON(&ev); err != nil {
			m.mu.Lock()
			stale := m.closed || m.session != session
			delay := m.retryDelay
			if !stale {
				m.connected = false
				m.lastErr = err
				m.sock = nil
			}
			m.mu.Unlock()

			sock.Close()
			if !stale {
				time.AfterFunc(delay, m.Reconnect)
			}
			return
		}

		if m.onEvent != nil {
			m.onEvent(ev)
		}
	}
}
