package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/routinnet/routix-platform-ai/internal/cli/client"
	"github.com/routinnet/routix-platform-ai/internal/cli/realtime"
	"github.com/routinnet/routix-platform-ai/internal/cli/types"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
	conversationIDDisplay = 8
	eventBufferSize       = 64
)

// Style definitions
var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program for one conversation. The
// history seeds the message list before any socket event arrives.
func NewChatProgram(apiClient *client.APIClient, conversationID string, history []types.Message) *ChatProgram {
	return &ChatProgram{model: initialModel(apiClient, conversationID, history)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	p.model.conn.Close()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	// Dependencies
	apiClient      *client.APIClient
	conversationID string

	// Realtime plumbing
	conn      *realtime.Manager
	events    chan realtime.Event
	messages  *realtime.Synchronizer
	projector *realtime.Projector
	typing    *realtime.TypingEmitter

	// UI components
	input       textinput.Model
	contentView viewport.Model

	// Transient state
	peerTyping bool
	err        error

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(apiClient *client.APIClient, conversationID string, history []types.Message) chatModel {
	input := textinput.New()
	input.Placeholder = ""
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	events := make(chan realtime.Event, eventBufferSize)
	conn := realtime.NewManager(realtime.NewDialer(),
		func(convID, _ string) string { return apiClient.SocketURL(convID) },
		func(ev realtime.Event) {
			select {
			case events <- ev:
			default:
				// UI is falling behind; drop rather than block the reader.
			}
		})

	messages := realtime.NewSynchronizer()
	messages.Seed(history)

	m := chatModel{
		apiClient:      apiClient,
		conversationID: conversationID,
		conn:           conn,
		events:         events,
		messages:       messages,
		projector:      realtime.NewProjector(nil),
		input:          input,
		contentView:    contentViewport,
		width:          defaultWindowWidth,
		height:         defaultWindowHeight,
	}
	m.typing = realtime.NewTypingEmitter(func(isTyping bool) error {
		return conn.Send(realtime.Outbound{Type: realtime.OutboundTyping, IsTyping: isTyping})
	}, 0)

	conn.SetAuth(apiClient.Token())
	conn.SetConversation(conversationID)

	return m
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

// Message type definitions
type wsEventMsg struct{ ev realtime.Event }

// waitForEvent blocks on the next socket event
func waitForEvent(events <-chan realtime.Event) tea.Cmd {
	return func() tea.Msg {
		return wsEventMsg{ev: <-events}
	}
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case wsEventMsg:
		m.handleEvent(msg.ev)
		cmds = append(cmds, waitForEvent(m.events))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text != "" {
			m.sendMessage(text)
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()

	default:
		// Every other keystroke signals typing; the emitter throttles.
		m.typing.SetTyping(true)
	}

	return cmds
}

// sendMessage submits the prompt over the socket. The server stores
// both sides of the exchange and pushes them back as message events,
// so nothing is appended locally.
func (m *chatModel) sendMessage(text string) {
	m.input.Reset()
	m.err = nil

	err := m.conn.Send(realtime.Outbound{Type: realtime.OutboundChat, Content: text})
	if err != nil {
		m.err = fmt.Errorf("not connected: %w", err)
		m.conn.Reconnect()
	}
	m.refreshContent()
}

// handleEvent folds one socket event into the model
func (m *chatModel) handleEvent(ev realtime.Event) {
	switch ev.Type {
	case realtime.EventMessage:
		if msg, err := ev.Message(); err == nil {
			m.messages.Apply(msg)
		}

	case realtime.EventTyping:
		if p, err := ev.Typing(); err == nil {
			m.peerTyping = p.IsTyping
		}

	case realtime.EventProcessing:
		if p, err := ev.Processing(); err == nil {
			m.projector.ApplyProcessing(p)
		}

	case realtime.EventError:
		m.err = fmt.Errorf("%s", ev.ErrorMessage())
		m.projector.ApplyError(ev.ErrorMessage())
	}

	m.refreshContent()
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent rebuilds the transcript from the synchronized list
func (m *chatModel) refreshContent() {
	var b strings.Builder

	for _, msg := range m.messages.Messages() {
		b.WriteString("\n")
		if msg.Role == "user" {
			b.WriteString(boldStyle.Render("You"))
		} else {
			b.WriteString(accentStyle.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	if m.projector.IsProcessing() {
		status, progress, _ := m.projector.Status()
		if text := m.projector.StatusText(); text != "" {
			status = text
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("⏳ generating thumbnail... %s (%d%%)", status, progress)))
		b.WriteString("\n")
	} else if _, _, resultURL := m.projector.Status(); resultURL != "" {
		b.WriteString("\n")
		b.WriteString(accentStyle.Render("🖼  " + m.apiClient.Server() + resultURL))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
	}

	display := b.String()
	if m.width > 0 {
		display = wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// wrapText applies auto-wrapping to text, handling wide runes
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of text, handling wide runes
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	id := m.conversationID
	if len(id) > conversationIDDisplay {
		id = id[:conversationIDDisplay]
	}
	status := dimStyle.Render(fmt.Sprintf("conversation %s", id))
	if m.conn.IsConnected() {
		status += accentStyle.Render(" • connected")
	} else {
		status += errorStyle.Render(" • offline")
	}
	if m.projector.IsProcessing() {
		status += dimStyle.Render(" • generating...")
	}
	if m.peerTyping {
		status += dimStyle.Render(" • assistant is typing...")
	}

	content := m.contentView.View()

	inputView := promptStyle.Render("> ") + m.input.View()

	help := dimStyle.Render("Enter send • ↑↓ scroll • Esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, status, "", content, "", inputView, help)
}
