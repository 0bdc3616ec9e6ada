package realtime

import "sync"

// Projector folds "processing" events into two observable fields: a
// boolean busy flag and the latest status text. It applies the most
// recently received status as-is (last-write-wins, not max-wins) and
// treats any unrecognized status as terminal rather than crashing.
type Projector struct {
	onError func(message string)

	mu           sync.Mutex
	generationID string
	status       string
	statusText   string
	progress     int
	resultURL    string
	isProcessing bool
}

// NewProjector builds a projector. onError receives the text of error
// events and may be nil.
func NewProjector(onError func(message string)) *Projector {
	return &Projector{onError: onError}
}

// ApplyProcessing applies one status push.
func (p *Projector) ApplyProcessing(ev ProcessingPayload) {
	p.mu.Lock()
	p.generationID = ev.GenerationID
	p.status = ev.Status
	p.statusText = ev.Message
	p.progress = ev.Progress
	if ev.ResultURL != "" {
		p.resultURL = ev.ResultURL
	}
	p.isProcessing = ev.Status == "queued" || ev.Status == "processing"
	p.mu.Unlock()

	if ev.Error != "" && p.onError != nil {
		p.onError(ev.Error)
	}
}

// ApplyError stops the processing indicator and forwards the error.
func (p *Projector) ApplyError(message string) {
	p.mu.Lock()
	p.isProcessing = false
	p.mu.Unlock()

	if p.onError != nil {
		p.onError(message)
	}
}

// IsProcessing reports whether the latest status is queued or processing.
func (p *Projector) IsProcessing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProcessing
}

// Status returns the latest status string, progress and result URL.
func (p *Projector) Status() (status string, progress int, resultURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.progress, p.resultURL
}

// StatusText returns the human-readable line of the latest event,
// empty when the event carried none.
func (p *Projector) StatusText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusText
}

// GenerationID returns the job the latest status belongs to.
func (p *Projector) GenerationID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generationID
}

// Reset clears the projection, e.g. when the conversation changes.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generationID = ""
	p.status = ""
	p.statusText = ""
	p.progress = 0
	p.resultURL = ""
	p.isProcessing = false
}
