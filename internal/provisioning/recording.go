package provisioning

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingObserver keeps every line and event in memory. It is used by
// tests and by callers that render output themselves.
type RecordingObserver struct {
	mu     sync.Mutex
	lines  []string
	events []Event
	fields map[string]string
}

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{fields: make(map[string]string)}
}

// Printf implements Logger.
func (r *RecordingObserver) Printf(format string, v ...any) {
	r.add(fmt.Sprintf(format, v...))
}

// Status implements Observer.
func (r *RecordingObserver) Status(severity Severity, format string, v ...any) {
	r.add(fmt.Sprintf("[%s] %s", severity, fmt.Sprintf(format, v...)))
}

// Event implements Observer.
func (r *RecordingObserver) Event(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.Status(severityOf(event.Type), "%s", event.Message)
}

// Progress implements Observer.
func (r *RecordingObserver) Progress(phase string, current, total int) {
	r.Event(Event{Type: EventProgress, Phase: phase, Message: fmt.Sprintf("%d/%d", current, total)})
}

// WithFields implements Observer. The returned observer shares storage with r.
func (r *RecordingObserver) WithFields(map[string]string) Observer {
	return r
}

// Lines returns every recorded line.
func (r *RecordingObserver) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Events returns every recorded event.
func (r *RecordingObserver) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// HasStatus reports whether a line with the severity tag contains substr.
func (r *RecordingObserver) HasStatus(severity Severity, substr string) bool {
	prefix := "[" + string(severity) + "]"
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (r *RecordingObserver) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}
