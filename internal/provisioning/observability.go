package provisioning

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"
)

// Logger is the minimal printf-style logging interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Status writes a severity-tagged status line
	Status(severity Severity, format string, v ...any)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Severity tags a status line.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = " OK "
	SeverityWarning Severity = "WARN"
	SeverityFailure Severity = "FAIL"
)

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "resources", "vault")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"

	EventResourceCreating EventType = "resource.creating"
	EventResourceCreated  EventType = "resource.created"
	EventResourceFailed   EventType = "resource.failed"
	EventResourceDeleting EventType = "resource.deleting"

	EventWarning  EventType = "warning"
	EventProgress EventType = "progress"
)

// severityOf maps an event type to the status tag it is printed with.
func severityOf(t EventType) Severity {
	switch t {
	case EventPhaseCompleted, EventResourceCreated:
		return SeveritySuccess
	case EventPhaseFailed, EventResourceFailed:
		return SeverityFailure
	case EventWarning:
		return SeverityWarning
	}
	return SeverityInfo
}

var (
	tagStyles = map[Severity]lipgloss.Style{
		SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
		SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		SeverityFailure: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
	}
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// ConsoleObserver prints status lines to a writer and mirrors events to a
// structured logr.Logger. Tags are colored when the writer is a terminal.
type ConsoleObserver struct {
	out           io.Writer
	log           logr.Logger
	styled        bool
	contextFields map[string]string
}

// NewConsoleObserver creates an observer writing to out (stdout if nil).
func NewConsoleObserver(out io.Writer, log logr.Logger) *ConsoleObserver {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleObserver{
		out:           out,
		log:           log,
		styled:        IsTerminal(out),
		contextFields: make(map[string]string),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DefaultLogger returns a logr.Logger that writes to stderr at verbosity 0.
func DefaultLogger() logr.Logger {
	return NewLogger(os.Stderr, 0)
}

// NewLogger returns a funcr-backed logger writing one line per record to w.
// Records above verbosity are dropped.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	_, _ = fmt.Fprintln(o.out, fmt.Sprintf(format, v...))
}

// Status implements Observer.
func (o *ConsoleObserver) Status(severity Severity, format string, v ...any) {
	tag := "[" + string(severity) + "]"
	if o.styled {
		tag = tagStyles[severity].Render(tag)
	}
	_, _ = fmt.Fprintf(o.out, "%s %s\n", tag, fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	o.Status(severityOf(event.Type), "%s", o.formatEvent(event))

	kv := []any{"type", string(event.Type), "phase", event.Phase}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	for _, k := range sortedKeys(event.Fields) {
		kv = append(kv, k, event.Fields[k])
	}
	o.log.V(1).Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if total == 0 {
		o.Status(SeverityInfo, "[%s] Progress: %d/%d", phase, current, total)
		return
	}
	percentage := (current * 100) / total
	o.Status(SeverityInfo, "[%s] Progress: %d/%d (%d%%)", phase, current, total, percentage)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &ConsoleObserver{
		out:           o.out,
		log:           o.log,
		styled:        o.styled,
		contextFields: newFields,
	}
}

// formatEvent formats an event for console output.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, event.Resource+":")
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for _, k := range sortedKeys(event.Fields) {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		fields := fmt.Sprintf("(%s)", strings.Join(fieldParts, ", "))
		if o.styled {
			fields = dimStyle.Render(fields)
		}
		parts = append(parts, fields)
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s ready", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceFailed logs a failed resource operation.
func LogResourceFailed(observer Observer, phase, resourceType, resourceName string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s failed: %v", resourceType, err),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("deleting %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogWarning logs a non-fatal problem.
func LogWarning(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: message,
	})
}
