package audit

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// EventOutcome represents the result of an audited event
type EventOutcome string

const (
	EventOutcomeSuccess EventOutcome = "SUCCESS"
	EventOutcomeFailure EventOutcome = "FAILURE"
)

// Severity represents the importance level of an audit event
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

const (
	EventSourceHTTP      = "http"
	EventTypeHTTPRequest = "http_request"
)

// Event is one audited change to the template silo or its snapshots
type Event struct {
	ID               int64                  `json:"id"`
	Timestamp        time.Time              `json:"timestamp"`
	EventSource      string                 `json:"eventSource"`
	SourceIP         string                 `json:"sourceIp"`
	EventType        string                 `json:"eventType"`
	EventOutcome     EventOutcome           `json:"eventOutcome"`
	AffectedResource string                 `json:"affectedResource"`
	RequestID        uuid.UUID              `json:"requestId"`
	Severity         Severity               `json:"severity"`
	Details          map[string]interface{} `json:"details"`
}

// Config holds the configuration for the audit service
type Config struct {
	// AsyncBufferSize is the size of the buffer for async logging
	AsyncBufferSize int
	// WorkerCount is the number of workers for async logging
	WorkerCount int
	// Retain is how many recent events are kept for the audit API
	Retain int
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		AsyncBufferSize: 1000,
		WorkerCount:     2,
		Retain:          500,
	}
}

// NewEvent creates a successful informational event
func NewEvent(source, eventType string) Event {
	return Event{
		Timestamp:    time.Now().UTC(),
		EventSource:  source,
		EventType:    eventType,
		EventOutcome: EventOutcomeSuccess,
		Severity:     SeverityInfo,
		Details:      make(map[string]interface{}),
	}
}

// NewHTTPEvent creates the event for a completed API request. 2xx and 3xx
// responses succeed; 4xx are warnings and 5xx critical failures.
func NewHTTPEvent(requestID uuid.UUID, status int) Event {
	event := NewEvent(EventSourceHTTP, EventTypeHTTPRequest)
	event.RequestID = requestID
	switch {
	case status >= http.StatusInternalServerError:
		event.EventOutcome = EventOutcomeFailure
		event.Severity = SeverityCritical
	case status >= http.StatusBadRequest:
		event.EventOutcome = EventOutcomeFailure
		event.Severity = SeverityWarning
	}
	return event
}
