package events

import (
	"time"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// EventType identifies a processing event.
type EventType string

const (
	EventTicketProcessed EventType = "ticket.processed"
	EventBatchCompleted  EventType = "batch.completed"
)

// Event is the envelope published on the dispatcher.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// TicketProcessedPayload accompanies EventTicketProcessed.
type TicketProcessedPayload struct {
	BatchID string
	Mode    domain.Mode
	Result  domain.ProcessingResult
}

// BatchCompletedPayload accompanies EventBatchCompleted.
type BatchCompletedPayload struct {
	Mode   domain.Mode
	Result domain.BatchResult
}
