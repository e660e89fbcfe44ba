package tracker

import (
	"context"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// Redmine status ids used by the engine.
const (
	StatusIDNew        = 1
	StatusIDInProgress = 2
)

// priorityIDs maps severity labels to tracker priority ids.
var priorityIDs = map[domain.Priority]int{
	domain.PriorityCritical: 4,
	domain.PriorityHigh:     5,
	domain.PriorityMedium:   3,
	domain.PriorityLow:      2,
	domain.PriorityTrivial:  1,
}

// PriorityID returns the tracker priority id for a severity label, zero when
// unknown.
func PriorityID(p domain.Priority) int {
	return priorityIDs[p]
}

// TicketUpdate captures the single mutation written back after processing.
type TicketUpdate struct {
	TicketID   int
	PriorityID int
	AssigneeID int
	StatusID   int
	Notes      string
}

// TicketStore is the shared capability both the live tracker client and the
// sandbox mirror satisfy. The orchestrator and snapshot provider address
// whichever implementation the mode controller hands them, and nothing else
// knows which one is active.
type TicketStore interface {
	// FetchNewTickets returns new, unassigned tickets for the team.
	FetchNewTickets(ctx context.Context) ([]domain.Ticket, error)
	// InProgressCounts returns open in-progress ticket counts per roster
	// member id. Members with no open tickets may be absent.
	InProgressCounts(ctx context.Context) (map[int]int, error)
	// UpdateTicket persists priority, assignee, status and an appended note.
	UpdateTicket(ctx context.Context, update TicketUpdate) error
	// TicketURL returns the external reference for a ticket.
	TicketURL(ticketID int) string
	// Ping probes store reachability.
	Ping(ctx context.Context) error
}
