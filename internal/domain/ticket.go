package domain

// Priority enumerates ticket severity levels using the tracker's labels.
type Priority string

const (
	PriorityCritical Priority = "P1(Critical)"
	PriorityHigh     Priority = "P2(High)"
	PriorityMedium   Priority = "P3(Medium)"
	PriorityLow      Priority = "P4(Low)"
	PriorityTrivial  Priority = "P5(Trivial)"
)

var knownPriorities = map[Priority]struct{}{
	PriorityCritical: {},
	PriorityHigh:     {},
	PriorityMedium:   {},
	PriorityLow:      {},
	PriorityTrivial:  {},
}

// Valid reports whether p is a known severity level.
func (p Priority) Valid() bool {
	_, ok := knownPriorities[p]
	return ok
}

// Downgrade returns the severity one step below p. The lowest level and
// unknown values are returned unchanged.
func (p Priority) Downgrade() Priority {
	switch p {
	case PriorityCritical:
		return PriorityHigh
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	case PriorityLow:
		return PriorityTrivial
	default:
		return p
	}
}

// TicketStatus enumerates the tracker states the engine cares about.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusInProgress TicketStatus = "In Progress"
)

// Ticket is the engine's read model of a tracker issue. The tracker owns the
// ticket; the engine only writes back priority, assignee and appended notes.
type Ticket struct {
	ID          int
	Subject     string
	Description string
	Priority    Priority
	Environment string
	ProjectTag  string
	Status      TicketStatus
}
