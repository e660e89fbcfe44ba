package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// Sandbox is the in-memory TicketStore used in test mode. It mirrors the
// live tracker contract over seeded fixtures so the whole pipeline can run
// without touching the real system of record.
type Sandbox struct {
	mu      sync.RWMutex
	baseURL string
	tickets map[int]*domain.Ticket
	order   []int
	loads   map[int]int
	updates []TicketUpdate
}

// NewSandbox builds a sandbox seeded with the canonical fixtures.
func NewSandbox(baseURL string) *Sandbox {
	s := &Sandbox{baseURL: baseURL}
	s.Reseed()
	return s
}

// Reseed restores the canonical fixture set so repeated test runs are
// reproducible. Called on construction and whenever test mode is re-enabled.
func (s *Sandbox) Reseed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := []domain.Ticket{
		{
			ID:          99991,
			Subject:     "Production database connection timeout",
			Description: "Users unable to login - production database showing connection timeouts",
			Priority:    domain.PriorityCritical,
			Environment: "prod",
			ProjectTag:  "AUTH-SERVICE",
			Status:      domain.TicketStatusNew,
		},
		{
			ID:          99992,
			Subject:     "Development environment deployment failing",
			Description: "CI/CD pipeline failing on dev environment - need assistance",
			Priority:    domain.PriorityCritical,
			Environment: "dev",
			ProjectTag:  "PAYMENT-SERVICE",
			Status:      domain.TicketStatusNew,
		},
	}

	s.tickets = make(map[int]*domain.Ticket, len(seed))
	s.order = s.order[:0]
	for i := range seed {
		ticket := seed[i]
		s.tickets[ticket.ID] = &ticket
		s.order = append(s.order, ticket.ID)
	}
	s.loads = map[int]int{
		1239: 1, 1330: 3, 1329: 0, 1328: 4, 1327: 2,
		1155: 1, 1795: 3, 21: 5, 155: 3, 11: 2, 10: 4,
	}
	s.updates = nil
}

// FetchNewTickets returns copies of tickets still in the new state.
func (s *Sandbox) FetchNewTickets(_ context.Context) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tickets []domain.Ticket
	for _, id := range s.order {
		if ticket := s.tickets[id]; ticket.Status == domain.TicketStatusNew {
			tickets = append(tickets, *ticket)
		}
	}
	return tickets, nil
}

// InProgressCounts returns a copy of the simulated per-member workloads.
func (s *Sandbox) InProgressCounts(_ context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int, len(s.loads))
	for id, load := range s.loads {
		counts[id] = load
	}
	return counts, nil
}

// UpdateTicket mutates only the mirror: the ticket moves in progress, the
// assignee's simulated load grows, and the update is recorded.
func (s *Sandbox) UpdateTicket(_ context.Context, update TicketUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[update.TicketID]
	if !ok {
		return fmt.Errorf("sandbox: unknown ticket %d", update.TicketID)
	}
	if update.PriorityID > 0 {
		for priority, id := range priorityIDs {
			if id == update.PriorityID {
				ticket.Priority = priority
				break
			}
		}
	}
	if update.StatusID == StatusIDInProgress {
		ticket.Status = domain.TicketStatusInProgress
	}
	s.loads[update.AssigneeID]++
	s.updates = append(s.updates, update)
	return nil
}

// TicketURL returns a sandbox-scoped reference.
func (s *Sandbox) TicketURL(ticketID int) string {
	return fmt.Sprintf("%s/issues/%d", s.baseURL, ticketID)
}

// Ping always succeeds; the mirror lives in process memory.
func (s *Sandbox) Ping(_ context.Context) error {
	return nil
}

// Updates returns a copy of the recorded writes, oldest first.
func (s *Sandbox) Updates() []TicketUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TicketUpdate(nil), s.updates...)
}

// Ticket returns a copy of one mirrored ticket.
func (s *Sandbox) Ticket(ticketID int) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[ticketID]
	if !ok {
		return domain.Ticket{}, false
	}
	return *ticket, true
}
