package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/devops-automation/internal/domain"
)

func TestComposeNoteWithDowngrade(t *testing.T) {
	ticket := domain.Ticket{
		ID:          101,
		Priority:    domain.PriorityCritical,
		Environment: "staging",
	}
	assignment := domain.Assignment{
		Member: domain.TeamMember{ID: 1, Name: "alpha"},
		Type:   domain.AssignmentTypeL1Capacity,
		Reason: "lowest L1 load 0/5",
	}
	analysis := domain.AIAnalysis{Text: "check the pods"}
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	note := composeNote(ticket, domain.PriorityHigh, true, assignment, analysis, at)

	assert.Contains(t, note, "Priority Adjustment Notice")
	assert.Contains(t, note, "from P1(Critical) to P2(High)")
	assert.Contains(t, note, "Environment: staging")
	assert.Contains(t, note, "Assigned to: alpha (L1_CAPACITY)")
	assert.Contains(t, note, "check the pods")
	assert.Contains(t, note, "2026-03-04T12:00:00Z")
}

func TestComposeNoteWithoutDowngrade(t *testing.T) {
	ticket := domain.Ticket{ID: 102, Priority: domain.PriorityHigh, Environment: "production"}
	assignment := domain.Assignment{
		Member: domain.TeamMember{ID: 21, Name: "delta"},
		Type:   domain.AssignmentTypeL2Overflow,
		Reason: "all L1 members at capacity, lowest L2 load 2",
	}

	note := composeNote(ticket, domain.PriorityHigh, false, assignment, domain.AIAnalysis{Text: "narrative"}, time.Now())

	assert.NotContains(t, note, "Priority Adjustment Notice")
	assert.Contains(t, note, "Assigned to: delta (L2_OVERFLOW)")
	assert.Contains(t, note, "narrative")
}

func TestComposeNoteEmptyEnvironment(t *testing.T) {
	ticket := domain.Ticket{ID: 103, Priority: domain.PriorityCritical}
	assignment := domain.Assignment{Member: domain.TeamMember{Name: "alpha"}}

	note := composeNote(ticket, domain.PriorityHigh, true, assignment, domain.AIAnalysis{Text: "x"}, time.Now())

	assert.Contains(t, note, "Environment: Not specified")
}
