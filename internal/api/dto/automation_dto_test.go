package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/devops-automation/internal/domain"
)

func TestFromBatchResult(t *testing.T) {
	now := time.Now()
	result := domain.BatchResult{
		BatchID:             "batch-1",
		Success:             false,
		TotalProcessed:      2,
		PriorityAdjustments: 1,
		OllamaAnalyses:      1,
		Errors:              []string{"ticket #102: persist: HTTP 500"},
		Timestamp:           now,
		ProcessedTickets: []domain.ProcessingResult{
			{
				TicketID:           101,
				Subject:            "staging outage",
				OriginalPriority:   domain.PriorityCritical,
				AdjustedPriority:   domain.PriorityHigh,
				PriorityDowngraded: true,
				Environment:        "staging",
				AssignedTo:         domain.TeamMember{ID: 1, Name: "alpha", Tier: domain.TierL1, MaxTickets: 5},
				AssignmentType:     domain.AssignmentTypeL1Capacity,
				AnalysisSource:     domain.AnalysisSourceGenerated,
				Success:            true,
				RedmineURL:         "http://tracker.test/issues/101",
			},
			{
				TicketID:       102,
				AssignedTo:     domain.TeamMember{ID: 21, Name: "delta", Tier: domain.TierL2},
				AssignmentType: domain.AssignmentTypeL2Overflow,
				AnalysisSource: domain.AnalysisSourceFallback,
				Error:          "persist: HTTP 500",
			},
		},
	}

	response := FromBatchResult(result)

	assert.Equal(t, "batch-1", response.BatchID)
	assert.False(t, response.Success)
	assert.Equal(t, 2, response.TotalProcessed)
	assert.Equal(t, 1, response.PriorityAdjustments)
	require.Len(t, response.ProcessedTickets, 2)

	first := response.ProcessedTickets[0]
	assert.Equal(t, "P1(Critical)", first.OriginalPriority)
	assert.Equal(t, "P2(High)", first.AdjustedPriority)
	assert.True(t, first.PriorityDowngraded)
	assert.Equal(t, 1, first.AssignedTo.UserID)
	require.NotNil(t, first.AssignedTo.MaxTickets)
	assert.Equal(t, 5, *first.AssignedTo.MaxTickets)

	// Uncapped L2 members omit the capacity field.
	second := response.ProcessedTickets[1]
	assert.Nil(t, second.AssignedTo.MaxTickets)
	assert.False(t, second.Success)
	assert.Equal(t, "persist: HTTP 500", second.Error)
}

func TestFromWorkloadView(t *testing.T) {
	view := domain.TeamWorkloadView{
		L1: []domain.MemberWorkload{
			{
				Member:  domain.TeamMember{ID: 1, Name: "alpha", Tier: domain.TierL1, MaxTickets: 5},
				Current: 5,
				Status:  domain.MemberStatusBusy,
			},
		},
		L2: []domain.MemberWorkload{
			{
				Member:  domain.TeamMember{ID: 21, Name: "delta", Tier: domain.TierL2},
				Current: 9,
				Status:  domain.MemberStatusAvailable,
			},
		},
		BusinessHours: true,
	}

	response := FromWorkloadView(view)

	require.Len(t, response.L1Team, 1)
	assert.Equal(t, "busy", response.L1Team[0].Status)
	require.NotNil(t, response.L1Team[0].MaxTickets)
	assert.Equal(t, 5, *response.L1Team[0].MaxTickets)

	require.Len(t, response.L2Team, 1)
	assert.Nil(t, response.L2Team[0].MaxTickets)
	assert.Equal(t, 9, response.L2Team[0].CurrentTickets)
	assert.True(t, response.BusinessHours)
}

func TestFromHealthReport(t *testing.T) {
	report := domain.HealthReport{
		Overall: domain.HealthStatusDegraded,
		Components: map[string]domain.ComponentHealth{
			"ticket_tracker": {Reachable: true, Required: true, Detail: "ok", LatencyMS: 12},
			"ollama":         {Reachable: false, Required: true, Detail: "timeout"},
		},
	}

	response := FromHealthReport("devops-automation", report)

	assert.Equal(t, "devops-automation", response.Service)
	assert.Equal(t, "degraded", response.OverallStatus)
	assert.True(t, response.Components["ticket_tracker"].Reachable)
	assert.Equal(t, "timeout", response.Components["ollama"].Detail)
}
