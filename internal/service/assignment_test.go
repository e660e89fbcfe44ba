package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/devops-automation/internal/domain"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

func l1Member(id int, name string, max int) domain.TeamMember {
	return domain.TeamMember{ID: id, Name: name, Tier: domain.TierL1, MaxTickets: max}
}

func l2Member(id int, name string) domain.TeamMember {
	return domain.TeamMember{ID: id, Name: name, Tier: domain.TierL2}
}

func TestAssignPicksLowestLoadedL1(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 5),
			l1Member(2, "bravo", 5),
			l1Member(3, "charlie", 5),
		},
		Load: map[int]int{1: 3, 2: 1, 3: 4},
	}

	assignment, err := Assign(snapshot, NewDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 2, assignment.Member.ID)
	assert.Equal(t, domain.TierL1, assignment.Tier)
	assert.Equal(t, domain.AssignmentTypeL1Capacity, assignment.Type)
}

func TestAssignTieBreaksInRosterOrder(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(7, "alpha", 5),
			l1Member(3, "bravo", 5),
			l1Member(9, "charlie", 5),
		},
		Load: map[int]int{7: 2, 3: 2, 9: 2},
	}

	assignment, err := Assign(snapshot, NewDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 7, assignment.Member.ID, "earliest roster entry wins ties")
}

func TestAssignSkipsL1AtCapacity(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 2),
			l1Member(2, "bravo", 5),
		},
		Load: map[int]int{1: 2, 2: 4},
	}

	assignment, err := Assign(snapshot, NewDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 2, assignment.Member.ID)
}

func TestAssignOverflowsToL2WhenL1Saturated(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 1),
			l1Member(2, "bravo", 1),
		},
		L2: []domain.TeamMember{
			l2Member(21, "delta"),
			l2Member(22, "echo"),
		},
		Load: map[int]int{1: 1, 2: 1, 21: 5, 22: 3},
	}

	assignment, err := Assign(snapshot, NewDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 22, assignment.Member.ID)
	assert.Equal(t, domain.TierL2, assignment.Tier)
	assert.Equal(t, domain.AssignmentTypeL2Overflow, assignment.Type)
}

func TestAssignDeltasRespectCapacityWithinBatch(t *testing.T) {
	// Two L1 members with one free slot each; the third ticket in the same
	// batch must spill to L2 even though the snapshot alone shows capacity.
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 1),
			l1Member(2, "bravo", 1),
		},
		L2:   []domain.TeamMember{l2Member(21, "delta")},
		Load: map[int]int{1: 0, 2: 0, 21: 0},
	}
	deltas := NewDeltaSet()

	first, err := Assign(snapshot, deltas)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Member.ID)

	second, err := Assign(snapshot, deltas)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Member.ID)

	third, err := Assign(snapshot, deltas)
	require.NoError(t, err)
	assert.Equal(t, 21, third.Member.ID)
	assert.Equal(t, domain.AssignmentTypeL2Overflow, third.Type)
}

func TestAssignNeverExceedsL1Capacity(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 3),
			l1Member(2, "bravo", 2),
		},
		L2:   []domain.TeamMember{l2Member(21, "delta")},
		Load: map[int]int{1: 1, 2: 0, 21: 0},
	}
	deltas := NewDeltaSet()

	for i := 0; i < 10; i++ {
		_, err := Assign(snapshot, deltas)
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, deltas.AdjustedLoad(snapshot, 1), 3)
	assert.LessOrEqual(t, deltas.AdjustedLoad(snapshot, 2), 2)
	// 4 of the 10 fit in L1, the rest overflow.
	assert.Equal(t, 6, deltas[21])
}

func TestAssignMissingLoadCountsAsZero(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1: []domain.TeamMember{
			l1Member(1, "alpha", 5),
			l1Member(2, "bravo", 5),
		},
		Load: map[int]int{1: 1},
	}

	assignment, err := Assign(snapshot, NewDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 2, assignment.Member.ID)
}

func TestAssignEmptyRosterIsConfigurationError(t *testing.T) {
	_, err := Assign(domain.WorkloadSnapshot{}, NewDeltaSet())
	require.Error(t, err)
	assert.Equal(t, "CONFIGURATION_FATAL", apperrors.ToDomainError(err).Code)
}

func TestAssignSaturatedL1WithoutL2IsConfigurationError(t *testing.T) {
	snapshot := domain.WorkloadSnapshot{
		L1:   []domain.TeamMember{l1Member(1, "alpha", 1)},
		Load: map[int]int{1: 1},
	}

	_, err := Assign(snapshot, NewDeltaSet())
	require.Error(t, err)
	assert.Equal(t, "CONFIGURATION_FATAL", apperrors.ToDomainError(err).Code)
}
