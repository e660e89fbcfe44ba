package service

import (
	"fmt"

	"github.com/spec-kit/devops-automation/internal/domain"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

// DeltaSet accumulates same-batch assignments on top of one workload
// snapshot. The orchestrator threads a single DeltaSet through the ordered
// assignment loop so later tickets see earlier in-batch picks and L1
// capacity is never exceeded.
type DeltaSet map[int]int

// NewDeltaSet returns an empty accumulator.
func NewDeltaSet() DeltaSet {
	return make(DeltaSet)
}

// AdjustedLoad returns snapshot load plus in-batch delta for a member.
func (d DeltaSet) AdjustedLoad(snapshot domain.WorkloadSnapshot, memberID int) int {
	return snapshot.CurrentLoad(memberID) + d[memberID]
}

// Assign chooses a responder for one ticket against the batch snapshot.
// Eligible L1 members (adjusted load below capacity) are preferred, lowest
// adjusted load first with roster-order tie-break. When every L1 member is
// at capacity the lowest-loaded L2 member takes the overflow. An empty
// roster in both tiers is a configuration error, not a per-ticket failure.
// On success the assignee's delta is incremented.
func Assign(snapshot domain.WorkloadSnapshot, deltas DeltaSet) (domain.Assignment, error) {
	if len(snapshot.L1) == 0 && len(snapshot.L2) == 0 {
		return domain.Assignment{}, apperrors.NewConfigurationFatal("no team members configured in either tier")
	}

	if best, ok := pickEligible(snapshot, deltas, snapshot.L1, true); ok {
		load := deltas.AdjustedLoad(snapshot, best.ID)
		deltas[best.ID]++
		return domain.Assignment{
			Member: best,
			Tier:   domain.TierL1,
			Type:   domain.AssignmentTypeL1Capacity,
			Reason: fmt.Sprintf("lowest L1 load %d/%d", load, best.MaxTickets),
		}, nil
	}

	if best, ok := pickEligible(snapshot, deltas, snapshot.L2, false); ok {
		load := deltas.AdjustedLoad(snapshot, best.ID)
		deltas[best.ID]++
		return domain.Assignment{
			Member: best,
			Tier:   domain.TierL2,
			Type:   domain.AssignmentTypeL2Overflow,
			Reason: fmt.Sprintf("all L1 members at capacity, lowest L2 load %d", load),
		}, nil
	}

	// L1 fully saturated and no L2 tier exists.
	return domain.Assignment{}, apperrors.NewConfigurationFatal("all L1 members at capacity and no L2 members configured")
}

// pickEligible scans members in roster order keeping the first member with
// the strictly lowest adjusted load, which makes ties deterministic.
func pickEligible(snapshot domain.WorkloadSnapshot, deltas DeltaSet, members []domain.TeamMember, capped bool) (domain.TeamMember, bool) {
	var best domain.TeamMember
	bestLoad := -1
	for _, member := range members {
		load := deltas.AdjustedLoad(snapshot, member.ID)
		if capped && !member.Available(load) {
			continue
		}
		if bestLoad < 0 || load < bestLoad {
			best = member
			bestLoad = load
		}
	}
	return best, bestLoad >= 0
}
