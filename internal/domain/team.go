package domain

import "time"

// Tier identifies the two-level responder hierarchy. L1 carries a hard
// capacity ceiling; L2 is the uncapped overflow tier.
type Tier string

const (
	TierL1 Tier = "L1"
	TierL2 Tier = "L2"
)

// TeamMember describes one responder from the static roster.
type TeamMember struct {
	ID         int
	Name       string
	Tier       Tier
	MaxTickets int // 0 means uncapped (L2)
}

// Available reports whether the member can take another ticket at the given
// load. L2 members are always available.
func (m TeamMember) Available(current int) bool {
	if m.MaxTickets <= 0 {
		return true
	}
	return current < m.MaxTickets
}

// WorkloadSnapshot is a point-in-time view of team load used consistently
// across one processing batch. Member order preserves roster order.
type WorkloadSnapshot struct {
	L1            []TeamMember
	L2            []TeamMember
	Load          map[int]int
	BusinessHours bool
	TakenAt       time.Time
}

// CurrentLoad returns the snapshot load for a member, zero when unseen.
func (s WorkloadSnapshot) CurrentLoad(memberID int) int {
	return s.Load[memberID]
}

// MemberStatus labels a member's availability for reporting.
type MemberStatus string

const (
	MemberStatusAvailable MemberStatus = "available"
	MemberStatusBusy      MemberStatus = "busy"
)

// MemberWorkload pairs a roster member with its current load for reporting.
type MemberWorkload struct {
	Member  TeamMember
	Current int
	Status  MemberStatus
}

// TeamWorkloadView is the reporting view behind the team-workload endpoint.
type TeamWorkloadView struct {
	L1            []MemberWorkload
	L2            []MemberWorkload
	BusinessHours bool
	TakenAt       time.Time
}
