package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/tracker"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

// WorkloadService computes point-in-time team workload snapshots from the
// active ticket store and the static roster.
type WorkloadService struct {
	team     config.TeamConfig
	hours    config.BusinessHoursConfig
	location *time.Location
	clock    func() time.Time
	logger   *zap.Logger
}

// NewWorkloadService builds the provider. An unknown timezone falls back to
// UTC with a warning rather than failing startup.
func NewWorkloadService(team config.TeamConfig, hours config.BusinessHoursConfig, logger *zap.Logger) *WorkloadService {
	location, err := time.LoadLocation(hours.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", hours.Timezone))
		location = time.UTC
	}
	return &WorkloadService{
		team:     team,
		hours:    hours,
		location: location,
		clock:    time.Now,
		logger:   logger,
	}
}

// RosterEmpty reports whether both tiers are unstaffed.
func (s *WorkloadService) RosterEmpty() bool {
	return s.team.Empty()
}

// Roster returns the configured roster.
func (s *WorkloadService) Roster() config.TeamConfig {
	return s.team
}

// Snapshot reads current in-progress counts from the store and merges them
// against the roster. Members with no open tickets appear with count zero.
// The only failure mode is an unreachable store, which the caller treats as
// batch-fatal.
func (s *WorkloadService) Snapshot(ctx context.Context, store tracker.TicketStore) (domain.WorkloadSnapshot, error) {
	counts, err := store.InProgressCounts(ctx)
	if err != nil {
		return domain.WorkloadSnapshot{}, apperrors.NewDependencyUnavailable("ticket tracker", err)
	}

	load := make(map[int]int, len(s.team.L1)+len(s.team.L2))
	for _, member := range s.team.L1 {
		load[member.ID] = counts[member.ID]
	}
	for _, member := range s.team.L2 {
		load[member.ID] = counts[member.ID]
	}

	now := s.clock()
	return domain.WorkloadSnapshot{
		L1:            append([]domain.TeamMember(nil), s.team.L1...),
		L2:            append([]domain.TeamMember(nil), s.team.L2...),
		Load:          load,
		BusinessHours: s.InBusinessHours(now),
		TakenAt:       now,
	}, nil
}

// TeamWorkload produces the reporting view behind the team-workload endpoint.
func (s *WorkloadService) TeamWorkload(ctx context.Context, store tracker.TicketStore) (domain.TeamWorkloadView, error) {
	snapshot, err := s.Snapshot(ctx, store)
	if err != nil {
		return domain.TeamWorkloadView{}, err
	}

	view := domain.TeamWorkloadView{
		BusinessHours: snapshot.BusinessHours,
		TakenAt:       snapshot.TakenAt,
	}
	for _, member := range snapshot.L1 {
		view.L1 = append(view.L1, memberWorkload(member, snapshot.CurrentLoad(member.ID)))
	}
	for _, member := range snapshot.L2 {
		view.L2 = append(view.L2, memberWorkload(member, snapshot.CurrentLoad(member.ID)))
	}
	return view, nil
}

// InBusinessHours evaluates the advisory business-hours window at the given
// instant. The flag never gates assignment eligibility; it is surfaced for
// reporting and escalation policy.
func (s *WorkloadService) InBusinessHours(at time.Time) bool {
	local := at.In(s.location)
	if s.hours.WeekdaysOnly {
		switch local.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	hour := local.Hour()
	return hour >= s.hours.StartHour && hour < s.hours.EndHour
}

// BusinessHoursNow evaluates the window at the current time.
func (s *WorkloadService) BusinessHoursNow() bool {
	return s.InBusinessHours(s.clock())
}

func memberWorkload(member domain.TeamMember, current int) domain.MemberWorkload {
	status := domain.MemberStatusAvailable
	if !member.Available(current) {
		status = domain.MemberStatusBusy
	}
	return domain.MemberWorkload{Member: member, Current: current, Status: status}
}
