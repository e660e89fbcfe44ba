package service

import (
	"strings"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// PriorityPolicy gates the highest severity level behind production
// environments. Adjust is pure and total: it never fails and identical
// inputs always yield identical outputs.
type PriorityPolicy struct {
	aliases map[string]struct{}
}

// NewPriorityPolicy builds the policy from the configured production alias
// set (e.g. production, prod, live).
func NewPriorityPolicy(aliases []string) PriorityPolicy {
	set := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		set[normalizeEnvironment(alias)] = struct{}{}
	}
	return PriorityPolicy{aliases: set}
}

// Adjust maps a declared priority and environment to the effective priority.
// P1 is permitted only for production environments; any other environment,
// including empty or unknown, downgrades a declared P1 exactly one step.
// Every other level passes through unchanged.
func (p PriorityPolicy) Adjust(declared domain.Priority, environment string) (domain.Priority, bool) {
	if declared != domain.PriorityCritical {
		return declared, false
	}
	if p.IsProduction(environment) {
		return declared, false
	}
	return declared.Downgrade(), true
}

// IsProduction reports whether the environment value, case-insensitively
// trimmed, matches a production alias exactly.
func (p PriorityPolicy) IsProduction(environment string) bool {
	_, ok := p.aliases[normalizeEnvironment(environment)]
	return ok
}

func normalizeEnvironment(environment string) string {
	return strings.ToLower(strings.TrimSpace(environment))
}
