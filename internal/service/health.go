package service

import (
	"context"
	"time"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// Prober is a point-in-time reachability probe.
type Prober interface {
	Ping(ctx context.Context) error
}

// Component names in health reports.
const (
	ComponentTracker  = "ticket_tracker"
	ComponentOllama   = "ollama"
	ComponentPostgres = "postgres"
	ComponentRedis    = "redis"
)

const probeTimeout = 5 * time.Second

// HealthService probes dependencies and reports structured availability.
// Each check is one instantaneous probe per dependency with no retries;
// callers re-poll if they want freshness.
type HealthService struct {
	modes    *ModeController
	ollama   Prober
	optional map[string]Prober
}

// NewHealthService builds the monitor. The tracker probe always addresses
// the active store, so test mode reports a reachable tracker. Optional
// probes (audit store, redis) are reported but never affect overall status.
func NewHealthService(modes *ModeController, ollama Prober, optional map[string]Prober) *HealthService {
	return &HealthService{modes: modes, ollama: ollama, optional: optional}
}

// Check probes every dependency and derives the overall status: unhealthy
// when the tracker is unreachable (processing cannot proceed), degraded when
// only the AI backend is down (processing continues via fallback), healthy
// otherwise.
func (s *HealthService) Check(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		Components: make(map[string]domain.ComponentHealth),
	}

	trackerHealth := probe(ctx, s.modes.Store())
	trackerHealth.Required = true
	report.Components[ComponentTracker] = trackerHealth

	ollamaHealth := probe(ctx, s.ollama)
	ollamaHealth.Required = true
	report.Components[ComponentOllama] = ollamaHealth

	for name, prober := range s.optional {
		if prober == nil {
			continue
		}
		report.Components[name] = probe(ctx, prober)
	}

	switch {
	case !trackerHealth.Reachable:
		report.Overall = domain.HealthStatusUnhealthy
	case !ollamaHealth.Reachable:
		report.Overall = domain.HealthStatusDegraded
	default:
		report.Overall = domain.HealthStatusHealthy
	}
	return report
}

func probe(ctx context.Context, prober Prober) domain.ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := prober.Ping(ctx)
	health := domain.ComponentHealth{
		Reachable: err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
		Detail:    "ok",
	}
	if err != nil {
		health.Detail = err.Error()
	}
	return health
}
