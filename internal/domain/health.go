package domain

// HealthStatus summarizes dependency availability.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth is an instantaneous probe result for one dependency.
type ComponentHealth struct {
	Reachable bool
	Required  bool
	Detail    string
	LatencyMS int64
}

// HealthReport maps dependency names to probe results. Overall is healthy
// only when every required dependency is reachable; degraded when only the
// AI backend is down; unhealthy when the ticket tracker is down.
type HealthReport struct {
	Overall    HealthStatus
	Components map[string]ComponentHealth
}
