package dto

import (
	"time"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// AssignedTo identifies the chosen responder on a processing result.
type AssignedTo struct {
	UserID     int    `json:"user_id"`
	Name       string `json:"name"`
	MaxTickets *int   `json:"max_tickets,omitempty"`
}

// ProcessedTicket serializes one ProcessingResult.
type ProcessedTicket struct {
	TicketID           int        `json:"ticket_id"`
	Subject            string     `json:"subject"`
	OriginalPriority   string     `json:"original_priority"`
	AdjustedPriority   string     `json:"adjusted_priority"`
	PriorityDowngraded bool       `json:"priority_downgraded"`
	Environment        string     `json:"environment"`
	AssignedTo         AssignedTo `json:"assigned_to"`
	AssignmentType     string     `json:"assignment_type"`
	Reason             string     `json:"reason"`
	AnalysisSource     string     `json:"analysis_source"`
	Success            bool       `json:"success"`
	Error              string     `json:"error,omitempty"`
	RedmineURL         string     `json:"redmine_url,omitempty"`
}

// BatchResponse serializes one BatchResult.
type BatchResponse struct {
	BatchID             string            `json:"batch_id"`
	Success             bool              `json:"success"`
	TotalProcessed      int               `json:"total_processed"`
	PriorityAdjustments int               `json:"priority_adjustments"`
	OllamaAnalyses      int               `json:"ollama_analyses"`
	Errors              []string          `json:"errors"`
	ProcessedTickets    []ProcessedTicket `json:"processed_tickets"`
	Timestamp           time.Time         `json:"timestamp"`
}

// TeamMemberWorkload serializes one roster member's load.
type TeamMemberWorkload struct {
	UserID         int    `json:"user_id"`
	Name           string `json:"name"`
	CurrentTickets int    `json:"current_tickets"`
	MaxTickets     *int   `json:"max_tickets,omitempty"`
	Status         string `json:"status"`
}

// WorkloadResponse serializes the team-workload view.
type WorkloadResponse struct {
	L1Team        []TeamMemberWorkload `json:"l1_team"`
	L2Team        []TeamMemberWorkload `json:"l2_team"`
	BusinessHours bool                 `json:"business_hours"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ComponentHealth serializes one dependency probe.
type ComponentHealth struct {
	Reachable bool   `json:"reachable"`
	Required  bool   `json:"required"`
	Detail    string `json:"detail"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthResponse serializes a HealthReport.
type HealthResponse struct {
	Service       string                     `json:"service"`
	OverallStatus string                     `json:"overall_status"`
	Components    map[string]ComponentHealth `json:"components"`
	Timestamp     time.Time                  `json:"timestamp"`
}

// ModeResponse reports the active execution mode.
type ModeResponse struct {
	Mode string `json:"mode"`
}

// OllamaTestResponse serializes the AI connectivity test.
type OllamaTestResponse struct {
	Success         bool     `json:"success"`
	Endpoint        string   `json:"endpoint"`
	Model           string   `json:"model"`
	AvailableModels []string `json:"available_models,omitempty"`
	TestAnalysis    string   `json:"test_analysis,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// FromBatchResult maps a domain batch result to its response shape.
func FromBatchResult(result domain.BatchResult) BatchResponse {
	tickets := make([]ProcessedTicket, 0, len(result.ProcessedTickets))
	for _, ticket := range result.ProcessedTickets {
		tickets = append(tickets, fromProcessingResult(ticket))
	}
	return BatchResponse{
		BatchID:             result.BatchID,
		Success:             result.Success,
		TotalProcessed:      result.TotalProcessed,
		PriorityAdjustments: result.PriorityAdjustments,
		OllamaAnalyses:      result.OllamaAnalyses,
		Errors:              result.Errors,
		ProcessedTickets:    tickets,
		Timestamp:           result.Timestamp,
	}
}

// FromWorkloadView maps the team workload view to its response shape.
func FromWorkloadView(view domain.TeamWorkloadView) WorkloadResponse {
	return WorkloadResponse{
		L1Team:        fromMemberWorkloads(view.L1),
		L2Team:        fromMemberWorkloads(view.L2),
		BusinessHours: view.BusinessHours,
		Timestamp:     view.TakenAt,
	}
}

// FromHealthReport maps a health report to its response shape.
func FromHealthReport(service string, report domain.HealthReport) HealthResponse {
	components := make(map[string]ComponentHealth, len(report.Components))
	for name, component := range report.Components {
		components[name] = ComponentHealth{
			Reachable: component.Reachable,
			Required:  component.Required,
			Detail:    component.Detail,
			LatencyMS: component.LatencyMS,
		}
	}
	return HealthResponse{
		Service:       service,
		OverallStatus: string(report.Overall),
		Components:    components,
		Timestamp:     time.Now(),
	}
}

func fromProcessingResult(result domain.ProcessingResult) ProcessedTicket {
	assigned := AssignedTo{
		UserID: result.AssignedTo.ID,
		Name:   result.AssignedTo.Name,
	}
	if result.AssignedTo.MaxTickets > 0 {
		max := result.AssignedTo.MaxTickets
		assigned.MaxTickets = &max
	}
	return ProcessedTicket{
		TicketID:           result.TicketID,
		Subject:            result.Subject,
		OriginalPriority:   string(result.OriginalPriority),
		AdjustedPriority:   string(result.AdjustedPriority),
		PriorityDowngraded: result.PriorityDowngraded,
		Environment:        result.Environment,
		AssignedTo:         assigned,
		AssignmentType:     result.AssignmentType,
		Reason:             result.Reason,
		AnalysisSource:     string(result.AnalysisSource),
		Success:            result.Success,
		Error:              result.Error,
		RedmineURL:         result.RedmineURL,
	}
}

func fromMemberWorkloads(workloads []domain.MemberWorkload) []TeamMemberWorkload {
	out := make([]TeamMemberWorkload, 0, len(workloads))
	for _, workload := range workloads {
		member := TeamMemberWorkload{
			UserID:         workload.Member.ID,
			Name:           workload.Member.Name,
			CurrentTickets: workload.Current,
			Status:         string(workload.Status),
		}
		if workload.Member.MaxTickets > 0 {
			max := workload.Member.MaxTickets
			member.MaxTickets = &max
		}
		out = append(out, member)
	}
	return out
}
