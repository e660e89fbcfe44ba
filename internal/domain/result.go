package domain

import "time"

// AnalysisSource tags where a diagnostic narrative came from.
type AnalysisSource string

const (
	AnalysisSourceGenerated AnalysisSource = "generated"
	AnalysisSourceFallback  AnalysisSource = "fallback"
)

// AIAnalysis is the transient diagnostic narrative for one ticket. It always
// carries usable text; Success is false when the fallback template was used.
type AIAnalysis struct {
	Text    string
	Success bool
	Source  AnalysisSource
}

// Assignment type labels carried on processing results.
const (
	AssignmentTypeL1Capacity = "L1_CAPACITY"
	AssignmentTypeL2Overflow = "L2_OVERFLOW"
)

// Assignment is the outcome of one assignment decision.
type Assignment struct {
	Member TeamMember
	Tier   Tier
	Type   string
	Reason string
}

// ProcessingResult records the outcome of one ticket's pipeline run.
type ProcessingResult struct {
	TicketID           int
	Subject            string
	OriginalPriority   Priority
	AdjustedPriority   Priority
	PriorityDowngraded bool
	Environment        string
	AssignedTo         TeamMember
	AssignmentType     string
	Reason             string
	AnalysisSource     AnalysisSource
	Success            bool
	Error              string
	RedmineURL         string
}

// BatchResult aggregates one process-tickets run. Success is true iff every
// ticket in the batch succeeded; partial results are still populated when it
// is false.
type BatchResult struct {
	BatchID             string
	Success             bool
	TotalProcessed      int
	PriorityAdjustments int
	OllamaAnalyses      int
	ProcessedTickets    []ProcessingResult
	Errors              []string
	Timestamp           time.Time
}

// Mode selects the backing ticket store.
type Mode string

const (
	ModeTest       Mode = "test"
	ModeProduction Mode = "production"
)
