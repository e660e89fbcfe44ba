package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/devops-automation/internal/domain"
)

func TestRecordBatchAccumulates(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordBatch(domain.BatchResult{
		TotalProcessed:      3,
		PriorityAdjustments: 1,
		OllamaAnalyses:      2,
		ProcessedTickets: []domain.ProcessingResult{
			{Success: true, AnalysisSource: domain.AnalysisSourceGenerated},
			{Success: true, AnalysisSource: domain.AnalysisSourceGenerated},
			{Success: false, AnalysisSource: domain.AnalysisSourceFallback},
		},
	})
	metrics.RecordBatch(domain.BatchResult{
		TotalProcessed: 1,
		ProcessedTickets: []domain.ProcessingResult{
			{Success: true, AnalysisSource: domain.AnalysisSourceFallback},
		},
	})

	totals := metrics.BatchTotals()
	assert.Equal(t, BatchCounters{
		BatchesRun:         2,
		TicketsProcessed:   4,
		TicketFailures:     1,
		PriorityDowngrades: 1,
		GeneratedAnalyses:  2,
		FallbackAnalyses:   2,
	}, totals)
}

func TestMetricsNilSafe(t *testing.T) {
	var metrics *Metrics

	metrics.RecordRequest("/", "GET", 200, 0)
	metrics.RecordError("/", "GET", "INTERNAL_ERROR")
	metrics.RecordBatch(domain.BatchResult{TotalProcessed: 1})

	assert.Equal(t, BatchCounters{}, metrics.BatchTotals())
}
