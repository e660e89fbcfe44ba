package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	batchesRun         int64
	ticketsProcessed   int64
	ticketFailures     int64
	priorityDowngrades int64
	fallbackAnalyses   int64
	generatedAnalyses  int64
}

// BatchCounters is a point-in-time copy of the accumulated batch counters.
type BatchCounters struct {
	BatchesRun         int64
	TicketsProcessed   int64
	TicketFailures     int64
	PriorityDowngrades int64
	GeneratedAnalyses  int64
	FallbackAnalyses   int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordBatch accumulates counters from one completed batch.
func (m *Metrics) RecordBatch(result domain.BatchResult) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchesRun++
	m.ticketsProcessed += int64(result.TotalProcessed)
	m.priorityDowngrades += int64(result.PriorityAdjustments)
	m.generatedAnalyses += int64(result.OllamaAnalyses)
	for _, ticket := range result.ProcessedTickets {
		if !ticket.Success {
			m.ticketFailures++
		}
		if ticket.AnalysisSource == domain.AnalysisSourceFallback {
			m.fallbackAnalyses++
		}
	}
}

// BatchTotals returns a copy of the accumulated batch counters.
func (m *Metrics) BatchTotals() BatchCounters {
	if m == nil {
		return BatchCounters{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return BatchCounters{
		BatchesRun:         m.batchesRun,
		TicketsProcessed:   m.ticketsProcessed,
		TicketFailures:     m.ticketFailures,
		PriorityDowngrades: m.priorityDowngrades,
		GeneratedAnalyses:  m.generatedAnalyses,
		FallbackAnalyses:   m.fallbackAnalyses,
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
