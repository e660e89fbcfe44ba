package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/events"
	"github.com/spec-kit/devops-automation/internal/observability"
	"github.com/spec-kit/devops-automation/internal/tracker"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

// AnalysisProvider produces a diagnostic narrative for a ticket. It must
// always return a usable analysis, degrading to a fallback internally.
type AnalysisProvider interface {
	Analyze(ctx context.Context, ticket domain.Ticket) domain.AIAnalysis
}

// BatchLocker extends the in-process single-flight guard across replicas.
type BatchLocker interface {
	AcquireBatchLock(ctx context.Context) (bool, error)
	ReleaseBatchLock(ctx context.Context)
}

// Orchestrator drives the per-ticket pipeline (analyze, adjust priority,
// assign, persist) and aggregates results across a batch.
type Orchestrator struct {
	modes      *ModeController
	workload   *WorkloadService
	policy     PriorityPolicy
	analyzer   AnalysisProvider
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	locker     BatchLocker
	aiWorkers  int
	logger     *zap.Logger
}

// OrchestratorDependencies bundles collaborators.
type OrchestratorDependencies struct {
	Modes      *ModeController
	Workload   *WorkloadService
	Policy     PriorityPolicy
	Analyzer   AnalysisProvider
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Locker     BatchLocker
	AIWorkers  int
	Logger     *zap.Logger
}

// NewOrchestrator creates the service.
func NewOrchestrator(deps OrchestratorDependencies) *Orchestrator {
	workers := deps.AIWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		modes:      deps.Modes,
		workload:   deps.Workload,
		policy:     deps.Policy,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		locker:     deps.Locker,
		aiWorkers:  workers,
		logger:     deps.Logger,
	}
}

// ProcessBatch runs one batch against the active store. The returned error
// is non-nil only when the batch was rejected before starting (another batch
// in flight); every other failure is encoded in the BatchResult. Ticket
// failures never abort the batch and batch failures never crash the process.
func (o *Orchestrator) ProcessBatch(ctx context.Context) (domain.BatchResult, error) {
	store, mode, err := o.modes.BeginBatch()
	if err != nil {
		return domain.BatchResult{}, err
	}
	defer o.modes.EndBatch()

	if o.locker != nil {
		acquired, lockErr := o.locker.AcquireBatchLock(ctx)
		if lockErr != nil {
			o.logger.Warn("batch lock unavailable, proceeding with local guard only", zap.Error(lockErr))
		} else if !acquired {
			return domain.BatchResult{}, apperrors.NewConflict("a batch is already in progress on another replica", nil)
		} else {
			defer o.locker.ReleaseBatchLock(ctx)
		}
	}

	result := o.runBatch(ctx, store, mode)
	o.metrics.RecordBatch(result)
	o.publishBatchCompleted(ctx, mode, result)
	return result, nil
}

func (o *Orchestrator) runBatch(ctx context.Context, store tracker.TicketStore, mode domain.Mode) domain.BatchResult {
	result := domain.BatchResult{
		BatchID:          uuid.NewString(),
		Success:          true,
		ProcessedTickets: []domain.ProcessingResult{},
		Errors:           []string{},
		Timestamp:        time.Now(),
	}
	logger := o.logger.With(zap.String("batch_id", result.BatchID), zap.String("mode", string(mode)))

	if o.workload.RosterEmpty() {
		result.Success = false
		result.Errors = append(result.Errors, "no team members configured in either tier")
		logger.Error("batch aborted: empty roster")
		return result
	}

	tickets, err := store.FetchNewTickets(ctx)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("fetch tickets: %v", err))
		logger.Error("batch aborted: tracker unreachable", zap.Error(err))
		return result
	}
	if len(tickets) == 0 {
		logger.Info("no new tickets found")
		return result
	}

	snapshot, err := o.workload.Snapshot(ctx, store)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("workload snapshot: %v", err))
		logger.Error("batch aborted: snapshot failed", zap.Error(err))
		return result
	}
	logger.Info("processing batch",
		zap.Int("tickets", len(tickets)),
		zap.Bool("business_hours", snapshot.BusinessHours),
	)

	// AI analyses are read-only per ticket, so they run with bounded
	// parallelism up front. Assignment and persistence stay strictly
	// serialized in fetch order below to keep the delta bookkeeping and
	// the capacity invariant intact.
	analyses := o.analyzeAll(ctx, tickets)

	deltas := NewDeltaSet()
	for i, ticket := range tickets {
		ticketResult := o.processTicket(ctx, store, ticket, analyses[i], snapshot, deltas)
		if ticketResult.PriorityDowngraded {
			result.PriorityAdjustments++
		}
		if ticketResult.AnalysisSource == domain.AnalysisSourceGenerated {
			result.OllamaAnalyses++
		}
		if !ticketResult.Success {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("ticket #%d: %s", ticket.ID, ticketResult.Error))
		}
		result.ProcessedTickets = append(result.ProcessedTickets, ticketResult)
		result.TotalProcessed++

		o.publishTicketProcessed(ctx, result.BatchID, mode, ticketResult)
	}

	logger.Info("batch completed",
		zap.Int("total", result.TotalProcessed),
		zap.Int("priority_adjustments", result.PriorityAdjustments),
		zap.Int("ollama_analyses", result.OllamaAnalyses),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// analyzeAll runs AI analysis for every ticket with at most aiWorkers
// concurrent requests, returning analyses indexed like tickets.
func (o *Orchestrator) analyzeAll(ctx context.Context, tickets []domain.Ticket) []domain.AIAnalysis {
	analyses := make([]domain.AIAnalysis, len(tickets))
	semaphore := make(chan struct{}, o.aiWorkers)
	var wg sync.WaitGroup

	for i := range tickets {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			analyses[idx] = o.analyzer.Analyze(ctx, tickets[idx])
		}(i)
	}
	wg.Wait()
	return analyses
}

// processTicket runs the serialized stages for one ticket: priority
// adjustment, assignment against the shared delta accumulator, note
// composition, and the single persist write. A failure at any stage is
// recorded on the result and the batch moves on.
func (o *Orchestrator) processTicket(ctx context.Context, store tracker.TicketStore, ticket domain.Ticket, analysis domain.AIAnalysis, snapshot domain.WorkloadSnapshot, deltas DeltaSet) domain.ProcessingResult {
	adjusted, downgraded := o.policy.Adjust(ticket.Priority, ticket.Environment)
	ticketResult := domain.ProcessingResult{
		TicketID:           ticket.ID,
		Subject:            ticket.Subject,
		OriginalPriority:   ticket.Priority,
		AdjustedPriority:   adjusted,
		PriorityDowngraded: downgraded,
		Environment:        ticket.Environment,
		AnalysisSource:     analysis.Source,
	}
	if downgraded {
		o.logger.Info("priority downgraded",
			zap.Int("ticket_id", ticket.ID),
			zap.String("from", string(ticket.Priority)),
			zap.String("to", string(adjusted)),
			zap.String("environment", ticket.Environment),
		)
	}

	assignment, err := Assign(snapshot, deltas)
	if err != nil {
		ticketResult.Error = fmt.Sprintf("assignment: %v", err)
		return ticketResult
	}
	ticketResult.AssignedTo = assignment.Member
	ticketResult.AssignmentType = assignment.Type
	ticketResult.Reason = assignment.Reason

	update := tracker.TicketUpdate{
		TicketID:   ticket.ID,
		PriorityID: tracker.PriorityID(adjusted),
		AssigneeID: assignment.Member.ID,
		StatusID:   tracker.StatusIDInProgress,
		Notes:      composeNote(ticket, adjusted, downgraded, assignment, analysis, time.Now()),
	}
	if err := store.UpdateTicket(ctx, update); err != nil {
		ticketResult.Error = fmt.Sprintf("persist: %v", err)
		return ticketResult
	}

	ticketResult.Success = true
	ticketResult.RedmineURL = store.TicketURL(ticket.ID)
	o.logger.Info("ticket processed",
		zap.Int("ticket_id", ticket.ID),
		zap.String("assignee", assignment.Member.Name),
		zap.String("assignment_type", assignment.Type),
	)
	return ticketResult
}

func (o *Orchestrator) publishTicketProcessed(ctx context.Context, batchID string, mode domain.Mode, ticketResult domain.ProcessingResult) {
	if o.dispatcher == nil {
		return
	}
	_ = o.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketProcessed,
		Timestamp: time.Now(),
		Payload: events.TicketProcessedPayload{
			BatchID: batchID,
			Mode:    mode,
			Result:  ticketResult,
		},
	})
}

func (o *Orchestrator) publishBatchCompleted(ctx context.Context, mode domain.Mode, result domain.BatchResult) {
	if o.dispatcher == nil {
		return
	}
	_ = o.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventBatchCompleted,
		Timestamp: time.Now(),
		Payload: events.BatchCompletedPayload{
			Mode:   mode,
			Result: result,
		},
	})
}
