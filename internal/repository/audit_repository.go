package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// AuditRepository stores batch processing outcomes for reporting. It is only
// wired when the audit store is configured and always sits off the batch
// critical path.
type AuditRepository interface {
	RecordBatch(ctx context.Context, mode domain.Mode, result domain.BatchResult) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository, nil when no pool is available.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	if pool == nil {
		return nil
	}
	return &auditRepository{pool: pool}
}

func (r *auditRepository) RecordBatch(ctx context.Context, mode domain.Mode, result domain.BatchResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const batchQuery = `
        INSERT INTO batch_audits (batch_id, mode, success, total_processed, priority_adjustments, ollama_analyses, error_count, completed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := tx.Exec(ctx, batchQuery,
		result.BatchID,
		string(mode),
		result.Success,
		result.TotalProcessed,
		result.PriorityAdjustments,
		result.OllamaAnalyses,
		len(result.Errors),
		result.Timestamp,
	); err != nil {
		return err
	}

	const ticketQuery = `
        INSERT INTO ticket_audits (batch_id, ticket_id, original_priority, adjusted_priority, priority_downgraded, environment, assignee_id, assignee_name, assignment_type, analysis_source, success, error)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	for _, ticket := range result.ProcessedTickets {
		if _, err := tx.Exec(ctx, ticketQuery,
			result.BatchID,
			ticket.TicketID,
			string(ticket.OriginalPriority),
			string(ticket.AdjustedPriority),
			ticket.PriorityDowngraded,
			ticket.Environment,
			ticket.AssignedTo.ID,
			ticket.AssignedTo.Name,
			ticket.AssignmentType,
			string(ticket.AnalysisSource),
			ticket.Success,
			ticket.Error,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
