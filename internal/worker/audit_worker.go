package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/events"
	"github.com/spec-kit/devops-automation/internal/persistence"
	"github.com/spec-kit/devops-automation/internal/repository"
)

// StartAuditWorker subscribes the audit sink to batch completion events. A
// failed audit write is logged and never surfaces to the batch that
// produced the event.
func StartAuditWorker(dispatcher events.Dispatcher, audits repository.AuditRepository, logger *zap.Logger) {
	if dispatcher == nil || audits == nil {
		return
	}

	dispatcher.Subscribe(events.EventBatchCompleted, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.BatchCompletedPayload)
		if !ok {
			return nil
		}
		if err := audits.RecordBatch(ctx, payload.Mode, payload.Result); err != nil {
			logger.Warn("failed to record batch audit",
				zap.String("batch_id", payload.Result.BatchID),
				zap.Error(err),
			)
		}
		return nil
	})
}

// StartResultCacheWorker keeps the last batch result cached in Redis for ops
// inspection.
func StartResultCacheWorker(dispatcher events.Dispatcher, cache *persistence.Redis) {
	if dispatcher == nil || !cache.Enabled() {
		return
	}

	dispatcher.Subscribe(events.EventBatchCompleted, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.BatchCompletedPayload)
		if !ok {
			return nil
		}
		cache.CacheLastBatch(ctx, payload.Result)
		return nil
	})
}
