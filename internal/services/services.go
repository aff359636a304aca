package services

import (
	"context"
	"errors"

	"stock-service/internal/domain"
	"stock-service/internal/events"
	"stock-service/internal/repository"

	"go.uber.org/zap"
)

// publishAll is called once the transaction has committed. A publish failure
// never fails the operation.
func publishAll(ctx context.Context, publisher events.EventPublisher, logger *zap.Logger, evts ...events.Event) {
	for _, event := range evts {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.String("key", event.PartitionKey()),
				zap.Error(err),
			)
		}
	}
}

// translateStoreError maps store constraint failures onto domain errors.
// conflictMsg is used for unique violations; foreign key violations are Conflict too.
func translateStoreError(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return domain.Conflictf("%s", conflictMsg)
	case errors.Is(err, repository.ErrReference):
		// a referenced record was removed, or a record gained dependents, concurrently
		return domain.Conflictf("related record changed: %v", err)
	case errors.Is(err, repository.ErrConstraint):
		return domain.InvalidArgumentf("constraint violation: %v", err)
	}
	return err
}
