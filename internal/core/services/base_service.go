package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher gateways.EventPublisher
	Clock     func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with the error attached
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the injected clock's time, or time.Now in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// PublishEvent emits a ledger event after its unit has committed.
// Failures are logged and never undo the committed change.
func (s *BaseService) PublishEvent(ctx context.Context, eventType domain.LedgerEventType, userID string, txns []domain.Transaction, balances map[string]int64) {
	if s.Publisher == nil {
		return
	}
	event := domain.LedgerEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		UserID:       userID,
		Transactions: txns,
		Balances:     balances,
		OccurredAt:   s.Now(),
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.LogWarn(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(eventType)),
			slog.String("event_id", event.EventID))
	}
}
