package services

import (
	"context"
	"log/slog"
	"time"

	"pfm-api/internal/rules"

	"github.com/google/uuid"
)

type contextKey string

// Context keys read by the audit logger. The request ID middleware stores the
// trace ID under CorrelationIDKey.
const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

// AuditLogger writes structured audit events for data-changing operations
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

func (al *AuditLogger) LogImport(ctx context.Context, userID, accountID uuid.UUID, received int, imported, duplicates int64, skipped int) {
	al.logger.InfoContext(ctx, "transactions imported",
		slog.String("event_type", "transactions_imported"),
		slog.String("user_id", userID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int("received", received),
		slog.Int64("imported", imported),
		slog.Int64("duplicates", duplicates),
		slog.Int("skipped", skipped),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogRulesApplied(ctx context.Context, userID uuid.UUID, assignments []rules.Assignment) {
	patterns := make(map[string]int)
	for _, a := range assignments {
		patterns[a.Pattern]++
	}

	al.logger.InfoContext(ctx, "categorization rules applied",
		slog.String("event_type", "rules_applied"),
		slog.String("user_id", userID.String()),
		slog.Int("updated", len(assignments)),
		slog.Int("patterns_matched", len(patterns)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogManualCategorization(ctx context.Context, userID, transactionID, categoryID uuid.UUID, keywords []string) {
	al.logger.InfoContext(ctx, "transaction categorized",
		slog.String("event_type", "manual_categorization"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.String("category_id", categoryID.String()),
		slog.Any("keywords", keywords),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionsCleared(ctx context.Context, userID uuid.UUID, deleted int64) {
	al.logger.WarnContext(ctx, "transactions cleared",
		slog.String("event_type", "transactions_cleared"),
		slog.String("user_id", userID.String()),
		slog.Int64("deleted", deleted),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogWorkspaceAction(ctx context.Context, userID uuid.UUID, action string, version int) {
	al.logger.InfoContext(ctx, "workspace action",
		slog.String("event_type", "workspace_action"),
		slog.String("user_id", userID.String()),
		slog.String("action", action),
		slog.Int("version", version),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogMonteCarloRun(ctx context.Context, simulations int, successProbability float64, durationMs int64) {
	al.logger.InfoContext(ctx, "monte carlo run",
		slog.String("event_type", "montecarlo_run"),
		slog.Int("simulations", simulations),
		slog.Float64("success_probability", successProbability),
		slog.Int64("duration_ms", durationMs),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogQuoteFetch(ctx context.Context, symbols []string, fetched int, durationMs int64) {
	al.logger.DebugContext(ctx, "quote fetch",
		slog.String("event_type", "quote_fetch"),
		slog.Any("symbols", symbols),
		slog.Int("fetched", fetched),
		slog.Int64("duration_ms", durationMs),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
