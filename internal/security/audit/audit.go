package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger emits structured audit lines for marketplace actions
// (registrations, logins, listing submissions)
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new audit logger
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAction records who did what to which resource
func (al *Logger) LogAction(ctx context.Context, accountID, action, resource, resourceID, status string) {
	requestID := ""
	if reqID := ctx.Value("request_id"); reqID != nil {
		requestID, _ = reqID.(string)
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("account_id", accountID),
		slog.String("status", status),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}
