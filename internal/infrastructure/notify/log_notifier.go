package notify

import (
	"context"

	"github.com/markethub/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of a broker. Used in
// development and when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the notification
func (n *LogNotifier) Send(ctx context.Context, subject, recipient, body string) error {
	n.logger.Info("notification",
		zap.String("subject", subject),
		zap.String("recipient", recipient),
		zap.String("body", body))
	return nil
}

// Ensure LogNotifier implements Notifier interface
var _ notification.Notifier = (*LogNotifier)(nil)
