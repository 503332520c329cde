package notify

import (
	"context"

	"github.com/shipshopglobal/backend/internal/logging"
)

// LogNotifier is the fallback used when no AMQP URL is configured: it logs
// each notification instead of enqueueing it. Useful in development.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.Info(ctx, "notification (log only)",
		"to", msg.To, "subject", msg.Subject, "attachment_url", msg.AttachmentURL)
	return nil
}
