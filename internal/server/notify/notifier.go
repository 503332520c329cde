// Package notify delivers out-of-band user notifications (approval mails,
// invoice documents) through a message queue consumed by a separate mailer.
package notify

import "context"

// Message is one notification job for the mailer.
type Message struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// Notifier enqueues notification jobs. Delivery is best-effort: callers log
// failures but never roll back business state because of them.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
