package notification

import "context"

// Notifier sends fire-and-forget notifications to recipients. Callers treat
// failures as non-fatal: they are logged and swallowed, never propagated
// into the triggering operation.
type Notifier interface {
	Send(ctx context.Context, subject, recipient, body string) error
}
