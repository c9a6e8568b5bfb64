package messaging

import (
	"context"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

// Notifier dispatches notifications for high-priority insights. A nil or
// disconnected notifier is never fatal to transcript processing.
type Notifier interface {
	// NotifyHighPriority publishes one notification per insight
	NotifyHighPriority(ctx context.Context, insights []insight.Insight) error
}
