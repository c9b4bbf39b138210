package ports

import (
	"context"

	"github.com/hookline/notification-engine/internal/domain"
)

// EndpointTypeProcessor delivers one notification to its endpoint and reports
// the attempt as a history record. Implementations own their transport,
// retry/backoff and timeout policy; they must return a failed record rather
// than hang or panic.
type EndpointTypeProcessor interface {
	Process(ctx context.Context, notification domain.Notification) (domain.NotificationHistory, error)
}

// DispatchMetrics exposes the two counters the dispatch pipeline maintains.
// Both are monotonically increasing and incremented exactly once per
// corresponding event.
type DispatchMetrics interface {
	ActionProcessed()
	EndpointTargeted()
}
