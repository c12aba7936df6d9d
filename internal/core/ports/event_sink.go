package ports

import (
	"context"

	"github.com/veritrace/provenance/internal/core/domain"
)

// EventSink accepts trace events for asynchronous delivery. Emit must not
// block the calling operation beyond enqueueing.
type EventSink interface {
	Emit(event domain.TraceEvent)
}

// EventRepository persists trace events to the audit log.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.TraceEvent) error
}

// EventPublisher pushes trace events to downstream consumers (the Redis
// stream feed).
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.TraceEvent) error
}
