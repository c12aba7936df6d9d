package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veritrace/provenance/internal/core/domain"
)

const (
	streamKey    = "trace:events"
	streamMaxLen = 100_000
)

// StreamPublisher appends trace events to a capped Redis stream for
// downstream traceability consumers.
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a StreamPublisher wrapping the given client.
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// Publish appends one event to the stream. Entries are trimmed
// approximately at streamMaxLen; the Mongo audit collection is the
// authoritative log.
func (p *StreamPublisher) Publish(ctx context.Context, event *domain.TraceEvent) error {
	values := map[string]any{
		"type":      string(event.Type),
		"account":   event.Account,
		"timestamp": event.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if event.ProductID != "" {
		values["product_id"] = event.ProductID
	}
	if event.Step != nil {
		values["step"] = strconv.Itoa(*event.Step)
	}
	if event.Reward != nil {
		values["reward"] = strconv.FormatUint(*event.Reward, 10)
	}
	if event.Authority != "" {
		values["authority"] = event.Authority
	}

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("stream publish: %w", err)
	}
	return nil
}
