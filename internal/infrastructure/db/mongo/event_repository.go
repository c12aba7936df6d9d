package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

const collectionTraceEvents = "trace_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionTraceEvents)}
}

// Insert persists a trace event to the trace_events audit collection.
func (r *EventRepository) Insert(ctx context.Context, event *domain.TraceEvent) error {
	doc := bson.M{
		"type":         string(event.Type),
		"account":      event.Account,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.ProductID != "" {
		doc["product_id"] = event.ProductID
	}
	if event.Step != nil {
		doc["step"] = *event.Step
	}
	if event.Reward != nil {
		doc["reward"] = *event.Reward
	}
	if event.Authority != "" {
		doc["authority"] = event.Authority
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
