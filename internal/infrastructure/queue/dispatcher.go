package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/api/metrics"
	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes trace events to a fixed set of workers using consistent
// hashing on the product id, guaranteeing per-product delivery ordering.
// Each worker writes the event to the Mongo audit collection and appends it
// to the Redis stream.
type Dispatcher struct {
	workers []chan domain.TraceEvent
	repo    ports.EventRepository
	pub     ports.EventPublisher
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.EventRepository, pub ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TraceEvent, numWorkers),
		repo:    repo,
		pub:     pub,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TraceEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Emit sends an event to the worker responsible for its shard key.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Emit(event domain.TraceEvent) {
	idx := d.shardIndex(event)
	d.workers[idx] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps an event deterministically to a worker index. Events
// without a product id (authority updates) shard on the acting account.
func (d *Dispatcher) shardIndex(event domain.TraceEvent) int {
	key := event.ProductID
	if key == "" {
		key = event.Account
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TraceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, event)
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

// deliver writes the event to the audit collection and the stream. Either
// sink failing is logged and counted, never retried here; the operation
// that emitted the event has already committed.
func (d *Dispatcher) deliver(ctx context.Context, workerID int, event domain.TraceEvent) {
	start := time.Now()
	label := string(event.Type)

	if err := d.repo.Insert(ctx, &event); err != nil {
		label = "error"
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("product_id", event.ProductID).
			Int("worker_id", workerID).
			Msg("failed to insert trace event")
	}
	if err := d.pub.Publish(ctx, &event); err != nil {
		label = "error"
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("product_id", event.ProductID).
			Int("worker_id", workerID).
			Msg("failed to publish trace event")
	}

	metrics.EventPublishDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}
