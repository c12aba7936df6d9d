package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.TraceEvent
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, event *domain.TraceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TraceEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *domain.TraceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestDispatcher_DeliversToBothSinks(t *testing.T) {
	repo := &recordingRepo{}
	pub := &recordingPublisher{}
	d := NewDispatcher(2, repo, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Emit(domain.TraceEvent{
			Type:      domain.EventProductAdded,
			ProductID: "PRD-001",
			Account:   "acct_producer",
			Timestamp: time.Now().UTC(),
		})
	}

	waitFor(t, func() bool { return repo.count() == 10 && pub.count() == 10 })
}

func TestDispatcher_SameProductSameOrder(t *testing.T) {
	repo := &recordingRepo{}
	pub := &recordingPublisher{}
	d := NewDispatcher(4, repo, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// All events for one product land on one worker, preserving order.
	for i := 0; i < 20; i++ {
		step := i
		d.Emit(domain.TraceEvent{
			Type:      domain.EventProductVerified,
			ProductID: "PRD-ordered",
			Account:   "acct_verifier",
			Timestamp: time.Now().UTC(),
			Step:      &step,
		})
	}

	waitFor(t, func() bool { return repo.count() == 20 })

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, ev := range repo.events {
		if ev.Step == nil || *ev.Step != i {
			t.Fatalf("event %d out of order: %+v", i, ev)
		}
	}
}

func TestDispatcher_AuthorityEventShardsOnAccount(t *testing.T) {
	repo := &recordingRepo{}
	pub := &recordingPublisher{}
	d := NewDispatcher(3, repo, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Emit(domain.TraceEvent{
		Type:      domain.EventAuthorityUpdated,
		Account:   "acct_admin",
		Authority: "http://authority-v2.internal",
		Timestamp: time.Now().UTC(),
	})

	waitFor(t, func() bool { return repo.count() == 1 && pub.count() == 1 })
}

func TestDispatcher_InsertFailureStillPublishes(t *testing.T) {
	repo := &recordingRepo{err: errors.New("write failed")}
	pub := &recordingPublisher{}
	d := NewDispatcher(1, repo, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Emit(domain.TraceEvent{
		Type:      domain.EventProductAdded,
		ProductID: "PRD-001",
		Timestamp: time.Now().UTC(),
	})

	// The audit write failing must not block the stream publish.
	waitFor(t, func() bool { return pub.count() == 1 })
}
