package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/ports"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.AuditEvent
	topics []string
}

func (p *capturePublisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(ports.AuditEvent))
	p.topics = append(p.topics, topic)
	return nil
}

func (p *capturePublisher) snapshot() []ports.AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.AuditEvent, len(p.events))
	copy(out, p.events)
	return out
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

func TestDispatcher_PublishesEnqueuedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &capturePublisher{}
	d := NewDispatcher(2, pub, "account.audit", zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.AuditEvent{Kind: ports.EventAccountBanned, AccountID: 2000001})
	d.Enqueue(ports.AuditEvent{Kind: ports.EventAccountUnbanned, AccountID: 2000002})

	waitFor(t, func() bool { return len(pub.snapshot()) == 2 })

	pub.mu.Lock()
	defer pub.mu.Unlock()
	for _, topic := range pub.topics {
		if topic != "account.audit" {
			t.Fatalf("unexpected topic %q", topic)
		}
	}
}

func TestDispatcher_PerAccountOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &capturePublisher{}
	d := NewDispatcher(4, pub, "account.audit", zerolog.Nop())
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		d.Enqueue(ports.AuditEvent{Kind: ports.EventCreditsTransferred, AccountID: 2000001, Amount: int64(i)})
	}

	waitFor(t, func() bool { return len(pub.snapshot()) == n })

	// Same account id always hashes to the same worker, so amounts must
	// arrive in enqueue order.
	events := pub.snapshot()
	for i, event := range events {
		if event.Amount != int64(i) {
			t.Fatalf("event %d out of order: amount %d", i, event.Amount)
		}
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(4, &capturePublisher{}, "account.audit", zerolog.Nop())
	first := d.shardIndex(2000001)
	for i := 0; i < 10; i++ {
		if d.shardIndex(2000001) != first {
			t.Fatalf("shard index not stable")
		}
	}
}
