package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent("test_event", "payload_data")
	if ev.Type() != "test_event" {
		t.Errorf("Type: got %q, want %q", ev.Type(), "test_event")
	}
	if ev.Payload().(string) != "payload_data" {
		t.Errorf("Payload: got %v", ev.Payload())
	}
	if ev.Timestamp().IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 100)
	defer bus.Close()

	var received atomic.Int32
	bus.Subscribe(EventTypeIssueReported, func(ctx context.Context, ev Event) {
		received.Add(1)
	})

	for i := 0; i < 3; i++ {
		bus.Publish(context.Background(), NewEvent(EventTypeIssueReported, nil))
	}
	waitFor(t, func() bool { return received.Load() == 3 })
}

func TestInMemoryBus_WildcardSubscriber(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 100)
	defer bus.Close()

	var received atomic.Int32
	bus.Subscribe("*", func(ctx context.Context, ev Event) {
		received.Add(1)
	})

	bus.Publish(context.Background(), NewEvent("type_a", nil))
	bus.Publish(context.Background(), NewEvent("type_b", nil))
	waitFor(t, func() bool { return received.Load() == 2 })
}

func TestInMemoryBus_CloseDrainsAndStopsPublish(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 100)

	var received atomic.Int32
	bus.Subscribe("x", func(ctx context.Context, ev Event) {
		received.Add(1)
	})
	bus.Publish(context.Background(), NewEvent("x", nil))
	bus.Close()

	if received.Load() != 1 {
		t.Errorf("queued event should be delivered before Close returns, got %d", received.Load())
	}

	// Should not panic after close
	bus.Publish(context.Background(), NewEvent("x", nil))
	bus.Close()
}

func TestInMemoryBus_HandlerPanicRecovery(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 100)
	defer bus.Close()

	var safeReceived atomic.Int32
	bus.Subscribe("test", func(ctx context.Context, ev Event) {
		panic("handler crash")
	})
	bus.Subscribe("test", func(ctx context.Context, ev Event) {
		safeReceived.Add(1)
	})

	bus.Publish(context.Background(), NewEvent("test", nil))
	waitFor(t, func() bool { return safeReceived.Load() == 1 })
}

func TestInMemoryBus_HandlersOutliveRequestContext(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 10)
	defer bus.Close()

	var ctxErr atomic.Value
	done := make(chan struct{})
	bus.Subscribe("late", func(ctx context.Context, ev Event) {
		ctxErr.Store(ctx.Err() == nil)
		close(done)
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, NewEvent("late", nil))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	if ok, _ := ctxErr.Load().(bool); !ok {
		t.Error("handler context should not inherit cancellation")
	}
}

func TestInMemoryBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 1000)
	defer bus.Close()

	var received atomic.Int32
	bus.Subscribe("concurrent", func(ctx context.Context, ev Event) {
		received.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), NewEvent("concurrent", nil))
		}()
	}
	wg.Wait()
	waitFor(t, func() bool { return received.Load() == 100 })
}

func TestInMemoryBus_IssuePayload(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop(), 10)
	defer bus.Close()

	got := make(chan IssueReportedPayload, 1)
	bus.Subscribe(EventTypeIssueReported, func(ctx context.Context, ev Event) {
		got <- ev.Payload().(IssueReportedPayload)
	})

	bus.Publish(context.Background(), NewEvent(EventTypeIssueReported, IssueReportedPayload{
		HostID:  "h1",
		IssueID: "i1",
		Link:    "/properties/p1/issues/i1",
	}))

	select {
	case p := <-got:
		if p.HostID != "h1" || p.Link != "/properties/p1/issues/i1" {
			t.Errorf("unexpected payload %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}
