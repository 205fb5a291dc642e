package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeListener struct {
	startErr error
	started  atomic.Bool
	stopped  atomic.Bool
}

func (f *fakeListener) Start(ctx context.Context) error {
	f.started.Store(true)
	if f.startErr != nil {
		return f.startErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeListener) Stop(context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestServe_StopsAllOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, b := &fakeListener{}, &fakeListener{}

	var ticks atomic.Int32
	loop := Background("ticker", func(ctx context.Context) {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ticks.Add(1)
			}
		}
	})

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, a, b, loop) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if !a.stopped.Load() || !b.stopped.Load() {
		t.Error("expected every listener to be stopped")
	}
	if ticks.Load() == 0 {
		t.Error("expected the background loop to run")
	}
}

func TestServe_ListenerFailureStopsOthers(t *testing.T) {
	boom := errors.New("bind: address in use")
	failing := &fakeListener{startErr: boom}
	healthy := &fakeListener{}

	err := Serve(context.Background(), failing, healthy)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if !healthy.stopped.Load() {
		t.Error("expected the healthy listener to be stopped")
	}
}
