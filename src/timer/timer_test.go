package timer

import (
	"context"
	"testing"
	"time"
)

func TestTickerReportsElapsedTime(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tickCh := make(chan time.Duration)
	go Ticker(ctx, 5*time.Millisecond, tickCh, make(chan Action))

	for range 3 {
		select {
		case elapsed := <-tickCh:
			if elapsed <= 0 {
				t.Errorf("expected positive elapsed time, got %v", elapsed)
			}
		case <-time.After(time.Second):
			t.Fatal("no tick received")
		}
	}
}

func TestTickerPauses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tickCh := make(chan time.Duration)
	action := make(chan Action)
	go Ticker(ctx, 5*time.Millisecond, tickCh, action)

	<-tickCh
	action <- Stop
	select {
	case <-tickCh:
		// A tick already in flight when Stop arrived.
	case <-time.After(20 * time.Millisecond):
	}
	select {
	case <-tickCh:
		t.Fatal("ticker kept running while paused")
	case <-time.After(50 * time.Millisecond):
	}

	action <- Start
	select {
	case elapsed := <-tickCh:
		if elapsed >= 50*time.Millisecond {
			t.Errorf("paused time was reported: %v", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("ticker did not resume")
	}
}

func TestTickerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Ticker(ctx, time.Millisecond, make(chan time.Duration), make(chan Action))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker ignored cancellation")
	}
}
