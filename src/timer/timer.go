// Package timer drives the simulation from wall-clock time.
package timer

import (
	"context"
	"log/slog"
	"time"
)

type Action int

const (
	Start Action = iota
	Stop
)

// Ticker reports the wall time elapsed since the previous report on tickCh,
// measured every interval. Time that passes while the receiver is busy is
// added to the next report. Stop pauses it and Start resumes it; time spent
// paused is not reported. It returns when ctx is done.
func Ticker(ctx context.Context, interval time.Duration, tickCh chan<- time.Duration, action <-chan Action) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	running := true
	last := time.Now()

	var pending time.Duration
	var out chan<- time.Duration // nil while there is nothing to report

	for {
		select {
		case <-ctx.Done():
			return
		case a := <-action:
			switch {
			case a == Start && !running:
				running = true
				last = time.Now()
				ticker.Reset(interval)
				slog.Info("Simulation resumed")
			case a == Stop && running:
				running = false
				ticker.Stop()
				slog.Info("Simulation paused")
			}
		case now := <-ticker.C:
			if !running {
				continue
			}
			pending += now.Sub(last)
			last = now
			out = tickCh
		case out <- pending:
			pending = 0
			out = nil
		}
	}
}
