// Package executor owns the building in a single goroutine and serializes
// every access to it from the tick driver, the HTTP server and the keyboard.
package executor

import (
	"log/slog"
	"sync/atomic"
	"time"

	"liftsim/src/building"
)

// Cmd runs on the executor goroutine with exclusive access to the building.
type Cmd struct {
	Exec func(b *building.Building)
}

type Mgr struct {
	Cmds   chan Cmd
	latest atomic.Pointer[building.Snapshot]
}

// Start launches the goroutine that owns b. Close stops it.
func Start(b *building.Building) *Mgr {
	mgr := &Mgr{
		Cmds: make(chan Cmd),
	}
	snap := b.Snapshot()
	mgr.latest.Store(&snap)
	go func() {
		for cmd := range mgr.Cmds {
			cmd.Exec(b)
		}
		slog.Debug("Executor stopped")
	}()
	return mgr
}

// Close stops the executor. No method may be called afterwards.
func (mgr *Mgr) Close() {
	close(mgr.Cmds)
}

// Do runs fn on the building and waits for it to return.
func (mgr *Mgr) Do(fn func(b *building.Building)) {
	done := make(chan struct{})
	mgr.Cmds <- Cmd{
		Exec: func(b *building.Building) {
			defer close(done)
			fn(b)
		},
	}
	<-done
}

// Try runs a fallible operation on the building and returns its error.
func (mgr *Mgr) Try(fn func(b *building.Building) error) error {
	var err error
	mgr.Do(func(b *building.Building) {
		err = fn(b)
	})
	return err
}

// Step advances the simulation and publishes a fresh snapshot.
func (mgr *Mgr) Step(elapsed time.Duration) {
	mgr.Do(func(b *building.Building) {
		b.Step(elapsed)
		snap := b.Snapshot()
		mgr.latest.Store(&snap)
	})
}

// Latest returns a private copy of the snapshot published by the last Step.
// It does not wait for the executor.
func (mgr *Mgr) Latest() building.Snapshot {
	return mgr.latest.Load().Clone()
}
