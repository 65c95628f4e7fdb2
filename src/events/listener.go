// Package events defines the outbound hooks fired by the simulation core.
// Hooks are called synchronously and must not block; the core never waits on
// their outcome and works unchanged with Nop.
package events

import (
	"time"

	"liftsim/src/types"
)

type RiderEvent struct {
	Rider types.RiderID
	Floor int
	Dest  int
	Car   types.CarID
	At    time.Duration
	Fare  float64
	Trip  time.Duration
}

type CarEvent struct {
	Car    types.CarID
	Floor  int
	Riders int
	At     time.Duration
}

type Listener interface {
	OnRiderArriving(RiderEvent)
	OnRiderLeaving(RiderEvent)
	OnRiderTooLate(RiderEvent)
	OnCarFull(CarEvent)
	OnCarArrivedAtFloor(CarEvent)
}

// Nop ignores every event.
type Nop struct{}

func (Nop) OnRiderArriving(RiderEvent)   {}
func (Nop) OnRiderLeaving(RiderEvent)    {}
func (Nop) OnRiderTooLate(RiderEvent)    {}
func (Nop) OnCarFull(CarEvent)           {}
func (Nop) OnCarArrivedAtFloor(CarEvent) {}

// Funcs adapts optional callbacks to a Listener. Nil fields are skipped.
type Funcs struct {
	RiderArriving   func(RiderEvent)
	RiderLeaving    func(RiderEvent)
	RiderTooLate    func(RiderEvent)
	CarFull         func(CarEvent)
	CarArrivedFloor func(CarEvent)
}

func (f Funcs) OnRiderArriving(e RiderEvent) {
	if f.RiderArriving != nil {
		f.RiderArriving(e)
	}
}

func (f Funcs) OnRiderLeaving(e RiderEvent) {
	if f.RiderLeaving != nil {
		f.RiderLeaving(e)
	}
}

func (f Funcs) OnRiderTooLate(e RiderEvent) {
	if f.RiderTooLate != nil {
		f.RiderTooLate(e)
	}
}

func (f Funcs) OnCarFull(e CarEvent) {
	if f.CarFull != nil {
		f.CarFull(e)
	}
}

func (f Funcs) OnCarArrivedAtFloor(e CarEvent) {
	if f.CarArrivedFloor != nil {
		f.CarArrivedFloor(e)
	}
}

// Multi fans every event out to all listeners in order.
type Multi []Listener

func (m Multi) OnRiderArriving(e RiderEvent) {
	for _, l := range m {
		l.OnRiderArriving(e)
	}
}

func (m Multi) OnRiderLeaving(e RiderEvent) {
	for _, l := range m {
		l.OnRiderLeaving(e)
	}
}

func (m Multi) OnRiderTooLate(e RiderEvent) {
	for _, l := range m {
		l.OnRiderTooLate(e)
	}
}

func (m Multi) OnCarFull(e CarEvent) {
	for _, l := range m {
		l.OnCarFull(e)
	}
}

func (m Multi) OnCarArrivedAtFloor(e CarEvent) {
	for _, l := range m {
		l.OnCarArrivedAtFloor(e)
	}
}

// OrNop returns l, or Nop if l is nil.
func OrNop(l Listener) Listener {
	if l == nil {
		return Nop{}
	}
	return l
}
