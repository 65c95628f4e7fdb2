// Package dispatcher owns the hall call queue, the active car subset, the
// live riders and rider spawning. Process is called once per simulation step.
package dispatcher

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/rider"
	"liftsim/src/stats"
	"liftsim/src/types"
)

type Dispatcher struct {
	cfg      *config.Config
	cars     []*elev.Car
	stats    *stats.Stats
	listener events.Listener
	rnd      *rand.Rand

	calls   callQueue
	active  activeSet
	held    bool
	riders  []*rider.Rider
	nextID  types.RiderID
	spawner *Spawner
	spawn   bool
	now     time.Duration
}

// New creates a dispatcher over cars. Cars are indexed by ID-1.
func New(cfg *config.Config, cars []*elev.Car, st *stats.Stats, listener events.Listener, rnd *rand.Rand) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		cars:     cars,
		stats:    st,
		listener: events.OrNop(listener),
		rnd:      rnd,
		active:   newActiveSet(),
		nextID:   1,
		spawner:  NewSpawner(rnd),
		spawn:    true,
	}
	d.active.refresh(cars, cfg.NumActiveCars)
	return d
}

// Process runs one dispatcher step:
//   - every live rider is updated and exited riders are dropped
//   - at most one pending call is assigned to a car
//   - new riders are spawned for the configured passenger load
//   - idle cost is charged for the elapsed time
func (d *Dispatcher) Process(elapsed time.Duration) {
	elapsed = max(elapsed, 0)
	d.now += elapsed
	active := d.ActiveCars()

	for _, r := range d.riders {
		r.Update(d, d.now, elapsed)
	}
	d.riders = slices.DeleteFunc(d.riders, (*rider.Rider).Done)

	d.assignNext(active)

	if d.spawn {
		n := d.spawner.Arrivals(ArrivalRate(d.cfg.PassengerLoad, d.now), elapsed)
		for range n {
			origin, dest := d.spawner.Trip(d.cfg.NumFloors)
			d.SpawnRider(origin, dest)
		}
	}

	d.stats.AddIdleCost(elapsed, len(active))
}

// assignNext resolves the oldest pending call. Nothing is resolved in manual
// control mode. Without active cars calls are held in the queue until some
// car becomes active again.
func (d *Dispatcher) assignNext(active []*elev.Car) {
	if d.cfg.ControlMode != types.Auto || d.calls.len() == 0 {
		return
	}
	if len(active) == 0 {
		if !d.held {
			slog.Warn("No active cars, holding calls", "pending", d.calls.len())
			d.held = true
		}
		return
	}
	if d.held {
		slog.Info("Active cars available, releasing held calls", "pending", d.calls.len())
		d.held = false
	}

	call, _ := d.calls.pop()
	car := findAssignee(d.cfg, active, call)
	car.GoTo(call.Floor, false)
}

// SpawnRider adds a rider walking in on origin, bound for dest. Invalid trips are ignored.
func (d *Dispatcher) SpawnRider(origin, dest int) *rider.Rider {
	if !d.cfg.ValidFloor(origin) || !d.cfg.ValidFloor(dest) || origin == dest {
		slog.Warn("Ignoring invalid rider trip", "origin", origin, "destination", dest)
		return nil
	}
	r := rider.New(d.nextID, origin, dest, d.now, rider.Env{
		Cfg:      d.cfg,
		Stats:    d.stats,
		Listener: d.listener,
		Rand:     d.rnd,
	})
	d.nextID++
	d.riders = append(d.riders, r)
	d.stats.RiderSpawned()
	slog.Debug("Rider spawned", "rider", r.ID(), "origin", origin, "destination", dest)
	return r
}

// SetSpawning turns automatic rider arrivals on or off.
func (d *Dispatcher) SetSpawning(on bool) {
	d.spawn = on
}

// ActiveCars returns the cars taking automatic calls, refreshing the selection
// if the configured count changed.
func (d *Dispatcher) ActiveCars() []*elev.Car {
	return d.active.refresh(d.cars, d.cfg.NumActiveCars)
}

func (d *Dispatcher) Car(id types.CarID) *elev.Car {
	if id < 1 || int(id) > len(d.cars) {
		return nil
	}
	return d.cars[id-1]
}

// RequestCar queues a hall call. Duplicate and out-of-range calls are ignored.
func (d *Dispatcher) RequestCar(call types.CallRequest) {
	if !d.cfg.ValidFloor(call.Floor) {
		slog.Warn("Ignoring call for out-of-range floor", "call", call)
		return
	}
	if d.calls.push(call) {
		slog.Debug("Call queued", "call", call, "pending", d.calls.len())
	}
}

func (d *Dispatcher) CallPending(call types.CallRequest) bool {
	return d.calls.contains(call)
}

func (d *Dispatcher) PendingCalls() []types.CallRequest {
	return d.calls.snapshot()
}

func (d *Dispatcher) Riders() []*rider.Rider {
	return slices.Clone(d.riders)
}

// Now is the simulation time processed so far.
func (d *Dispatcher) Now() time.Duration {
	return d.now
}
