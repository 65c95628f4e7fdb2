// Package building wires cars, dispatcher and stats into one simulation and
// is the only entry point outer layers use to drive or change it.
package building

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"liftsim/src/config"
	"liftsim/src/dispatcher"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/stats"
	"liftsim/src/types"
)

var (
	ErrNotManual       = errors.New("manual calls need manual control mode")
	ErrUnknownCar      = errors.New("unknown car")
	ErrFloorOutOfRange = errors.New("floor out of range")
)

type options struct {
	listener events.Listener
	rnd      *rand.Rand
	noSpawn  bool
}

type Option func(*options)

// WithListener receives every simulation event.
func WithListener(l events.Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithRand replaces the generator seeded from the configuration.
func WithRand(rnd *rand.Rand) Option {
	return func(o *options) { o.rnd = rnd }
}

// WithoutSpawning disables random rider arrivals.
func WithoutSpawning() Option {
	return func(o *options) { o.noSpawn = true }
}

// Building is not safe for concurrent use. Wrap it in an executor.Mgr when
// more than one goroutine needs it.
type Building struct {
	cfg        config.Config
	cars       []*elev.Car
	stats      *stats.Stats
	dispatcher *dispatcher.Dispatcher
}

func New(cfg config.Config, opts ...Option) (*Building, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("building: %w", err)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>32|cfg.Seed<<32))
	}

	b := &Building{cfg: cfg}
	b.stats = stats.New(cfg.Economics)
	b.cars = make([]*elev.Car, cfg.NumCars)
	for i := range b.cars {
		b.cars[i] = elev.New(types.CarID(i+1), &b.cfg, b.stats, o.listener)
	}
	b.dispatcher = dispatcher.New(&b.cfg, b.cars, b.stats, o.listener, o.rnd)
	b.dispatcher.SetSpawning(!o.noSpawn)

	slog.Info("Building initialized",
		"cars", cfg.NumCars,
		"activeCars", cfg.NumActiveCars,
		"floors", cfg.NumFloors,
		"controlMode", cfg.ControlMode,
	)
	return b, nil
}

// Step advances the simulation by elapsed: the dispatcher runs first, then
// every car. Riders therefore see car state from the previous step.
func (b *Building) Step(elapsed time.Duration) {
	elapsed = max(elapsed, 0)
	b.dispatcher.Process(elapsed)
	for _, car := range b.cars {
		car.Update(elapsed)
	}
}

func (b *Building) Now() time.Duration {
	return b.dispatcher.Now()
}

func (b *Building) Config() config.Config {
	return b.cfg
}

// RequestManualCall sends car straight to floor, bypassing the call queue.
func (b *Building) RequestManualCall(id types.CarID, floor int) error {
	if b.cfg.ControlMode != types.Manual {
		return ErrNotManual
	}
	car := b.dispatcher.Car(id)
	if car == nil {
		return fmt.Errorf("%w: %d", ErrUnknownCar, id)
	}
	if !b.cfg.ValidFloor(floor) {
		return fmt.Errorf("%w: %d", ErrFloorOutOfRange, floor)
	}
	car.GoTo(floor, true)
	slog.Info("Manual call", "car", id, "floor", floor)
	return nil
}

// RequestCall queues a hall call as if pressed by someone on floor.
func (b *Building) RequestCall(floor int, dir types.Direction) error {
	if !b.cfg.ValidFloor(floor) {
		return fmt.Errorf("%w: %d", ErrFloorOutOfRange, floor)
	}
	b.dispatcher.RequestCar(types.CallRequest{Floor: floor, Dir: dir})
	return nil
}

// SpawnRider adds a rider arriving on origin, bound for dest.
func (b *Building) SpawnRider(origin, dest int) (types.RiderID, error) {
	if !b.cfg.ValidFloor(origin) || !b.cfg.ValidFloor(dest) {
		return 0, fmt.Errorf("%w: %d -> %d", ErrFloorOutOfRange, origin, dest)
	}
	if origin == dest {
		return 0, fmt.Errorf("rider origin and destination are both %d", origin)
	}
	return b.dispatcher.SpawnRider(origin, dest).ID(), nil
}

func (b *Building) SetControlMode(mode types.ControlMode) error {
	return b.update(func(c *config.Config) { c.ControlMode = mode })
}

func (b *Building) SetNumActiveCars(n int) error {
	return b.update(func(c *config.Config) { c.NumActiveCars = n })
}

func (b *Building) SetElevSpeed(speed int) error {
	return b.update(func(c *config.Config) { c.ElevSpeed = speed })
}

func (b *Building) SetPassengerLoad(level int) error {
	return b.update(func(c *config.Config) { c.PassengerLoad = level })
}

// update applies a runtime setting change if the result is still valid.
// Cars and dispatcher hold a pointer to b.cfg and see the change on their next update.
func (b *Building) update(change func(*config.Config)) error {
	next := b.cfg
	change(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	b.cfg = next
	slog.Info("Settings changed",
		"controlMode", next.ControlMode,
		"activeCars", next.NumActiveCars,
		"elevSpeed", next.ElevSpeed,
		"passengerLoad", next.PassengerLoad,
	)
	return nil
}
