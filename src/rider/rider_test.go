package rider

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/stats"
	"liftsim/src/types"
)

const tick = 10 * time.Millisecond

type fakeWorld struct {
	cars  []*elev.Car
	calls []types.CallRequest
}

func (w *fakeWorld) ActiveCars() []*elev.Car {
	var active []*elev.Car
	for _, car := range w.cars {
		if car.Active() {
			active = append(active, car)
		}
	}
	return active
}

func (w *fakeWorld) Car(id types.CarID) *elev.Car {
	for _, car := range w.cars {
		if car.ID() == id {
			return car
		}
	}
	return nil
}

func (w *fakeWorld) RequestCar(call types.CallRequest) {
	w.calls = append(w.calls, call)
}

func (w *fakeWorld) CallPending(call types.CallRequest) bool {
	return slices.Contains(w.calls, call)
}

type fixture struct {
	cfg   *config.Config
	stats *stats.Stats
	world *fakeWorld
	env   Env
	now   time.Duration
}

func newFixture(t *testing.T, cfg config.Config, listener events.Listener) *fixture {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	f := &fixture{cfg: &cfg, world: &fakeWorld{}}
	f.stats = stats.New(cfg.Economics)
	f.env = Env{Cfg: f.cfg, Stats: f.stats, Listener: listener, Rand: rand.New(rand.NewPCG(1, 2))}
	return f
}

func (f *fixture) addCar() *elev.Car {
	car := elev.New(types.CarID(len(f.world.cars)+1), f.cfg, f.stats, nil)
	car.SetActive(true)
	f.world.cars = append(f.world.cars, car)
	return car
}

// step updates riders before cars, the same order the building uses.
func (f *fixture) step(riders ...*Rider) {
	f.now += tick
	for _, r := range riders {
		r.Update(f.world, f.now, tick)
	}
	for _, car := range f.world.cars {
		car.Update(tick)
	}
}

// openAt drives car to floor and waits until its doors are fully open.
func (f *fixture) openAt(t *testing.T, car *elev.Car, floor int) {
	t.Helper()
	car.GoTo(floor, true)
	for i := 0; i < int(time.Minute/tick); i++ {
		if car.OpenAt(floor) {
			return
		}
		f.step()
	}
	t.Fatalf("car %d never opened at floor %d", car.ID(), floor)
}

// waitingRider returns a rider already standing in the hall of origin.
func (f *fixture) waitingRider(id types.RiderID, origin, dest int) *Rider {
	r := New(id, origin, dest, f.now, f.env)
	r.state = types.Waiting
	r.path = nil
	r.pos = types.Vec3{X: 0, Y: f.cfg.FloorY(origin), Z: 0}
	r.speed = 0.3
	r.lastCall = f.now
	f.stats.RiderSpawned()
	return r
}

func TestNewRider(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	for i := range 200 {
		r := New(types.RiderID(i), 3, 7, 0, f.env)
		if r.State() != types.Arriving || r.Position().Y != f.cfg.FloorY(3) {
			t.Fatalf("unexpected new rider %+v", r.View())
		}
		if r.speed < 0.05 {
			t.Fatalf("walking speed %g below floor", r.speed)
		}
		b := r.Body()
		if b.Height < 1 || b.Height > 2.2 || b.Weight < 30 || b.Weight > 150 || b.Width <= 0 {
			t.Fatalf("body out of range: %+v", b)
		}
		if len(r.path) != 1 {
			t.Fatalf("expected a single arriving waypoint, got %d", len(r.path))
		}
	}
}

func TestArrivingRiderCallsOnce(t *testing.T) {
	var arrived int
	f := newFixture(t, config.Default(), events.Funcs{
		RiderArriving: func(events.RiderEvent) { arrived++ },
	})
	r := New(1, 4, 2, 0, f.env)
	r.speed = 1
	for i := 0; i < 1000 && r.State() == types.Arriving; i++ {
		f.step(r)
	}
	if r.State() != types.Waiting {
		t.Fatalf("rider should be waiting, got %v", r.State())
	}
	want := []types.CallRequest{{Floor: 4, Dir: types.Down}}
	if !slices.Equal(f.world.calls, want) || arrived != 1 {
		t.Errorf("expected one call %v and one arrival event, got %v and %d", want, f.world.calls, arrived)
	}
}

func TestFullJourney(t *testing.T) {
	cfg := config.Default()
	cfg.DoorOpenHold = 10 * time.Second
	var left []events.RiderEvent
	f := newFixture(t, cfg, events.Funcs{
		RiderLeaving: func(e events.RiderEvent) { left = append(left, e) },
	})
	car := f.addCar()
	r := New(1, 1, 3, 0, f.env)
	r.speed = 0.3
	f.stats.RiderSpawned()

	seen := map[types.RiderState]bool{}
	for i := 0; i < int(5*time.Minute/tick) && !r.Done(); i++ {
		f.step(r)
		for _, call := range f.world.calls {
			car.GoTo(call.Floor, false)
		}
		f.world.calls = nil
		seen[r.State()] = true
		if car.Occupancy() > cfg.MaxRidersPerCar {
			t.Fatal("car over capacity")
		}
	}

	for _, s := range []types.RiderState{types.Waiting, types.Boarding, types.Riding, types.Exiting, types.Exited} {
		if !seen[s] {
			t.Errorf("rider never was %v", s)
		}
	}
	snap := f.stats.Snapshot()
	if snap.Served != 1 || snap.Waiting != 0 || snap.Riding != 0 {
		t.Errorf("unexpected counts %+v", snap)
	}
	if snap.Payments != r.Fare() || r.Fare() <= 0 {
		t.Errorf("fare %g not booked, payments %g", r.Fare(), snap.Payments)
	}
	if len(left) != 1 || left[0].Fare != r.Fare() || left[0].Car != car.ID() {
		t.Errorf("unexpected leaving events %+v", left)
	}
	if car.Occupancy() != 0 {
		t.Errorf("car still holds %d riders", car.Occupancy())
	}
	if r.Position().Y != cfg.FloorY(3) {
		t.Errorf("rider should be on floor 3, y=%g", r.Position().Y)
	}
}

func TestDoorClosingCancelsBoarding(t *testing.T) {
	cfg := config.Default()
	cfg.DoorOpenHold = 100 * time.Millisecond
	var tooLate int
	f := newFixture(t, cfg, events.Funcs{
		RiderTooLate: func(events.RiderEvent) { tooLate++ },
	})
	car := f.addCar()
	f.openAt(t, car, 1)
	r := f.waitingRider(1, 1, 5)

	f.step(r)
	if r.State() != types.Boarding || car.Occupancy() != 1 {
		t.Fatalf("rider should be boarding, got %v with occupancy %d", r.State(), car.Occupancy())
	}

	for i := 0; i < 100 && r.State() == types.Boarding; i++ {
		f.step(r)
	}
	if r.State() != types.Waiting {
		t.Fatalf("boarding should have been cancelled, got %v", r.State())
	}
	if r.Car() != types.NoCar || car.Occupancy() != 0 {
		t.Errorf("rider still attached to car %d, occupancy %d", r.Car(), car.Occupancy())
	}
	if tooLate != 1 {
		t.Errorf("expected one too-late event, got %d", tooLate)
	}
	want := []types.CallRequest{{Floor: 1, Dir: types.Up}}
	if !slices.Equal(f.world.calls, want) {
		t.Fatalf("expected exactly one call after cancellation, got %v", f.world.calls)
	}

	for range 200 {
		f.step(r)
	}
	if len(f.world.calls) != 1 || tooLate != 1 {
		t.Errorf("rider called again without a new cancellation: %v", f.world.calls)
	}
}

func TestWaitingRespectsDirection(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	car := f.addCar()
	f.openAt(t, car, 5)
	for car.State() != types.Idle {
		f.step()
	}
	f.openAt(t, car, 3)
	if car.GoingUp() {
		t.Fatal("car should be heading down after reversing")
	}

	r := f.waitingRider(1, 3, 7)
	f.step(r)
	if r.State() != types.Waiting || car.Occupancy() != 0 {
		t.Fatalf("rider going up boarded a car going down")
	}

	f.cfg.ControlMode = types.Manual
	f.step(r)
	if r.State() != types.Boarding || r.Car() != car.ID() {
		t.Errorf("manual mode should allow boarding any open car, got %v", r.State())
	}
}

func TestCarFullReportedOnce(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRidersPerCar = 1
	var full []events.CarEvent
	f := newFixture(t, cfg, events.Funcs{
		CarFull: func(e events.CarEvent) { full = append(full, e) },
	})
	car := f.addCar()
	f.openAt(t, car, 1)
	car.AddRider(99)
	r := f.waitingRider(1, 1, 4)

	for range 10 {
		f.step(r)
	}
	if r.State() != types.Waiting {
		t.Fatalf("rider boarded a full car")
	}
	if len(full) != 1 || full[0].Car != car.ID() || full[0].Floor != 1 {
		t.Errorf("expected one car-full event, got %+v", full)
	}
}

func TestInactiveCarCancelsBoarding(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	car := f.addCar()
	f.openAt(t, car, 1)
	r := f.waitingRider(1, 1, 5)
	f.step(r)
	if r.State() != types.Boarding {
		t.Fatalf("rider should be boarding, got %v", r.State())
	}

	car.SetActive(false)
	f.step(r)
	if r.State() != types.Waiting || car.Occupancy() != 0 {
		t.Errorf("boarding a deactivated car should be cancelled, got %v", r.State())
	}
}

func TestWaitingRiderCallsAgain(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	f.addCar()
	r := f.waitingRider(1, 4, 1)

	for f.now < config.RecallInterval-tick {
		f.step(r)
	}
	if len(f.world.calls) != 0 {
		t.Fatalf("rider called before its patience ran out: %v", f.world.calls)
	}
	for f.now < config.RecallInterval+time.Second {
		f.step(r)
	}
	want := []types.CallRequest{{Floor: 4, Dir: types.Down}}
	if !slices.Equal(f.world.calls, want) {
		t.Errorf("expected one repeated call, got %v", f.world.calls)
	}
}

func TestLostCarStrandsRider(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	r := f.waitingRider(1, 1, 5)
	r.state = types.Riding
	r.car = 7
	r.pos.Y = f.cfg.FloorY(2) + 10
	f.stats.RiderBoarded(r.body.Weight)

	f.step(r)
	if r.State() != types.Waiting || r.Origin() != 2 || r.Car() != types.NoCar {
		t.Fatalf("expected rider waiting on floor 2, got %+v", r.View())
	}
	if snap := f.stats.Snapshot(); snap.Riding != 0 || snap.Waiting != 1 {
		t.Errorf("unexpected counts %+v", snap)
	}
	want := []types.CallRequest{{Floor: 2, Dir: types.Up}}
	if !slices.Equal(f.world.calls, want) {
		t.Errorf("expected a call from floor 2, got %v", f.world.calls)
	}
}

func TestDeactivatedCarStrandsRider(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	car := f.addCar()
	r := f.waitingRider(1, 1, 8)
	r.state = types.Riding
	r.car = car.ID()
	car.AddRider(r.id)
	f.stats.RiderBoarded(r.body.Weight)

	car.GoTo(8, true)
	for i := 0; i < int(time.Minute/tick) && car.Y() < f.cfg.FloorY(3); i++ {
		f.step(r)
	}
	if r.State() != types.Riding {
		t.Fatalf("rider should still be riding, got %v", r.State())
	}

	car.SetActive(false)
	f.step(r)
	if r.State() != types.Waiting || r.Car() != types.NoCar || car.Occupancy() != 0 {
		t.Fatalf("rider should be set down from the deactivated car: %+v, occupancy %d", r.View(), car.Occupancy())
	}
	if r.Position().Y != f.cfg.FloorY(r.Origin()) || r.Origin() < 3 {
		t.Errorf("rider not placed on a floor near the car: %+v", r.View())
	}
	if snap := f.stats.Snapshot(); snap.Riding != 0 || snap.Waiting != 1 {
		t.Errorf("unexpected counts %+v", snap)
	}
	want := types.CallRequest{Floor: r.Origin(), Dir: types.Up}
	if !slices.Contains(f.world.calls, want) {
		t.Errorf("expected a call %v, got %v", want, f.world.calls)
	}
}

func TestRiderLeavesDeactivatedCarAtDestination(t *testing.T) {
	f := newFixture(t, config.Default(), nil)
	car := f.addCar()
	f.openAt(t, car, 4)
	r := f.waitingRider(1, 1, 4)
	r.state = types.Riding
	r.car = car.ID()
	car.AddRider(r.id)
	f.stats.RiderBoarded(r.body.Weight)

	car.SetActive(false)
	f.step(r)
	if r.State() != types.Exiting || car.Occupancy() != 0 {
		t.Errorf("rider should exit at its floor, got %v", r.State())
	}
	if f.stats.Snapshot().Served != 1 {
		t.Error("exit was not counted as served")
	}
}
