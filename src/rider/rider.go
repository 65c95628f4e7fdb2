// Package rider implements the journey of a single building visitor, from
// walking up to the hall through riding a car to leaving the floor.
package rider

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/stats"
	"liftsim/src/types"
)

// World is the part of the building a rider observes and calls into.
type World interface {
	// ActiveCars returns the cars currently eligible for assignment.
	ActiveCars() []*elev.Car
	// Car returns nil for an unknown id.
	Car(id types.CarID) *elev.Car
	RequestCar(call types.CallRequest)
	CallPending(call types.CallRequest) bool
}

// Env carries the shared collaborators every rider needs.
type Env struct {
	Cfg      *config.Config
	Stats    *stats.Stats
	Listener events.Listener
	Rand     *rand.Rand
}

type Rider struct {
	id      types.RiderID
	origin  int
	dest    int
	arrival time.Duration
	state   types.RiderState
	pos     types.Vec3
	path    path
	car     types.CarID
	speed   float64 // units per ms
	body    Body
	fare    float64

	lastCall time.Duration
	fullCar  types.CarID

	env Env
}

type View struct {
	ID          types.RiderID    `json:"id"`
	Origin      int              `json:"origin"`
	Destination int              `json:"destination"`
	State       types.RiderState `json:"state"`
	Position    types.Vec3       `json:"position"`
	Car         types.CarID      `json:"car,omitempty"`
	Body        Body             `json:"body"`
	Arrival     time.Duration    `json:"arrival"`
	Fare        float64          `json:"fare"`
}

// New spawns a rider at the edge of origin floor, about to walk to a waiting
// spot. The caller is responsible for counting it as waiting.
func New(id types.RiderID, origin, dest int, now time.Duration, env Env) *Rider {
	env.Listener = events.OrNop(env.Listener)
	cfg, rnd := env.Cfg, env.Rand
	width := cfg.Geometry.CanvasWidth

	dir := randomSign(rnd)
	enterX := width/2 - dir*width/2
	r := &Rider{
		id:      id,
		origin:  origin,
		dest:    dest,
		arrival: now,
		state:   types.Arriving,
		pos:     types.Vec3{X: enterX, Y: cfg.FloorY(origin), Z: randomFloorZ(rnd)},
		speed:   max(0.05, gaussian(rnd, 300, 50)/1000),
		body:    newBody(rnd),
		env:     env,
	}
	waitX := enterX + dir*gaussian(rnd, width/3, width/4)
	r.path = path{{X: waitX, Y: r.pos.Y, Z: r.pos.Z}}
	return r
}

func (r *Rider) ID() types.RiderID       { return r.id }
func (r *Rider) Origin() int             { return r.origin }
func (r *Rider) Destination() int        { return r.dest }
func (r *Rider) State() types.RiderState { return r.state }
func (r *Rider) Position() types.Vec3    { return r.pos }
func (r *Rider) Car() types.CarID        { return r.car }
func (r *Rider) Body() Body              { return r.body }
func (r *Rider) Fare() float64           { return r.fare }
func (r *Rider) Done() bool              { return r.state == types.Exited }

func (r *Rider) View() View {
	return View{
		ID:          r.id,
		Origin:      r.origin,
		Destination: r.dest,
		State:       r.state,
		Position:    r.pos,
		Car:         r.car,
		Body:        r.body,
		Arrival:     r.arrival,
		Fare:        r.fare,
	}
}

func (r *Rider) call() types.CallRequest {
	return types.CallRequest{Floor: r.origin, Dir: types.DirectionOf(r.origin, r.dest)}
}

func (r *Rider) goingUp() bool {
	return r.dest > r.origin
}

// Update advances the rider. now is the simulation time after this tick and
// elapsed the time since the previous one.
func (r *Rider) Update(w World, now, elapsed time.Duration) {
	step := r.speed * float64(max(elapsed, 0)) / float64(time.Millisecond)

	switch r.state {
	case types.Arriving:
		if r.path.follow(&r.pos, step) {
			r.transition(types.Waiting)
			r.env.Listener.OnRiderArriving(r.event(now))
			r.requestCar(w, now)
		}
	case types.Waiting:
		r.wait(w, now)
	case types.Boarding:
		r.board(w, now, step)
	case types.Riding:
		r.ride(w, now)
	case types.Exiting:
		if r.path.follow(&r.pos, step) {
			r.transition(types.Exited)
			slog.Debug("Rider exited", "rider", r.id, "floor", r.dest)
		}
	}
}

func (r *Rider) requestCar(w World, now time.Duration) {
	r.lastCall = now
	w.RequestCar(r.call())
}

func (r *Rider) wait(w World, now time.Duration) {
	var full *elev.Car
	for _, car := range w.ActiveCars() {
		if !car.OpenAt(r.origin) {
			continue
		}
		if r.env.Cfg.ControlMode != types.Manual && car.GoingUp() != r.goingUp() {
			continue
		}
		if !car.HasRoom() {
			full = car
			continue
		}
		if !car.AddRider(r.id) {
			continue
		}
		car.GoTo(r.dest, false)
		r.car = car.ID()
		r.fullCar = types.NoCar
		r.path = r.boardingPath(car.ID())
		r.transition(types.Boarding)
		return
	}

	if full == nil {
		r.fullCar = types.NoCar
	} else if full.ID() != r.fullCar {
		r.fullCar = full.ID()
		r.env.Listener.OnCarFull(events.CarEvent{
			Car:    full.ID(),
			Floor:  r.origin,
			Riders: full.Occupancy(),
			At:     now,
		})
	}

	if now-r.lastCall >= config.RecallInterval && !w.CallPending(r.call()) && !r.served(w) {
		slog.Debug("Rider calling again", "rider", r.id, "call", r.call())
		r.requestCar(w, now)
	}
}

// served reports whether some active car is already heading to, or standing
// with open doors at, the rider's floor.
func (r *Rider) served(w World) bool {
	for _, car := range w.ActiveCars() {
		if car.HasDestination(r.origin) {
			return true
		}
		if car.AtFloor(r.origin) && car.State() != types.Idle && car.State() != types.Moving {
			return true
		}
	}
	return false
}

func (r *Rider) board(w World, now time.Duration, step float64) {
	car := w.Car(r.car)
	if car == nil || !car.Active() || car.State() != types.DoorOpen {
		r.abortBoarding(w, car, now)
		return
	}
	if r.path.follow(&r.pos, step) {
		r.env.Stats.RiderBoarded(r.body.Weight)
		r.transition(types.Riding)
		slog.Debug("Rider boarded", "rider", r.id, "car", r.car, "floor", r.origin)
	}
}

func (r *Rider) abortBoarding(w World, car *elev.Car, now time.Duration) {
	if car != nil {
		car.RemoveRider(r.id)
	}
	slog.Debug("Rider too late", "rider", r.id, "car", r.car, "floor", r.origin)
	e := r.event(now)
	r.car = types.NoCar
	r.env.Listener.OnRiderTooLate(e)
	r.requestCar(w, now)
	r.transition(types.Waiting)
}

func (r *Rider) ride(w World, now time.Duration) {
	car := w.Car(r.car)
	if car == nil {
		r.strand(w, nil, now)
		return
	}

	r.pos.Y = car.Y()
	if car.OpenAt(r.dest) {
		car.RemoveRider(r.id)
		r.leave(now)
		return
	}
	if !car.Active() {
		r.strand(w, car, now)
	}
}

// strand handles a car that became unavailable under a riding rider: the
// rider starts over from the nearest floor, or simply leaves if that is its
// destination. car is nil when the id no longer resolves.
func (r *Rider) strand(w World, car *elev.Car, now time.Duration) {
	slog.Warn("Rider lost its car", "rider", r.id, "car", r.car)
	if car != nil {
		car.RemoveRider(r.id)
	}
	r.origin = r.env.Cfg.FloorFromY(r.pos.Y)
	r.pos.Y = r.env.Cfg.FloorY(r.origin)
	if r.origin == r.dest {
		r.leave(now)
		return
	}
	r.env.Stats.RiderStranded(r.body.Weight)
	r.car = types.NoCar
	r.transition(types.Waiting)
	r.requestCar(w, now)
}

// leave charges the fare and starts the walk out of the car.
func (r *Rider) leave(now time.Duration) {
	r.path = r.exitPath(r.car)
	r.env.Stats.RiderLeft(r.body.Weight)
	trip := now - r.arrival
	r.fare = r.env.Stats.ChargeRider(trip)
	e := r.event(now)
	e.Fare, e.Trip = r.fare, trip
	r.env.Listener.OnRiderLeaving(e)
	r.transition(types.Exiting)
}

func (r *Rider) event(now time.Duration) events.RiderEvent {
	return events.RiderEvent{
		Rider: r.id,
		Floor: r.env.Cfg.FloorFromY(r.pos.Y),
		Dest:  r.dest,
		Car:   r.car,
		At:    now,
	}
}

func randomFloorZ(rnd *rand.Rand) float64 {
	return mapRange(rnd.Float64(), 0, 1, -20, 20)
}

func (r *Rider) outsideDoor(car types.CarID) types.Vec3 {
	g, rnd := r.env.Cfg.Geometry, r.env.Rand
	return types.Vec3{
		X: r.env.Cfg.CarCenterX(car) + fuzz(rnd, 2),
		Y: r.pos.Y,
		Z: g.CarCenterZ + g.CarDepth + fuzz(rnd, 2),
	}
}

func (r *Rider) boardingPath(car types.CarID) path {
	g, rnd := r.env.Cfg.Geometry, r.env.Rand
	inside := types.Vec3{
		X: r.env.Cfg.CarCenterX(car) + fuzz(rnd, g.CarWidth*0.4),
		Y: r.pos.Y,
		Z: g.CarCenterZ + fuzz(rnd, g.CarDepth*0.4),
	}
	return path{r.outsideDoor(car), inside}
}

func (r *Rider) exitPath(car types.CarID) path {
	g, rnd := r.env.Cfg.Geometry, r.env.Rand
	nearDoor := types.Vec3{
		X: r.env.Cfg.CarCenterX(car) + fuzz(rnd, 2),
		Y: r.pos.Y,
		Z: g.CarCenterZ + g.CarDepth/2 - 5 + fuzz(rnd, 2),
	}
	outside := r.outsideDoor(car)
	exit := types.Vec3{
		X: g.CanvasWidth/2 - randomSign(rnd)*g.CanvasWidth/2,
		Y: r.pos.Y,
		Z: randomFloorZ(rnd),
	}
	return path{nearDoor, outside, exit}
}

var riderTransitions = map[types.RiderState][]types.RiderState{
	types.Arriving: {types.Waiting},
	types.Waiting:  {types.Boarding},
	types.Boarding: {types.Riding, types.Waiting},
	types.Riding:   {types.Exiting, types.Waiting},
	types.Exiting:  {types.Exited},
}

func (r *Rider) transition(to types.RiderState) {
	for _, allowed := range riderTransitions[r.state] {
		if allowed == to {
			slog.Debug("Rider state change", "rider", r.id, "from", r.state, "to", to)
			r.state = to
			return
		}
	}
	slog.Error("Invalid rider transition", "rider", r.id, "from", r.state, "to", to)
}
