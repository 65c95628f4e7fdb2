// Package elev implements a single elevator car: its motion, door cycle,
// destination queue and occupant list.
package elev

import (
	"log/slog"
	"slices"
	"time"

	"liftsim/src/config"
	"liftsim/src/events"
	"liftsim/src/types"
)

// CostRecorder receives movement cost when a car starts a trip.
type CostRecorder interface {
	AddMovementCost(floors int, elevSpeed int)
}

type noCosts struct{}

func (noCosts) AddMovementCost(int, int) {}

// Car is owned by the building for the lifetime of the process. Its
// destination queue is only changed through GoTo and by arriving at a floor.
type Car struct {
	id           types.CarID
	y            float64
	goingUp      bool
	state        types.CarState
	doorFraction float64
	dest         []int
	riders       []types.RiderID
	active       bool

	cfg      *config.Config
	costs    CostRecorder
	listener events.Listener

	motion        motion
	now           time.Duration
	doorOpStarted time.Duration
	openSince     time.Duration
}

// View is a read-only copy of a car's state for presentation.
type View struct {
	ID           types.CarID     `json:"id"`
	Y            float64         `json:"y"`
	Floor        int             `json:"floor"`
	GoingUp      bool            `json:"goingUp"`
	State        types.CarState  `json:"state"`
	DoorFraction float64         `json:"doorFraction"`
	Destinations []int           `json:"destinations"`
	Occupancy    int             `json:"occupancy"`
	Riders       []types.RiderID `json:"riders"`
	Active       bool            `json:"active"`
}

// New creates car id, idle at floor 1 with doors closed and heading up.
func New(id types.CarID, cfg *config.Config, costs CostRecorder, listener events.Listener) *Car {
	car := &Car{
		id:       id,
		y:        cfg.FloorY(1),
		goingUp:  true,
		state:    types.Idle,
		cfg:      cfg,
		costs:    costs,
		listener: events.OrNop(listener),
	}
	if car.costs == nil {
		car.costs = noCosts{}
	}
	slog.Debug("Car initialized", "car", id)
	return car
}

func (c *Car) ID() types.CarID         { return c.id }
func (c *Car) Y() float64              { return c.y }
func (c *Car) GoingUp() bool           { return c.goingUp }
func (c *Car) State() types.CarState   { return c.state }
func (c *Car) DoorFraction() float64   { return c.doorFraction }
func (c *Car) Active() bool            { return c.active }
func (c *Car) Occupancy() int          { return len(c.riders) }
func (c *Car) Riders() []types.RiderID { return slices.Clone(c.riders) }
func (c *Car) Destinations() []int     { return slices.Clone(c.dest) }
func (c *Car) Floor() int              { return c.cfg.FloorFromY(c.y) }
func (c *Car) SetActive(active bool)   { c.active = active }

// AtFloor reports whether the car is stopped exactly at floor's height.
func (c *Car) AtFloor(floor int) bool {
	return c.cfg.ValidFloor(floor) && c.y == c.cfg.FloorY(floor)
}

// OpenAt reports whether riders may walk in or out at floor.
func (c *Car) OpenAt(floor int) bool {
	return c.state == types.DoorOpen && c.AtFloor(floor)
}

func (c *Car) HasRoom() bool {
	return len(c.riders) < c.cfg.MaxRidersPerCar
}

// AddRider registers a rider as an occupant. It is a no-op if the rider is
// already inside, and refuses riders once the car is full.
func (c *Car) AddRider(id types.RiderID) bool {
	if slices.Contains(c.riders, id) {
		return false
	}
	if !c.HasRoom() {
		slog.Warn("Car full, rider refused", "car", c.id, "rider", id)
		return false
	}
	c.riders = append(c.riders, id)
	return true
}

// RemoveRider is a no-op if the rider is not inside.
func (c *Car) RemoveRider(id types.RiderID) bool {
	i := slices.Index(c.riders, id)
	if i < 0 {
		return false
	}
	c.riders = slices.Delete(c.riders, i, i+1)
	return true
}

func (c *Car) View() View {
	return View{
		ID:           c.id,
		Y:            c.y,
		Floor:        c.Floor(),
		GoingUp:      c.goingUp,
		State:        c.state,
		DoorFraction: c.doorFraction,
		Destinations: c.Destinations(),
		Occupancy:    len(c.riders),
		Riders:       c.Riders(),
		Active:       c.active,
	}
}
