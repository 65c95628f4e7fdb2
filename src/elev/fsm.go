package elev

import (
	"log/slog"
	"time"

	"liftsim/src/events"
	"liftsim/src/types"
)

// Update advances the car by elapsed time.
//   - Idle: start a trip if a destination is queued
//   - Moving: follow the speed profile, open doors on arrival
//   - DoorOpening/DoorClosing: move the doors linearly over the door movement time
//   - DoorOpen: hold for the configured time
func (c *Car) Update(elapsed time.Duration) {
	c.now += max(elapsed, 0)

	switch c.state {
	case types.Idle:
		c.startTrip()
	case types.Moving:
		c.move(elapsed)
	case types.DoorOpening:
		c.doorFraction = c.doorProgress()
		if c.doorFraction >= 1 {
			c.doorFraction = 1
			c.openSince = c.now
			c.transition(types.DoorOpen)
		}
	case types.DoorOpen:
		if c.now-c.openSince >= c.cfg.DoorOpenHold {
			c.doorOpStarted = c.now
			c.transition(types.DoorClosing)
		}
	case types.DoorClosing:
		c.doorFraction = 1 - c.doorProgress()
		if c.doorFraction <= 0 {
			c.doorFraction = 0
			c.transition(types.Idle)
		}
	}
}

func (c *Car) startTrip() {
	floor, ok := c.nextDestination()
	if !ok {
		return
	}
	endY := c.cfg.FloorY(floor)
	floors := c.Floor() - floor
	if floors < 0 {
		floors = -floors
	}
	c.costs.AddMovementCost(floors, c.cfg.ElevSpeed)
	c.motion = newMotion(floor, c.y, endY, c.cfg.ElevSpeed)
	slog.Debug("Car moving", "car", c.id, "from", c.Floor(), "to", floor, "destinations", c.dest)
	c.transition(types.Moving)
}

func (c *Car) move(elapsed time.Duration) {
	y, arrived := c.motion.advance(c.y, elapsed.Seconds())
	c.y = min(max(y, c.cfg.FloorY(1)), c.cfg.FloorY(c.cfg.NumFloors))
	if !arrived {
		return
	}

	switch c.motion.target {
	case 1:
		c.goingUp = true
	case c.cfg.NumFloors:
		c.goingUp = false
	}
	c.removeDestination(c.motion.target)
	c.doorOpStarted = c.now
	c.transition(types.DoorOpening)
	c.listener.OnCarArrivedAtFloor(events.CarEvent{
		Car:    c.id,
		Floor:  c.motion.target,
		Riders: len(c.riders),
		At:     c.now,
	})
}

// doorProgress is the fraction of the door movement time elapsed since the
// current door operation started.
func (c *Car) doorProgress() float64 {
	if c.cfg.DoorMovement <= 0 {
		return 1
	}
	p := float64(c.now-c.doorOpStarted) / float64(c.cfg.DoorMovement)
	return min(1, max(0, p))
}

var carTransitions = map[types.CarState]types.CarState{
	types.Idle:        types.Moving,
	types.Moving:      types.DoorOpening,
	types.DoorOpening: types.DoorOpen,
	types.DoorOpen:    types.DoorClosing,
	types.DoorClosing: types.Idle,
}

func (c *Car) transition(to types.CarState) {
	if carTransitions[c.state] != to {
		slog.Error("Invalid car transition", "car", c.id, "from", c.state, "to", to)
		return
	}
	slog.Debug("Car state change", "car", c.id, "from", c.state, "to", to)
	c.state = to
}
