package elev

import (
	"log/slog"
	"slices"

	"liftsim/src/types"
)

// GoTo queues floor as a destination. Automatic requests are only accepted in
// auto control mode; manual requests are always accepted. Out-of-range floors
// and floors already queued are ignored. Returns true if the floor was added.
func (c *Car) GoTo(floor int, manual bool) bool {
	if !c.cfg.ValidFloor(floor) {
		slog.Warn("Ignoring out-of-range floor", "car", c.id, "floor", floor)
		return false
	}
	if !manual && c.cfg.ControlMode != types.Auto {
		return false
	}
	if slices.Contains(c.dest, floor) {
		return false
	}
	c.dest = append(c.dest, floor)
	c.sortDestinations()
	slog.Debug("Car will go to floor", "car", c.id, "floor", floor, "destinations", c.dest)
	return true
}

// HasDestination reports whether floor is queued.
func (c *Car) HasDestination(floor int) bool {
	return slices.Contains(c.dest, floor)
}

// sortDestinations orders the queue ascending when going up, descending when going down.
func (c *Car) sortDestinations() {
	slices.Sort(c.dest)
	if !c.goingUp {
		slices.Reverse(c.dest)
	}
}

// nextDestination picks the first queued floor ahead in the travel direction.
// If none is ahead, the direction flips and the head of the re-sorted queue is used.
func (c *Car) nextDestination() (int, bool) {
	if len(c.dest) == 0 {
		return 0, false
	}
	for _, floor := range c.dest {
		y := c.cfg.FloorY(floor)
		if (c.goingUp && y > c.y) || (!c.goingUp && y < c.y) {
			return floor, true
		}
	}
	c.goingUp = !c.goingUp
	c.sortDestinations()
	slog.Debug("Car reversing direction", "car", c.id, "goingUp", c.goingUp, "destinations", c.dest)
	return c.dest[0], true
}

func (c *Car) removeDestination(floor int) {
	c.dest = slices.DeleteFunc(c.dest, func(f int) bool { return f == floor })
}
