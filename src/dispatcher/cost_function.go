package dispatcher

import (
	"log/slog"
	"math"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/types"
)

// distance is the vertical distance between a car and a floor.
func distance(cfg *config.Config, car *elev.Car, floor int) float64 {
	return math.Abs(car.Y() - cfg.FloorY(floor))
}

// findAssignee picks the car to serve call:
//   - the closest idle car already heading in the call's direction
//   - otherwise the closest active car in any state
//
// Ties go to the car that comes first in cars. Returns nil if cars is empty.
func findAssignee(cfg *config.Config, cars []*elev.Car, call types.CallRequest) *elev.Car {
	wantUp := call.Dir == types.Up
	idle := closest(cfg, cars, call.Floor, func(car *elev.Car) bool {
		return car.State() == types.Idle && car.GoingUp() == wantUp
	})
	if idle != nil {
		slog.Debug("Assigning call to idle car", "call", call, "car", idle.ID())
		return idle
	}
	nearest := closest(cfg, cars, call.Floor, func(*elev.Car) bool { return true })
	if nearest != nil {
		slog.Debug("Assigning call to closest car", "call", call, "car", nearest.ID(), "state", nearest.State())
	}
	return nearest
}

func closest(cfg *config.Config, cars []*elev.Car, floor int, eligible func(*elev.Car) bool) *elev.Car {
	var best *elev.Car
	bestDist := math.Inf(1)
	for _, car := range cars {
		if !eligible(car) {
			continue
		}
		if d := distance(cfg, car, floor); d < bestDist {
			best, bestDist = car, d
		}
	}
	return best
}
