package dispatcher

import (
	"log/slog"
	"math"
	"slices"

	"liftsim/src/elev"
)

// activeSet caches which cars take automatic calls. Cars are chosen from the
// middle of the bank outwards and the choice is only redone when the
// configured count changes.
type activeSet struct {
	count int
	cars  []*elev.Car
}

func newActiveSet() activeSet {
	return activeSet{count: -1}
}

// middleOut returns car indices ordered by distance from the middle of the bank.
// Equal distances keep index order.
func middleOut(numCars int) []int {
	order := make([]int, numCars)
	for i := range order {
		order[i] = i
	}
	mid := float64(numCars) / 2
	slices.SortStableFunc(order, func(a, b int) int {
		da, db := math.Abs(float64(a)-mid), math.Abs(float64(b)-mid)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return order
}

func (s *activeSet) refresh(cars []*elev.Car, count int) []*elev.Car {
	count = min(max(count, 0), len(cars))
	if count == s.count {
		return s.cars
	}
	s.count = count
	s.cars = make([]*elev.Car, 0, count)
	for _, car := range cars {
		car.SetActive(false)
	}
	for _, i := range middleOut(len(cars))[:count] {
		cars[i].SetActive(true)
		s.cars = append(s.cars, cars[i])
	}
	slog.Info("Active cars changed", "count", count)
	return s.cars
}
