// Package stats accumulates operating cost and rider payments.
package stats

import (
	"log/slog"
	"time"

	"liftsim/src/config"
)

// Stats is the process-lifetime accumulator. It is mutated by cars (movement
// cost), by the dispatcher (idle cost) and by riders (counts and fares).
type Stats struct {
	rates config.Economics

	Waiting      int
	Riding       int
	RidingWeight float64
	Served       int

	Payments      float64
	OperatingCost float64

	recentPayments  *Window[float64]
	recentTripTimes *Window[time.Duration]
}

type Snapshot struct {
	Waiting         int             `json:"waiting"`
	Riding          int             `json:"riding"`
	RidingWeight    float64         `json:"ridingWeight"`
	Served          int             `json:"served"`
	Payments        float64         `json:"cumulativePayments"`
	OperatingCost   float64         `json:"cumulativeCost"`
	RecentPayments  []float64       `json:"recentPayments"`
	RecentTripTimes []time.Duration `json:"recentTripTimes"`
}

func New(rates config.Economics) *Stats {
	return &Stats{
		rates:           rates,
		recentPayments:  NewWindow[float64](config.RecentWindow),
		recentTripTimes: NewWindow[time.Duration](config.RecentWindow),
	}
}

// Fare computes what a rider pays for a trip of the given duration:
//   - the base fare up to the grace time
//   - reduced linearly over the penalty span
//   - zero from grace + penalty span on
func Fare(rates config.Economics, tripTime time.Duration) float64 {
	penalty := min(max(tripTime-rates.FareGrace, 0), rates.PenaltySpan)
	if penalty >= rates.PenaltySpan {
		return 0
	}
	return rates.BaseFare - rates.BaseFare*float64(penalty)/float64(rates.PenaltySpan)
}

// ChargeRider bills a rider for a completed trip and returns the fare.
func (s *Stats) ChargeRider(tripTime time.Duration) float64 {
	fare := Fare(s.rates, tripTime)
	s.Payments += fare
	s.recentPayments.Push(fare)
	s.recentTripTimes.Push(tripTime)
	slog.Debug("Rider charged", "tripTime", tripTime, "fare", fare)
	return fare
}

// AddMovementCost is called when a car begins a trip. Faster speed settings
// cost more per floor.
func (s *Stats) AddMovementCost(floors int, elevSpeed int) {
	if floors < 0 {
		floors = -floors
	}
	s.OperatingCost += s.rates.PerFloor * (1 + float64(elevSpeed)/10) * float64(floors)
}

// AddIdleCost is called once per tick with the elapsed time.
func (s *Stats) AddIdleCost(elapsed time.Duration, numActiveCars int) {
	secs := elapsed.Seconds()
	s.OperatingCost += s.rates.PerSec * secs
	s.OperatingCost += s.rates.PerSecPerCar * secs * float64(numActiveCars)
}

func (s *Stats) RiderSpawned() {
	s.Waiting++
}

func (s *Stats) RiderBoarded(weight float64) {
	s.Waiting--
	s.Riding++
	s.RidingWeight += weight
}

func (s *Stats) RiderLeft(weight float64) {
	s.Riding--
	s.RidingWeight -= weight
	s.Served++
}

// RiderStranded moves a rider from riding back to waiting.
func (s *Stats) RiderStranded(weight float64) {
	s.Riding--
	s.RidingWeight -= weight
	s.Waiting++
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Waiting:         s.Waiting,
		Riding:          s.Riding,
		RidingWeight:    s.RidingWeight,
		Served:          s.Served,
		Payments:        s.Payments,
		OperatingCost:   s.OperatingCost,
		RecentPayments:  s.recentPayments.Values(),
		RecentTripTimes: s.recentTripTimes.Values(),
	}
}
