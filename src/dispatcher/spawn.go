package dispatcher

import (
	"math"
	"math/rand/v2"
	"time"
)

// varyingPeriod is the time scale of the sinusoidal load used at load level 0.
const varyingPeriod = 100 * time.Second

// ArrivalRate returns the desired rider arrivals per minute for a passenger
// load level at simulation time now.
//   - level 0 varies between 10 and 60 riders per minute over time
//   - levels 1 to 6 are fixed at 1, 5, 25, 125, 625 and 3125 riders per minute
func ArrivalRate(level int, now time.Duration) float64 {
	if level <= 0 {
		s := math.Sin(float64(now) / float64(varyingPeriod))
		return 10 + (s+1)/2*50
	}
	return math.Pow(5, float64(level-1))
}

// Spawner draws rider arrivals as a Poisson process over simulation time.
type Spawner struct {
	rnd *rand.Rand
}

func NewSpawner(rnd *rand.Rand) *Spawner {
	return &Spawner{rnd: rnd}
}

// Arrivals returns how many riders arrive during elapsed, given a rate in riders per minute.
func (s *Spawner) Arrivals(ratePerMin float64, elapsed time.Duration) int {
	lambda := ratePerMin / 60 * elapsed.Seconds()
	if lambda <= 0 {
		return 0
	}
	k := 0
	for lambda > maxKnuthMean {
		k += s.poisson(maxKnuthMean)
		lambda -= maxKnuthMean
	}
	return k + s.poisson(lambda)
}

// maxKnuthMean keeps exp(-lambda) well away from underflow.
const maxKnuthMean = 30.0

// poisson uses Knuth's multiplication method.
func (s *Spawner) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := s.rnd.Float64()
	for p > limit {
		k++
		p *= s.rnd.Float64()
	}
	return k
}

// Trip draws an origin and a different destination. Floor 1 is the lobby and
// is picked half of the time, otherwise floors are uniform.
func (s *Spawner) Trip(numFloors int) (origin, dest int) {
	origin = s.floor(numFloors)
	dest = s.floor(numFloors)
	for dest == origin {
		dest = s.floor(numFloors)
	}
	return origin, dest
}

func (s *Spawner) floor(numFloors int) int {
	if s.rnd.Float64() < 0.5 {
		return 1
	}
	return 1 + s.rnd.IntN(numFloors)
}
