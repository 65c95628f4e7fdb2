package dispatcher

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

func TestArrivalRate(t *testing.T) {
	wants := map[int]float64{1: 1, 2: 5, 3: 25, 4: 125, 5: 625, 6: 3125}
	for level, want := range wants {
		if got := ArrivalRate(level, 0); got != want {
			t.Errorf("level %d: expected %g riders/min, got %g", level, want, got)
		}
	}
	for s := 0; s < 1000; s += 7 {
		rate := ArrivalRate(0, time.Duration(s)*time.Second)
		if rate < 10 || rate > 60 {
			t.Fatalf("varying rate %g out of range at %ds", rate, s)
		}
	}
	if got := ArrivalRate(0, 0); got != 35 {
		t.Errorf("varying rate should start at the midpoint, got %g", got)
	}
}

func TestArrivalsMeanMatchesRate(t *testing.T) {
	s := NewSpawner(rand.New(rand.NewPCG(3, 4)))
	const steps = 100000
	total := 0
	for range steps {
		total += s.Arrivals(60, 10*time.Millisecond)
	}
	// 1 rider per second over 1000 seconds, independent of step size.
	if math.Abs(float64(total)-1000) > 150 {
		t.Errorf("expected about 1000 arrivals, got %d", total)
	}

	big := 0
	for range 10 {
		big += s.Arrivals(60, 100*time.Second)
	}
	if math.Abs(float64(big)-1000) > 150 {
		t.Errorf("expected about 1000 arrivals with large steps, got %d", big)
	}
	if s.Arrivals(0, time.Second) != 0 || s.Arrivals(60, 0) != 0 {
		t.Error("zero rate or zero time must not spawn")
	}
}

func TestTripFavoursLobby(t *testing.T) {
	s := NewSpawner(rand.New(rand.NewPCG(5, 6)))
	lobby := 0
	const n = 10000
	for range n {
		origin, dest := s.Trip(10)
		if origin == dest || origin < 1 || origin > 10 || dest < 1 || dest > 10 {
			t.Fatalf("invalid trip %d -> %d", origin, dest)
		}
		if origin == 1 {
			lobby++
		}
	}
	// Floor 1 is drawn with probability 0.55 per draw, less the redrawn ties.
	if lobby < n/3 || lobby > 2*n/3 {
		t.Errorf("lobby origin share %d/%d looks wrong", lobby, n)
	}
}
