package events

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

const narrationGap = 5 * time.Second

type category struct {
	name        string
	probability float64
	phrases     []string
}

var (
	arriving = category{"arriving", 0.1, []string{
		"i would like a ride",
		"nice day for an elevator ride",
		"i hope this is fast",
		"i'm in a hurry",
		"let's get this over with",
		"i love elevators",
	}}
	leaving = category{"leaving", 0.1, []string{
		"thank you, elevator", "thanks", "bye", "so long", "good times", "far out",
	}}
	tooLate = category{"tooLate", 1, []string{
		"darn it!", "stupid elevator", "oh, i missed it", "i ran as fast as i could", "bummer",
	}}
	carFull = category{"carFull", 0.3, []string{
		"that's a full car", "a lot of people", "too crowded", "wow, full", "full",
	}}
)

// Narrator turns hook events into occasional rider remarks. At most one remark
// is made per narrationGap of simulated time.
type Narrator struct {
	rnd    *rand.Rand
	say    func(category, phrase string)
	nextAt time.Duration
	spoken bool
}

// NewNarrator logs remarks with slog unless say is given.
func NewNarrator(rnd *rand.Rand, say func(category, phrase string)) *Narrator {
	if say == nil {
		say = func(category, phrase string) {
			slog.Info("Rider says", "category", category, "phrase", phrase)
		}
	}
	return &Narrator{rnd: rnd, say: say}
}

func (n *Narrator) speakRandom(c category, at time.Duration) {
	if n.spoken && at < n.nextAt {
		return
	}
	if n.rnd.Float64() > c.probability {
		return
	}
	n.say(c.name, c.phrases[n.rnd.IntN(len(c.phrases))])
	n.spoken = true
	n.nextAt = at + narrationGap
}

func (n *Narrator) OnRiderArriving(e RiderEvent) { n.speakRandom(arriving, e.At) }
func (n *Narrator) OnRiderLeaving(e RiderEvent)  { n.speakRandom(leaving, e.At) }
func (n *Narrator) OnRiderTooLate(e RiderEvent)  { n.speakRandom(tooLate, e.At) }
func (n *Narrator) OnCarFull(e CarEvent)         { n.speakRandom(carFull, e.At) }

func (n *Narrator) OnCarArrivedAtFloor(CarEvent) {}
