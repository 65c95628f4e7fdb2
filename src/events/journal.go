package events

import (
	"io"

	"github.com/rs/zerolog"
)

// Journal writes one JSON line per event.
type Journal struct {
	log zerolog.Logger
}

func NewJournal(w io.Writer, runID string) *Journal {
	return &Journal{
		log: zerolog.New(w).With().Str("run", runID).Logger(),
	}
}

func (j *Journal) rider(name string, e RiderEvent) *zerolog.Event {
	return j.log.Info().
		Str("event", name).
		Int("rider", int(e.Rider)).
		Int("floor", e.Floor).
		Int("dest", e.Dest).
		Int64("atMs", e.At.Milliseconds())
}

func (j *Journal) OnRiderArriving(e RiderEvent) {
	j.rider("rider_arriving", e).Send()
}

func (j *Journal) OnRiderLeaving(e RiderEvent) {
	j.rider("rider_leaving", e).
		Int("car", int(e.Car)).
		Float64("fare", e.Fare).
		Int64("tripMs", e.Trip.Milliseconds()).
		Send()
}

func (j *Journal) OnRiderTooLate(e RiderEvent) {
	j.rider("rider_too_late", e).Int("car", int(e.Car)).Send()
}

func (j *Journal) OnCarFull(e CarEvent) {
	j.log.Info().
		Str("event", "car_full").
		Int("car", int(e.Car)).
		Int("floor", e.Floor).
		Int("riders", e.Riders).
		Int64("atMs", e.At.Milliseconds()).
		Send()
}

func (j *Journal) OnCarArrivedAtFloor(e CarEvent) {
	j.log.Debug().
		Str("event", "car_arrived").
		Int("car", int(e.Car)).
		Int("floor", e.Floor).
		Int("riders", e.Riders).
		Int64("atMs", e.At.Milliseconds()).
		Send()
}
