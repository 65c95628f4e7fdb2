package building

import (
	"time"

	"liftsim/src/elev"
	"liftsim/src/rider"
	"liftsim/src/stats"
	"liftsim/src/types"

	"github.com/tiendc/go-deepcopy"
)

// Settings are the options that can change while the simulation runs.
type Settings struct {
	ControlMode   types.ControlMode `json:"controlMode"`
	NumActiveCars int               `json:"numActiveCars"`
	ElevSpeed     int               `json:"elevSpeed"`
	PassengerLoad int               `json:"passengerLoad"`
}

// Snapshot is a read-only view of the whole simulation for presentation.
type Snapshot struct {
	At       time.Duration       `json:"at"`
	Settings Settings            `json:"settings"`
	Cars     []elev.View         `json:"cars"`
	Riders   []rider.View        `json:"riders"`
	Pending  []types.CallRequest `json:"pendingCalls"`
	Stats    stats.Snapshot      `json:"stats"`
}

func (b *Building) Settings() Settings {
	return Settings{
		ControlMode:   b.cfg.ControlMode,
		NumActiveCars: b.cfg.NumActiveCars,
		ElevSpeed:     b.cfg.ElevSpeed,
		PassengerLoad: b.cfg.PassengerLoad,
	}
}

func (b *Building) Cars() []elev.View {
	views := make([]elev.View, len(b.cars))
	for i, car := range b.cars {
		views[i] = car.View()
	}
	return views
}

func (b *Building) Riders() []rider.View {
	riders := b.dispatcher.Riders()
	views := make([]rider.View, len(riders))
	for i, r := range riders {
		views[i] = r.View()
	}
	return views
}

func (b *Building) Stats() stats.Snapshot {
	return b.stats.Snapshot()
}

func (b *Building) Snapshot() Snapshot {
	return Snapshot{
		At:       b.Now(),
		Settings: b.Settings(),
		Cars:     b.Cars(),
		Riders:   b.Riders(),
		Pending:  b.dispatcher.PendingCalls(),
		Stats:    b.Stats(),
	}
}

// Clone returns a copy sharing no memory with s.
func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	if err := deepcopy.Copy(&out, &s); err != nil {
		panic(err)
	}
	return out
}
