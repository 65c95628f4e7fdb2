package utils

import (
	"fmt"
	"io"
	"time"

	"liftsim/src/building"
	"liftsim/src/types"
)

// PrintStatus overwrites the current terminal line with a one-line summary of snap.
func PrintStatus(w io.Writer, snap building.Snapshot) {
	fmt.Fprintf(w, "\r%s | %s | cars %d | load %d | waiting %3d | riding %3d | served %5d | profit %9.2f  ",
		FormatClock(snap.At), snap.Settings.ControlMode, snap.Settings.NumActiveCars,
		snap.Settings.PassengerLoad, snap.Stats.Waiting, snap.Stats.Riding, snap.Stats.Served,
		snap.Stats.Payments-snap.Stats.OperatingCost)
}

// PrintSummary writes the end-of-run report.
func PrintSummary(w io.Writer, snap building.Snapshot) {
	s := snap.Stats
	fmt.Fprintf(w, "\nSimulated %s\n", FormatClock(snap.At))
	fmt.Fprintf(w, "  riders served:   %d\n", s.Served)
	fmt.Fprintf(w, "  still waiting:   %d\n", s.Waiting)
	fmt.Fprintf(w, "  still riding:    %d (%.0f kg)\n", s.Riding, s.RidingWeight)
	fmt.Fprintf(w, "  payments:        %.2f\n", s.Payments)
	fmt.Fprintf(w, "  operating cost:  %.2f\n", s.OperatingCost)
	fmt.Fprintf(w, "  profit:          %.2f\n", s.Payments-s.OperatingCost)
	if avg, ok := averageTrip(s.RecentTripTimes); ok {
		fmt.Fprintf(w, "  avg recent trip: %.1fs\n", avg.Seconds())
	}
	for _, car := range snap.Cars {
		state := car.State.String()
		if !car.Active {
			state = "inactive"
		}
		fmt.Fprintf(w, "  car %d: floor %2d %-12s riders %d\n", car.ID, car.Floor, state, car.Occupancy)
	}
}

// FormatClock renders a simulation time as h:mm:ss.
func FormatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func averageTrip(trips []time.Duration) (time.Duration, bool) {
	if len(trips) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, t := range trips {
		total += t
	}
	return total / time.Duration(len(trips)), true
}

// NextMode returns the other control mode.
func NextMode(mode types.ControlMode) types.ControlMode {
	if mode == types.Auto {
		return types.Manual
	}
	return types.Auto
}
