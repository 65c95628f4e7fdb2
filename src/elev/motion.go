package elev

import (
	"math"

	"liftsim/src/config"
)

// motion is the trapezoidal speed profile of one trip.
type motion struct {
	target        int
	startY        float64
	endY          float64
	speed         float64
	maxSpeed      float64
	accel         float64
	accelDistance float64
}

// MaxSpeed maps the 1..10 speed setting onto units per second.
func MaxSpeed(elevSpeed int) float64 {
	frac := float64(elevSpeed-config.MinElevSpeed) / float64(config.MaxElevSpeed-config.MinElevSpeed)
	frac = min(1, max(0, frac))
	return config.MinSpeedUnits + frac*(config.MaxSpeedUnits-config.MinSpeedUnits)
}

func newMotion(target int, startY, endY float64, elevSpeed int) motion {
	maxSpeed := MaxSpeed(elevSpeed)
	// Max speed is reached after half a second of acceleration.
	accel := maxSpeed * 2
	trip := math.Abs(endY - startY)
	return motion{
		target:        target,
		startY:        startY,
		endY:          endY,
		maxSpeed:      maxSpeed,
		accel:         accel,
		accelDistance: min(trip/2, maxSpeed*maxSpeed/(2*accel)),
	}
}

// advance moves y towards endY for dt seconds and returns the new position and
// whether the target has been reached. On arrival y is exactly endY.
func (m *motion) advance(y float64, dt float64) (float64, bool) {
	traveled := math.Abs(y - m.startY)
	left := math.Abs(m.endY - y)

	switch {
	case traveled < m.accelDistance && m.speed < m.maxSpeed:
		m.speed = max(1, math.Sqrt(2*m.accel*traveled))
	case left < m.accelDistance && m.speed > 0:
		m.speed = math.Sqrt(2 * m.accel * left)
	default:
		m.speed = math.Sqrt(2 * m.accel * traveled)
	}
	m.speed = min(m.speed, m.maxSpeed)

	step := min(left, m.speed*max(dt, 0))
	if m.endY < y {
		step = -step
	}
	y += step

	if math.Abs(m.endY-y) < config.ArrivalTolerance {
		return m.endY, true
	}
	return y, false
}
