package config

import (
	"errors"
	"fmt"
	"time"

	"liftsim/src/types"
)

const (
	MinElevSpeed     = 1
	MaxElevSpeed     = 10
	MaxPassengerLoad = 6
	MinSpeedUnits    = 20.0   // units/s at elevSpeed 1
	MaxSpeedUnits    = 1000.0 // units/s at elevSpeed 10
	ArrivalTolerance = 1.0
	RecallInterval   = 5 * time.Second
	RecentWindow     = 150
)

var ErrInvalid = errors.New("invalid configuration")

// Geometry holds the horizontal layout used for rider paths. Only X and Z are
// affected, vertical motion is governed by StoryHeight.
type Geometry struct {
	CanvasWidth float64 `yaml:"canvasWidth"`
	CarWidth    float64 `yaml:"carWidth"`
	CarDepth    float64 `yaml:"carDepth"`
	CarCenterZ  float64 `yaml:"carCenterZ"`
}

// Economics holds the rates used by the stats accumulator.
type Economics struct {
	BaseFare     float64       `yaml:"baseFare"`
	FareGrace    time.Duration `yaml:"fareGrace"`
	PenaltySpan  time.Duration `yaml:"penaltySpan"`
	PerFloor     float64       `yaml:"perFloor"`
	PerSec       float64       `yaml:"perSec"`
	PerSecPerCar float64       `yaml:"perSecPerCar"`
}

// Config enumerates every recognised simulation option.
type Config struct {
	NumCars         int               `yaml:"numCars"`
	NumActiveCars   int               `yaml:"numActiveCars"`
	ElevSpeed       int               `yaml:"elevSpeed"`
	ControlMode     types.ControlMode `yaml:"controlMode"`
	PassengerLoad   int               `yaml:"passengerLoad"`
	DoorOpenHold    time.Duration     `yaml:"doorOpenHold"`
	DoorMovement    time.Duration     `yaml:"doorMovement"`
	MaxRidersPerCar int               `yaml:"maxRidersPerCar"`
	NumFloors       int               `yaml:"numFloors"`
	StoryHeight     float64           `yaml:"storyHeight"`
	Seed            uint64            `yaml:"seed"`
	Geometry        Geometry          `yaml:"geometry"`
	Economics       Economics         `yaml:"economics"`
}

func Default() Config {
	return Config{
		NumCars:         8,
		NumActiveCars:   8,
		ElevSpeed:       5,
		ControlMode:     types.Auto,
		PassengerLoad:   0,
		DoorOpenHold:    1500 * time.Millisecond,
		DoorMovement:    time.Second,
		MaxRidersPerCar: 25,
		NumFloors:       10,
		StoryHeight:     90,
		Geometry: Geometry{
			CanvasWidth: 1000,
			CarWidth:    35,
			CarDepth:    50,
			CarCenterZ:  -50,
		},
		Economics: Economics{
			BaseFare:     0.25,
			FareGrace:    30 * time.Second,
			PenaltySpan:  300 * time.Second,
			PerFloor:     0.1,
			PerSec:       0.01,
			PerSecPerCar: 0.01,
		},
	}
}

// Validate checks every option against its valid range.
func (c Config) Validate() error {
	switch {
	case c.NumCars < 1:
		return fmt.Errorf("%w: numCars %d must be >= 1", ErrInvalid, c.NumCars)
	case c.NumActiveCars < 0 || c.NumActiveCars > c.NumCars:
		return fmt.Errorf("%w: numActiveCars %d must be in [0, %d]", ErrInvalid, c.NumActiveCars, c.NumCars)
	case c.ElevSpeed < MinElevSpeed || c.ElevSpeed > MaxElevSpeed:
		return fmt.Errorf("%w: elevSpeed %d must be in [%d, %d]", ErrInvalid, c.ElevSpeed, MinElevSpeed, MaxElevSpeed)
	case c.ControlMode != types.Auto && c.ControlMode != types.Manual:
		return fmt.Errorf("%w: controlMode %d", ErrInvalid, c.ControlMode)
	case c.PassengerLoad < 0 || c.PassengerLoad > MaxPassengerLoad:
		return fmt.Errorf("%w: passengerLoad %d must be in [0, %d]", ErrInvalid, c.PassengerLoad, MaxPassengerLoad)
	case c.DoorOpenHold < 0:
		return fmt.Errorf("%w: doorOpenHold %v must not be negative", ErrInvalid, c.DoorOpenHold)
	case c.DoorMovement < 0:
		return fmt.Errorf("%w: doorMovement %v must not be negative", ErrInvalid, c.DoorMovement)
	case c.MaxRidersPerCar < 1:
		return fmt.Errorf("%w: maxRidersPerCar %d must be >= 1", ErrInvalid, c.MaxRidersPerCar)
	case c.NumFloors < 2:
		return fmt.Errorf("%w: numFloors %d must be >= 2", ErrInvalid, c.NumFloors)
	case c.StoryHeight <= ArrivalTolerance:
		return fmt.Errorf("%w: storyHeight %g must be > %g", ErrInvalid, c.StoryHeight, ArrivalTolerance)
	case c.Economics.PenaltySpan <= 0:
		return fmt.Errorf("%w: economics.penaltySpan %v must be positive", ErrInvalid, c.Economics.PenaltySpan)
	}
	return nil
}

// FloorY maps a floor number to its vertical coordinate.
func (c Config) FloorY(floor int) float64 {
	return float64(floor-1) * c.StoryHeight
}

// FloorFromY returns the floor nearest to y, clamped to the building.
func (c Config) FloorFromY(y float64) int {
	floor := int(y/c.StoryHeight+0.5) + 1
	return max(1, min(c.NumFloors, floor))
}

func (c Config) ValidFloor(floor int) bool {
	return floor >= 1 && floor <= c.NumFloors
}

// CarCenterX returns the horizontal centre of car n (1-based).
func (c Config) CarCenterX(n types.CarID) float64 {
	g := c.Geometry
	spacing := g.CarWidth * 2
	groupWidth := float64(c.NumCars)*g.CarWidth + float64(c.NumCars-1)*g.CarWidth
	leftMargin := (g.CanvasWidth - groupWidth) / 2
	return leftMargin + g.CarWidth/2 + float64(n-1)*spacing
}
