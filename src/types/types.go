package types

import (
	"fmt"
	"math"
	"strings"
)

// CarID is a 1-based handle into the building's car arena. Zero means no car.
type CarID int

const NoCar CarID = 0

// RiderID is a handle into the dispatcher's rider arena.
type RiderID int

type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// DirectionOf returns Up if going from origin to dest means travelling upwards.
func DirectionOf(origin, dest int) Direction {
	if dest > origin {
		return Up
	}
	return Down
}

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return Up, fmt.Errorf("unknown direction %q (want up or down)", s)
}

// CallRequest is a hall call: a floor and the direction the caller wants to go.
type CallRequest struct {
	Floor int       `json:"floor"`
	Dir   Direction `json:"dir"`
}

func (c CallRequest) String() string {
	if c.Dir == Up {
		return fmt.Sprintf("HallUp(%d)", c.Floor)
	}
	return fmt.Sprintf("HallDown(%d)", c.Floor)
}

type CarState int

const (
	Idle CarState = iota
	Moving
	DoorOpening
	DoorOpen
	DoorClosing
)

func (s CarState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case DoorOpening:
		return "door-opening"
	case DoorOpen:
		return "door-open"
	case DoorClosing:
		return "door-closing"
	}
	return "unknown"
}

func (s CarState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type RiderState int

const (
	Arriving RiderState = iota
	Waiting
	Boarding
	Riding
	Exiting
	Exited
)

func (s RiderState) String() string {
	switch s {
	case Arriving:
		return "arriving"
	case Waiting:
		return "waiting"
	case Boarding:
		return "boarding"
	case Riding:
		return "riding"
	case Exiting:
		return "exiting"
	case Exited:
		return "exited"
	}
	return "unknown"
}

func (s RiderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ControlMode decides who assigns calls to cars.
type ControlMode int

const (
	Auto ControlMode = iota
	Manual
)

func (m ControlMode) String() string {
	if m == Manual {
		return "manual"
	}
	return "auto"
}

func (m ControlMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ControlMode) UnmarshalText(text []byte) error {
	mode, err := ParseControlMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func ParseControlMode(s string) (ControlMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "0":
		return Auto, nil
	case "manual", "1":
		return Manual, nil
	}
	return Auto, fmt.Errorf("unknown control mode %q (want auto or manual)", s)
}

// Vec3 is a point in building space. Y is vertical.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
