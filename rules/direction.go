package rules

import "math"

// Direction is one of the four grid moves.
type Direction string

const (
	// DirectionUp moves the head towards y = 0
	DirectionUp Direction = "up"
	// DirectionDown moves the head towards y = height - 1
	DirectionDown Direction = "down"
	// DirectionLeft moves the head towards x = 0
	DirectionLeft Direction = "left"
	// DirectionRight moves the head towards x = width - 1
	DirectionRight Direction = "right"
)

// ParseDirection returns the direction named by s, or false when s is not
// one of up, down, left or right.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return d, true
	}
	return "", false
}

// Delta returns the x,y offset for a single step.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}
	return ""
}

// Quantize snaps a gesture vector to the axis with the larger magnitude. Ties
// resolve to the vertical axis. A zero vector has no direction.
func Quantize(v Vector) (Direction, bool) {
	if v.X == 0 && v.Y == 0 {
		return "", false
	}
	if math.Abs(v.X) > math.Abs(v.Y) {
		if v.X > 0 {
			return DirectionRight, true
		}
		return DirectionLeft, true
	}
	if v.Y > 0 {
		return DirectionDown, true
	}
	return DirectionUp, true
}
