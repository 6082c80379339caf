package dnd

import "math"

// DefaultActivationDistance is how far the pointer must travel before a
// press becomes a drag.
const DefaultActivationDistance = 8

// Sensor recognizes a drag once the pointer has moved past Distance from
// where it was pressed.
type Sensor struct {
	Distance float64

	origin    Point
	armed     bool
	activated bool
}

// Press arms the sensor at the given position.
func (s *Sensor) Press(at Point) {
	s.origin = at
	s.armed = true
	s.activated = false
}

// Move reports whether the gesture is (now) a drag, and the delta from the
// press position.
func (s *Sensor) Move(at Point) (delta Point, active bool) {
	if !s.armed {
		return Point{}, false
	}
	delta = at.Sub(s.origin)
	if !s.activated && math.Hypot(delta.X, delta.Y) > s.Distance {
		s.activated = true
	}
	return delta, s.activated
}

// Release disarms the sensor and returns the final delta and whether the
// press had become a drag. A release never activates on its own.
func (s *Sensor) Release(at Point) (delta Point, wasDrag bool) {
	if !s.armed {
		return Point{}, false
	}
	delta, wasDrag = at.Sub(s.origin), s.activated
	s.Reset()
	return delta, wasDrag
}

// Reset disarms the sensor.
func (s *Sensor) Reset() {
	s.armed = false
	s.activated = false
}

// Armed reports whether a press is being tracked.
func (s *Sensor) Armed() bool { return s.armed }

// Activated reports whether the tracked press became a drag.
func (s *Sensor) Activated() bool { return s.activated }
