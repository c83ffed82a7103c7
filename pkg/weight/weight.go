// Package weight maps raw input gestures onto a prompt weight.
// Every mapper returns a value inside [Min, Max]; out-of-range input is clamped, never rejected.
package weight

const (
	Min = 0.0
	Max = 2.0

	// DragSensitivity is the weight change per unit of pointer travel.
	DragSensitivity = 0.01
	// WheelSensitivity is the weight change per unit of wheel delta.
	WheelSensitivity = 0.0025

	ccMax = 127
)

// Clamp bounds v to [Min, Max].
func Clamp(v float64) float64 {
	return min(max(v, Min), Max)
}

// FromDrag returns the weight for a drag that started at startCoord with startValue
// and is now at currentCoord. Coordinates grow downward, so dragging up increases the weight.
func FromDrag(startValue, startCoord, currentCoord float64) float64 {
	return Clamp(startValue + (startCoord-currentCoord)*DragSensitivity)
}

// FromWheel applies a wheel delta to prev. A negative delta (scroll up) increases the weight.
func FromWheel(prev, delta float64) float64 {
	return Clamp(prev - delta*WheelSensitivity)
}

// FromMidi maps a control-change value (0-127) linearly onto [Min, Max].
func FromMidi(cc uint8) float64 {
	return float64(min(cc, ccMax)) / ccMax * Max
}
