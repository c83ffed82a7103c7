package weight_test

import (
	"math"
	"testing"

	"github.com/JaimeStill/promptdj/pkg/weight"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", -0.5, 0},
		{"lower bound", 0, 0},
		{"inside", 1.25, 1.25},
		{"upper bound", 2, 2},
		{"above range", 7, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weight.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromDragStaysInRange(t *testing.T) {
	for start := 0.0; start <= 2.0; start += 0.25 {
		for y := -1000.0; y <= 1000.0; y += 37 {
			v := weight.FromDrag(start, 0, y)
			if v < weight.Min || v > weight.Max {
				t.Fatalf("FromDrag(%v, 0, %v) = %v, out of range", start, y, v)
			}
		}
	}
}

func TestFromDragDirection(t *testing.T) {
	prev := weight.FromDrag(1, 100, 100)
	for y := 99.0; y >= 0; y-- {
		v := weight.FromDrag(1, 100, y)
		if v < prev {
			t.Fatalf("dragging up decreased weight at y=%v: %v < %v", y, v, prev)
		}
		prev = v
	}

	prev = weight.FromDrag(1, 100, 100)
	for y := 101.0; y <= 300; y++ {
		v := weight.FromDrag(1, 100, y)
		if v > prev {
			t.Fatalf("dragging down increased weight at y=%v: %v > %v", y, v, prev)
		}
		prev = v
	}
}

func TestFromWheelConvergesToBounds(t *testing.T) {
	v := 1.0
	for range 1000 {
		v = weight.FromWheel(v, -120)
	}
	if v != weight.Max {
		t.Errorf("scrolling up: got %v, want %v", v, weight.Max)
	}

	v = weight.FromWheel(v, -120)
	if v != weight.Max {
		t.Errorf("overshoot persisted at upper bound: %v", v)
	}

	for range 1000 {
		v = weight.FromWheel(v, 120)
	}
	if v != weight.Min {
		t.Errorf("scrolling down: got %v, want %v", v, weight.Min)
	}
}

func TestFromMidi(t *testing.T) {
	tests := []struct {
		cc   uint8
		want float64
	}{
		{0, 0},
		{127, 2},
		{64, 64.0 / 127.0 * 2},
		{200, 2},
	}

	for _, tt := range tests {
		if got := weight.FromMidi(tt.cc); !approx(got, tt.want) {
			t.Errorf("FromMidi(%d) = %v, want %v", tt.cc, got, tt.want)
		}
	}

	if got := weight.FromMidi(64); math.Abs(got-1.008) > 0.001 {
		t.Errorf("FromMidi(64) = %v, want ~1.008", got)
	}
}

func TestWheelThenDragScenario(t *testing.T) {
	v := weight.FromWheel(0, -120)
	if !approx(v, 0.3) {
		t.Fatalf("after wheel: got %v, want 0.3", v)
	}

	v = weight.FromDrag(v, 100, 50)
	if !approx(v, 0.8) {
		t.Errorf("after drag: got %v, want 0.8", v)
	}
}
