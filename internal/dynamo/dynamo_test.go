package dynamo

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		min, max, val float64
		expected      float64
	}{
		{"inside", -1, 1, 0.5, 0.5},
		{"below", -1, 1, -3, -1},
		{"above", -1, 1, 3, 1},
		{"on edge", 0, 2, 2, 2},
		{"collapsed range", 0, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.min, tt.max, tt.val); got != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.min, tt.max, tt.val, got, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0, 1, -2.5) {
		t.Error("expected finite values to pass")
	}
	if IsFinite(1, math.NaN()) {
		t.Error("expected NaN to fail")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("expected -Inf to fail")
	}
	if !IsFinite() {
		t.Error("expected empty input to pass")
	}
}

func TestRandomIntBounds(t *testing.T) {
	r := NewRand(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := RandomInt(r, 5, 10)
		if v < 5 || v > 10 {
			t.Fatalf("RandomInt out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected all 6 values to appear, got %d", len(seen))
	}

	if got := RandomInt(r, 3, 3); got != 3 {
		t.Errorf("expected degenerate range to return min, got %d", got)
	}
}

func TestRandomSequenceIsSeeded(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		x, y := RandomRange(a, -1, 1), RandomRange(b, -1, 1)
		if x != y {
			t.Fatalf("step %d: sequences diverged (%v != %v)", i, x, y)
		}
	}
}

func TestChoose(t *testing.T) {
	r := NewRand(1)
	items := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		got := Choose(r, items)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("unexpected item %q", got)
		}
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.03, BodyID: 2, Wrapped: fmt.Errorf("%w: body 2", ErrInvalidState)}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected SimulationError to unwrap to ErrInvalidState")
	}
	if err.Error() != "dynamo: invalid state (NaN or Inf detected): body 2" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
