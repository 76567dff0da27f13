package export

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/sim"
)

func testFrame() sim.Frame {
	return sim.Frame{
		Width:  800,
		Height: 600,
		Bodies: []sim.BodyState{
			{ID: 1, X: 100, Y: 100, Radius: 20, Color: "#ff0000", Pattern: pattern.Pattern{Kind: pattern.Flower, Count: 6}},
			{ID: 2, X: 200, Y: 100, Radius: 20, Color: "#00ff00", Pattern: pattern.Pattern{Kind: pattern.Star, Count: 5, Outline: true}, Held: true},
			{ID: 3, X: 300, Y: 100, Radius: 20, Color: "#0000ff", Pattern: pattern.Pattern{Kind: pattern.Swirl, Count: 3}},
			{ID: 4, X: 400, Y: 100, Radius: 20, Color: "#ffff00", Pattern: pattern.Pattern{Kind: pattern.Circle}, Rotation: 1},
		},
	}
}

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("malformed SVG: %v", err)
		}
	}
}

func TestFrameToSVG(t *testing.T) {
	svg := FrameToSVG(testFrame())
	wellFormed(t, svg)

	if !strings.Contains(svg, `viewBox="0 0 800 600"`) {
		t.Error("expected arena-sized viewBox")
	}
	for _, id := range []string{`id="body-1"`, `id="body-2"`, `id="body-3"`, `id="body-4"`} {
		if !strings.Contains(svg, id) {
			t.Errorf("missing %s", id)
		}
	}
	if strings.Count(svg, `filter="url(#glow)"`) != 1 {
		t.Error("expected exactly one held body glow")
	}
	// Six flower petals plus the star, swirl arms and the circle with its marker.
	if got := strings.Count(svg, "<path "); got != 6+1+3+2 {
		t.Errorf("expected 12 paths, got %d", got)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	frames := []sim.Frame{
		{Width: 800, Height: 600, Bodies: []sim.BodyState{{ID: 7, X: 10, Y: 20}}},
		{Width: 800, Height: 600, Bodies: []sim.BodyState{{ID: 7, X: 30, Y: 40}}},
	}

	svg := TrajectoryToSVG(frames, 7, "#00ff00")
	wellFormed(t, svg)
	if !strings.Contains(svg, `d="M10.0,20.0 L30.0,40.0"`) {
		t.Errorf("unexpected path in %s", svg)
	}

	if TrajectoryToSVG(frames, 8, "#00ff00") != "" {
		t.Error("expected empty output for unknown body")
	}
}
