package export

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/sim"
)

const (
	background = "#121212"
	heldGlow   = "#ffa800"
)

// FrameToSVG draws every body of a frame with its pattern, rotated by the
// body's rotation. Held bodies get a glow.
func FrameToSVG(f sim.Frame) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<defs>
<filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%"><feDropShadow dx="0" dy="0" stdDeviation="6" flood-color="%s"/></filter>
`, f.Width, f.Height, f.Width, f.Height, heldGlow)

	for _, b := range f.Bodies {
		inner, outer := "#000000", b.Color
		if b.Pattern.Kind == pattern.Swirl {
			inner, outer = outer, inner
		}
		fmt.Fprintf(&sb, `<radialGradient id="g%d"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></radialGradient>
`, b.ID, inner, outer)
	}
	sb.WriteString("</defs>\n")
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, background)

	for _, b := range f.Bodies {
		writeBody(&sb, b)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeBody(sb *strings.Builder, b sim.BodyState) {
	filter := ""
	if b.Held {
		filter = ` filter="url(#glow)"`
	}
	fmt.Fprintf(sb, `<g id="body-%d"%s>
`, b.ID, filter)

	paint := fmt.Sprintf("url(#g%d)", b.ID)
	for i, path := range b.Pattern.Paths(b.Radius) {
		pts := pattern.Place(path.Points, b.X, b.Y, b.Rotation)
		d := pathData(pts, path.Closed)

		// The second circle path is the rotation marker.
		if b.Pattern.Kind == pattern.Circle && i == 1 {
			marker := background
			if b.Pattern.Outline {
				marker = b.Color
			}
			fmt.Fprintf(sb, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>
`, d, marker)
			continue
		}

		if b.Pattern.Filled() && path.Closed {
			fmt.Fprintf(sb, `<path d="%s" fill="%s"/>
`, d, paint)
		} else {
			stroke := paint
			if b.Pattern.Kind == pattern.Circle {
				stroke = b.Color
			}
			fmt.Fprintf(sb, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>
`, d, stroke)
		}
	}

	sb.WriteString("</g>\n")
}

func pathData(pts []cp.Vector, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// TrajectoryToSVG traces the centre of one body across frames in arena
// coordinates. It returns "" when the body appears in fewer than two frames.
func TrajectoryToSVG(frames []sim.Frame, bodyID int, strokeColor string) string {
	points := make([]cp.Vector, 0, len(frames))
	for _, f := range frames {
		for _, b := range f.Bodies {
			if b.ID == bodyID {
				points = append(points, cp.Vector{X: b.X, Y: b.Y})
				break
			}
		}
	}
	if len(points) < 2 {
		return ""
	}

	width, height := frames[0].Width, frames[0].Height

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, background, strokeColor, pathData(points, false))
	return sb.String()
}
