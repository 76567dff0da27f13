package pattern

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Path is a polyline in body-local coordinates (origin at the disk centre,
// unrotated). Closed paths are filled unless the pattern is an outline.
type Path struct {
	Points []cp.Vector
	Closed bool
}

const (
	arcSegments   = 8
	circleSamples = 32
	swirlSamples  = 24
)

// Paths returns the geometry of p on a disk of the given radius.
func (p Pattern) Paths(radius float64) []Path {
	switch p.Kind {
	case Flower:
		return flower(radius, p.Count)
	case Star:
		return []Path{star(radius, p.Count)}
	case Swirl:
		return swirl(radius, p.Count)
	default:
		return []Path{circle(radius), {Points: []cp.Vector{{}, {X: radius}}}}
	}
}

// Filled reports whether closed paths should be filled. Swirls are always
// stroked.
func (p Pattern) Filled() bool {
	return !p.Outline && p.Kind != Swirl
}

// flower draws each petal as a wedge: from the petal centre along an arc of
// half the disk radius and back.
func flower(radius float64, petals int) []Path {
	if petals <= 0 {
		petals = MinPetals
	}
	petalRadius := radius / 2
	paths := make([]Path, 0, petals)
	for i := 0; i < petals; i++ {
		angle := float64(i) * 2 * math.Pi / float64(petals)
		centre := cp.ForAngle(angle).Mult(radius - petalRadius)
		start := angle - math.Pi/float64(petals)
		end := angle + math.Pi/float64(petals)

		pts := []cp.Vector{centre}
		for s := 0; s <= arcSegments; s++ {
			a := start + (end-start)*float64(s)/arcSegments
			pts = append(pts, centre.Add(cp.ForAngle(a).Mult(petalRadius)))
		}
		paths = append(paths, Path{Points: pts, Closed: true})
	}
	return paths
}

func star(radius float64, points int) Path {
	if points <= 0 {
		points = MinPetals
	}
	inner := radius / 2
	step := math.Pi / float64(points)
	pts := make([]cp.Vector, 0, 2*points)
	for i := 0; i < points; i++ {
		angle := float64(i) * 2 * step
		pts = append(pts, cp.ForAngle(angle).Mult(radius), cp.ForAngle(angle+step).Mult(inner))
	}
	return Path{Points: pts, Closed: true}
}

// swirl draws arms that wind one full turn from the centre to the rim.
func swirl(radius float64, arms int) []Path {
	if arms <= 0 {
		arms = MinSwirls
	}
	paths := make([]Path, 0, arms)
	for i := 0; i < arms; i++ {
		angle := float64(i) * 2 * math.Pi / float64(arms)
		pts := make([]cp.Vector, 0, swirlSamples+1)
		for s := 0; s <= swirlSamples; s++ {
			frac := float64(s) / swirlSamples
			pts = append(pts, cp.ForAngle(angle+frac*2*math.Pi).Mult(frac*radius))
		}
		paths = append(paths, Path{Points: pts})
	}
	return paths
}

func circle(radius float64) Path {
	pts := make([]cp.Vector, circleSamples)
	for i := range pts {
		pts[i] = cp.ForAngle(float64(i) * 2 * math.Pi / circleSamples).Mult(radius)
	}
	return Path{Points: pts, Closed: true}
}

// Place rotates local points by rotation and moves them to (x, y).
func Place(points []cp.Vector, x, y, rotation float64) []cp.Vector {
	rot := cp.ForAngle(rotation)
	centre := cp.Vector{X: x, Y: y}
	out := make([]cp.Vector, len(points))
	for i, pt := range points {
		out[i] = pt.Rotate(rot).Add(centre)
	}
	return out
}
