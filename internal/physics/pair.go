package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SpinDamping scales both angular velocities after a disk-disk collision.
const SpinDamping = 0.9

// Overlapping reports whether the two disks intersect.
func Overlapping(a, b *Disk) bool {
	return b.Position().Distance(a.Position()) < a.radius+b.radius
}

// ResolvePair resolves a collision between two overlapping disks and reports
// whether one happened.
//
// The normal velocity components are exchanged with the 1D elastic formula;
// tangential components pass through untouched. The disks are then pushed
// apart by half the overlap each, and their spins are mixed heuristically.
// Coincident centres give atan2(0, 0) = 0, so the pair separates along x.
func ResolvePair(a, b *Disk) bool {
	delta := b.Position().Sub(a.Position())
	distance := delta.Length()
	reach := a.radius + b.radius
	if distance >= reach {
		return false
	}

	angle := math.Atan2(delta.Y, delta.X)
	n := cp.ForAngle(angle)

	// X is along the line of centres, Y along the tangent.
	va := a.Velocity().Unrotate(n)
	vb := b.Velocity().Unrotate(n)

	total := a.mass + b.mass
	na := ((a.mass-b.mass)*va.X + 2*b.mass*vb.X) / total
	nb := ((b.mass-a.mass)*vb.X + 2*a.mass*va.X) / total

	a.setVelocity(cp.Vector{X: na, Y: va.Y}.Rotate(n))
	b.setVelocity(cp.Vector{X: nb, Y: vb.Y}.Rotate(n))

	shift := n.Mult((reach - distance) / 2)
	a.X -= shift.X
	a.Y -= shift.Y
	b.X += shift.X
	b.Y += shift.Y

	exchangeSpin(a, b, angle, total)
	return true
}

func exchangeSpin(a, b *Disk, angle, total float64) {
	wa := (a.AngularVelocity*a.mass - b.AngularVelocity*b.mass) / total
	wb := (b.AngularVelocity*b.mass - a.AngularVelocity*a.mass) / total

	rel := b.Velocity().Sub(a.Velocity())
	impactSpeed := rel.Length()
	impactAngle := math.Atan2(rel.Y, rel.X) - angle
	kick := impactSpeed * math.Sin(impactAngle)

	a.AngularVelocity = (wa + kick/a.radius) * SpinDamping
	b.AngularVelocity = (wb + kick/b.radius) * SpinDamping
}

// ResolveAll runs the O(n²) pair pass and returns the number of collisions.
func ResolveAll(disks []*Disk) int {
	count := 0
	for i := 0; i < len(disks); i++ {
		for j := i + 1; j < len(disks); j++ {
			if ResolvePair(disks[i], disks[j]) {
				count++
			}
		}
	}
	return count
}
