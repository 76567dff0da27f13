package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/spinarena/internal/dynamo"
)

const (
	// Restitution is the fraction of normal speed kept after a wall bounce.
	Restitution = 0.8
	// WallFriction is the Coulomb coefficient bounding the tangential impulse.
	WallFriction = 0.5
	// impactDampingBase shapes 1 - base^|vn|: slow contacts get almost no impulse,
	// which keeps resting disks from jittering.
	impactDampingBase = 0.97
)

// Wall identifies one edge of the arena.
type Wall int

const (
	WallLeft Wall = iota
	WallRight
	WallTop
	WallBottom
)

// Normal is the inward unit normal, pointing from the wall into the arena.
// A disk moving into the wall has a negative velocity component along it.
func (w Wall) Normal() cp.Vector {
	switch w {
	case WallLeft:
		return cp.Vector{X: 1, Y: 0}
	case WallRight:
		return cp.Vector{X: -1, Y: 0}
	case WallTop:
		return cp.Vector{X: 0, Y: 1}
	default:
		return cp.Vector{X: 0, Y: -1}
	}
}

func (w Wall) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallTop:
		return "top"
	case WallBottom:
		return "bottom"
	}
	return "unknown"
}

// ResolveWall applies the restitution and friction impulses for contact with
// w. Nothing happens unless the disk is moving into the wall. On impact the
// disk is snapped to exactly one radius from the edge.
func ResolveWall(d *Disk, w Wall, p *Params) bool {
	n := w.Normal()
	t := n.Perp()

	v := d.Velocity()
	vn := v.Dot(n)
	vt := v.Dot(t)
	if vn >= 0 {
		return false
	}

	j := -(1 + Restitution) * vn * d.mass

	spinEffect := d.AngularVelocity * d.radius
	jt := dynamo.Clamp(-WallFriction*j, WallFriction*j, -d.mass*(vt-spinEffect)*2/math.Pi)

	damping := 1 - math.Pow(impactDampingBase, math.Abs(vn))

	dv := n.Mult(j).Add(t.Mult(jt)).Mult(damping / d.mass)
	d.VX += dv.X
	d.VY += dv.Y
	if d.inertia > 0 {
		d.AngularVelocity -= jt * d.radius / d.inertia * damping
	}

	d.snapTo(w, p)
	return true
}

func (d *Disk) snapTo(w Wall, p *Params) {
	switch w {
	case WallLeft:
		d.X = d.radius
	case WallRight:
		d.X = p.Width - d.radius
	case WallTop:
		d.Y = d.radius
	case WallBottom:
		d.Y = p.Height - d.radius
	}
}
