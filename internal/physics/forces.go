package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const magnusConstant = 1 / (2 * math.Pi)

// GravityForce is (0, m·g), or zero when gravity is off.
func GravityForce(d *Disk, p *Params) cp.Vector {
	if p.Gravity == 0 {
		return cp.Vector{}
	}
	return cp.Vector{X: 0, Y: d.mass * p.Gravity}
}

// DragForce is quadratic drag opposing the velocity:
// 0.5·ρ·|v|²·Cd·π·r².
func DragForce(d *Disk, p *Params) cp.Vector {
	v := d.Velocity()
	speed := v.Length()
	if speed == 0 {
		return cp.Vector{}
	}
	magnitude := 0.5 * p.AirDensity * speed * speed * p.DragCoefficient * math.Pi * d.radius * d.radius
	return v.Mult(-magnitude / speed)
}

// MagnusForce is spin-induced lift, perpendicular to the velocity (rotated +90°),
// with magnitude ω·r·ρ·|v| / 2π.
func MagnusForce(d *Disk, p *Params) cp.Vector {
	v := d.Velocity()
	speed := v.Length()
	if speed == 0 {
		return cp.Vector{}
	}
	magnitude := magnusConstant * d.AngularVelocity * d.radius * p.AirDensity * speed
	return v.Perp().Mult(magnitude / speed)
}

// RotationalDragTorque is -Cr·ρ·π·r⁴·ω·|ω|.
func RotationalDragTorque(d *Disk, p *Params) float64 {
	r2 := d.radius * d.radius
	w := d.AngularVelocity
	return -p.RotationalDragCoefficient * p.AirDensity * math.Pi * r2 * r2 * w * math.Abs(w)
}

func (d *Disk) applyForce(f cp.Vector, dt float64) {
	d.VX += f.X / d.mass * dt
	d.VY += f.Y / d.mass * dt
}

// applyDrag never lets one Euler step reverse the direction of travel.
func (d *Disk) applyDrag(p *Params, dt float64) {
	f := DragForce(d, p)
	if f.X == 0 && f.Y == 0 {
		return
	}
	if f.Length()/d.mass*dt >= d.Speed() {
		d.VX, d.VY = 0, 0
		return
	}
	d.applyForce(f, dt)
}

// applyMagnus applies the Magnus force and then removes the work it did over
// the step (|F|·|v|·dt) from the kinetic energy, so the term cannot add energy.
// The rescaled speed is also capped at the speed entering the step.
func (d *Disk) applyMagnus(p *Params, dt float64) {
	speed := d.Speed()
	if speed == 0 {
		return
	}

	f := MagnusForce(d, p)
	if f.X == 0 && f.Y == 0 {
		return
	}
	d.applyForce(f, dt)

	work := f.Length() * speed * dt
	ke := math.Max(0, d.KineticEnergy()-work)

	current := d.Speed()
	if current == 0 {
		return
	}
	target := math.Min(math.Sqrt(2*ke/d.mass), speed)
	ratio := target / current
	d.VX *= ratio
	d.VY *= ratio
}

// applyRotationalDrag stops at ω = 0 instead of overshooting past it.
func (d *Disk) applyRotationalDrag(p *Params, dt float64) {
	if d.inertia == 0 || d.AngularVelocity == 0 {
		return
	}
	next := d.AngularVelocity + RotationalDragTorque(d, p)/d.inertia*dt
	if next*d.AngularVelocity < 0 {
		next = 0
	}
	d.AngularVelocity = next
}
