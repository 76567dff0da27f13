package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/spinarena/internal/dynamo"
)

// Disk is a uniform solid disk. Radius, mass and moment of inertia are fixed
// at construction; everything exported is kinematic state the owner may read
// or, for drag interactions, write.
type Disk struct {
	X, Y            float64
	VX, VY          float64
	AngularVelocity float64 // rad/s
	Rotation        float64 // rad, unbounded
	Held            bool    // externally manipulated; forces and integration are suspended
	Color           string  // opaque to physics

	radius  float64
	mass    float64
	inertia float64
}

// NewDisk creates a disk at rest rotationally. It fails with
// dynamo.ErrInvalidBody for non-positive radius or mass, or non-finite input.
func NewDisk(x, y, radius, mass float64, color string, vx, vy float64) (*Disk, error) {
	if !dynamo.IsFinite(x, y, radius, mass, vx, vy) {
		return nil, fmt.Errorf("%w: non-finite input", dynamo.ErrInvalidBody)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %v", dynamo.ErrInvalidBody, radius)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %v", dynamo.ErrInvalidBody, mass)
	}

	return &Disk{
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Color:   color,
		radius:  radius,
		mass:    mass,
		inertia: 0.5 * mass * radius * radius,
	}, nil
}

func (d *Disk) Radius() float64          { return d.radius }
func (d *Disk) Mass() float64            { return d.mass }
func (d *Disk) MomentOfInertia() float64 { return d.inertia }

func (d *Disk) Position() cp.Vector { return cp.Vector{X: d.X, Y: d.Y} }
func (d *Disk) Velocity() cp.Vector { return cp.Vector{X: d.VX, Y: d.VY} }

func (d *Disk) setVelocity(v cp.Vector) {
	d.VX = v.X
	d.VY = v.Y
}

func (d *Disk) Speed() float64 {
	return d.Velocity().Length()
}

// KineticEnergy is the translational part, 0.5·m·|v|².
func (d *Disk) KineticEnergy() float64 {
	return 0.5 * d.mass * (d.VX*d.VX + d.VY*d.VY)
}

// RotationalEnergy is 0.5·I·ω².
func (d *Disk) RotationalEnergy() float64 {
	return 0.5 * d.inertia * d.AngularVelocity * d.AngularVelocity
}

func (d *Disk) Energy() float64 {
	return d.KineticEnergy() + d.RotationalEnergy()
}

// Valid reports whether every kinematic component is finite.
func (d *Disk) Valid() bool {
	return dynamo.IsFinite(d.X, d.Y, d.VX, d.VY, d.AngularVelocity, d.Rotation)
}

func (d *Disk) String() string {
	return fmt.Sprintf("disk(r=%.1f m=%.2f pos=(%.2f,%.2f) vel=(%.2f,%.2f) w=%.3f)",
		d.radius, d.mass, d.X, d.Y, d.VX, d.VY, d.AngularVelocity)
}
