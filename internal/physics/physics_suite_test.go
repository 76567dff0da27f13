package physics_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/physics"
)

func TestPhysics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Physics Suite")
}

func newDisk(x, y, r, m, vx, vy float64) *physics.Disk {
	d, err := physics.NewDisk(x, y, r, m, "#00ffcc", vx, vy)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Disk.Update", func() {
	Context("with only drag, Magnus and rotational drag acting", func() {
		It("never increases total energy in a tick", func() {
			rng := dynamo.NewRand(2024)
			p := &physics.Params{
				AirDensity:                1.2,
				DragCoefficient:           0.47,
				RotationalDragCoefficient: 0.3,
				Width:                     1e7,
				Height:                    1e7,
			}

			for i := 0; i < 2000; i++ {
				d := newDisk(5e6, 5e6,
					dynamo.RandomRange(rng, 1, 40),
					dynamo.RandomRange(rng, 0.1, 10),
					dynamo.RandomRange(rng, -1500, 1500),
					dynamo.RandomRange(rng, -1500, 1500))
				d.AngularVelocity = dynamo.RandomRange(rng, -200, 200)
				dt := dynamo.RandomRange(rng, 0.001, 0.1)

				before := d.Energy()
				d.Update(p, dt)

				Expect(d.Valid()).To(BeTrue())
				Expect(d.Energy()).To(BeNumerically("<=", before*(1+1e-12)+1e-12))
			}
		})

		It("does not let strong spin raise the speed", func() {
			p := &physics.Params{AirDensity: 5, Width: 1e6, Height: 1e6}
			d := newDisk(5e5, 5e5, 30, 0.5, 10, 0)
			d.AngularVelocity = 1e4

			for i := 0; i < 100; i++ {
				speed := d.Speed()
				d.Update(p, 0.05)
				Expect(d.Speed()).To(BeNumerically("<=", speed*(1+1e-12)))
			}
		})
	})

	Context("falling under gravity with negligible drag", func() {
		It("rebounds from the floor at about 0.8 of the impact speed", func() {
			p := &physics.Params{Gravity: physics.DefaultGravity, Width: 800, Height: 600}
			d := newDisk(400, 100, 10, 1, 0, 0)
			dt := 1.0 / 240

			bounced := false
			for i := 0; i < 2000 && !bounced; i++ {
				prev := d.VY
				hits := d.Update(p, dt)
				if hits > 0 {
					impact := prev + p.Gravity*dt
					Expect(-d.VY / impact).To(BeNumerically("~", physics.Restitution, 0.01))
					bounced = true
				}
			}
			Expect(bounced).To(BeTrue())
		})
	})

	DescribeTable("clamping a disk driven past an edge",
		func(x, y, vx, vy float64, onEdge func(d *physics.Disk) float64) {
			p := &physics.Params{Width: 640, Height: 480}
			d := newDisk(x, y, 16, 1, vx, vy)
			for i := 0; i < 5; i++ {
				d.Update(p, 0.05)
				Expect(d.X - d.Radius()).To(BeNumerically(">=", 0))
				Expect(d.Y - d.Radius()).To(BeNumerically(">=", 0))
				Expect(d.X + d.Radius()).To(BeNumerically("<=", 640))
				Expect(d.Y + d.Radius()).To(BeNumerically("<=", 480))
			}
			d2 := newDisk(x, y, 16, 1, vx, vy)
			d2.Update(p, 1)
			Expect(onEdge(d2)).To(Equal(0.0))
		},
		Entry("left", 40.0, 240.0, -4000.0, 0.0, func(d *physics.Disk) float64 { return d.X - d.Radius() }),
		Entry("right", 600.0, 240.0, 4000.0, 0.0, func(d *physics.Disk) float64 { return d.X + d.Radius() - 640 }),
		Entry("top", 320.0, 40.0, 0.0, -4000.0, func(d *physics.Disk) float64 { return d.Y - d.Radius() }),
		Entry("bottom", 320.0, 440.0, 0.0, 4000.0, func(d *physics.Disk) float64 { return d.Y + d.Radius() - 480 }),
	)
})

var _ = Describe("ResolvePair", func() {
	It("leaves no residual overlap after one pass", func() {
		rng := dynamo.NewRand(99)
		for i := 0; i < 500; i++ {
			ra := dynamo.RandomRange(rng, 2, 30)
			rb := dynamo.RandomRange(rng, 2, 30)
			a := newDisk(500, 500, ra, dynamo.RandomRange(rng, 0.5, 5), dynamo.RandomRange(rng, -100, 100), dynamo.RandomRange(rng, -100, 100))
			angle := dynamo.RandomRange(rng, 0, 2*math.Pi)
			gap := dynamo.RandomRange(rng, 0, ra+rb)
			b := newDisk(500+gap*math.Cos(angle), 500+gap*math.Sin(angle), rb, dynamo.RandomRange(rng, 0.5, 5), 0, 0)

			Expect(physics.ResolvePair(a, b)).To(BeTrue())
			Expect(math.Hypot(b.X-a.X, b.Y-a.Y)).To(BeNumerically(">=", ra+rb-1e-9))
			Expect(a.Valid() && b.Valid()).To(BeTrue())
		}
	})

	It("conserves linear kinetic energy in the elastic step when spins are zero", func() {
		a := newDisk(100, 100, 10, 1, 30, 0)
		b := newDisk(118, 104, 10, 3, -10, 0)
		before := a.KineticEnergy() + b.KineticEnergy()

		physics.ResolvePair(a, b)

		Expect(a.KineticEnergy() + b.KineticEnergy()).To(BeNumerically("~", before, 1e-9))
	})
})

var _ = Describe("Determinism", func() {
	build := func() []*physics.Disk {
		rng := dynamo.NewRand(7)
		disks := make([]*physics.Disk, 8)
		for i := range disks {
			disks[i] = newDisk(
				dynamo.RandomRange(rng, 50, 750),
				dynamo.RandomRange(rng, 50, 550),
				dynamo.RandomRange(rng, 10, 40),
				dynamo.RandomRange(rng, 0.5, 4),
				dynamo.RandomRange(rng, -400, 400),
				dynamo.RandomRange(rng, -400, 400))
			disks[i].AngularVelocity = dynamo.RandomRange(rng, -20, 20)
		}
		return disks
	}

	It("reproduces identical trajectories", func() {
		a, b := build(), build()
		pa, pb := physics.DefaultParams(), physics.DefaultParams()

		for step := 0; step < 600; step++ {
			for i := range a {
				a[i].Update(pa, 1.0/120)
				b[i].Update(pb, 1.0/120)
			}
			physics.ResolveAll(a)
			physics.ResolveAll(b)
		}

		for i := range a {
			Expect(*a[i]).To(Equal(*b[i]))
		}
	})
})
