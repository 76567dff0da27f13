package sim_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
	"github.com/san-kum/spinarena/internal/sim"
)

func TestSim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sim Suite")
}

func crowd(p *physics.Params, seed int64, n int) *sim.World {
	r := dynamo.NewRand(seed)
	w := sim.NewWorld(p)
	for i := 0; i < n; i++ {
		radius := dynamo.RandomRange(r, 8, 24)
		d, err := physics.NewDisk(
			dynamo.RandomRange(r, radius, p.Width-radius),
			dynamo.RandomRange(r, radius, p.Height-radius),
			radius,
			dynamo.RandomRange(r, 0.5, 2),
			"#ffcc00",
			dynamo.RandomRange(r, -600, 600),
			dynamo.RandomRange(r, -600, 600))
		Expect(err).NotTo(HaveOccurred())
		d.AngularVelocity = dynamo.RandomRange(r, -30, 30)
		w.Add(d, pattern.Choose(r))
	}
	return w
}

var _ = Describe("World", func() {
	var params *physics.Params

	BeforeEach(func() {
		params = physics.DefaultParams()
	})

	It("keeps every body centre in the arena", func() {
		// The pair pass runs after the wall clamp, so a push can move a body
		// past an edge by less than the largest radius until the next tick.
		const slack = 24.0
		w := crowd(params, 3, 20)
		for i := 0; i < 600; i++ {
			w.Step(1.0 / 120)
			for _, b := range w.Snapshot().Bodies {
				Expect(b.X).To(BeNumerically(">=", -slack))
				Expect(b.X).To(BeNumerically("<=", params.Width+slack))
				Expect(b.Y).To(BeNumerically(">=", -slack))
				Expect(b.Y).To(BeNumerically("<=", params.Height+slack))
			}
		}
		Expect(w.Validate()).To(Succeed())
	})

	It("applies arena resizes on the next tick", func() {
		w := crowd(params, 4, 1)
		params.SetArena(300, 200)
		w.Step(1.0 / 60)

		b := w.Snapshot().Bodies[0]
		Expect(b.X + b.Radius).To(BeNumerically("<=", 300+1e-9))
		Expect(b.Y + b.Radius).To(BeNumerically("<=", 200+1e-9))
	})

	It("does not move a held body", func() {
		w := crowd(params, 5, 1)
		b := w.Bodies()[0]
		Expect(w.Hold(b.ID)).To(Succeed())
		x, y := b.X, b.Y

		for i := 0; i < 60; i++ {
			w.Step(1.0 / 60)
		}
		Expect(b.X).To(Equal(x))
		Expect(b.Y).To(Equal(y))
	})

	Context("with the same seed", func() {
		It("produces identical runs", func() {
			cfg := sim.Config{Dt: 1.0 / 120, Duration: 3, SampleEvery: 60}
			a, errA := sim.New().Run(context.Background(), crowd(physics.DefaultParams(), 9, 12), cfg)
			b, errB := sim.New().Run(context.Background(), crowd(physics.DefaultParams(), 9, 12), cfg)

			Expect(errA).NotTo(HaveOccurred())
			Expect(errB).NotTo(HaveOccurred())
			Expect(a.Frames).To(Equal(b.Frames))
			Expect(a.Totals).To(Equal(b.Totals))
		})
	})
})
