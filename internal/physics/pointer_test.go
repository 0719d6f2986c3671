package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blobsim/internal/dynamo"
)

var _ = Describe("Ring pointer mapping", func() {
	var (
		ring    *Ring
		surface *fakeSurface
	)

	// 400x400 surface, radius 100: center (200,200).
	BeforeEach(func() {
		p := DefaultRingParams()
		p.Radius = 100
		var err error
		ring, err = NewRing(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(ring.Initialize()).To(Succeed())
		surface = &fakeSurface{w: 400, h: 400}
		Expect(ring.SetSurface(surface)).To(Succeed())
	})

	Context("entering the ring", func() {
		It("flips hover and pushes the nearest point inward", func() {
			imp := ring.PointerMoved(dynamo.V(250, 200))

			Expect(imp.Transition).To(Equal(Enter))
			Expect(ring.Hovered()).To(BeTrue())
			Expect(imp.Angle).To(BeNumerically("~", 0, 1e-12))
			Expect(imp.Index).To(Equal(16))
			// travel from (0,0) is far beyond the cap
			Expect(imp.Value).To(Equal(-1.0))
			Expect(ring.Points()[16].Acceleration()).To(Equal(-1.0))
			Expect(ring.Points()[16].RadialEffect()).To(Equal(-10.0))
		})

		It("scales the impulse with pointer travel", func() {
			ring.PointerMoved(dynamo.V(200, 305)) // outside, no transition
			imp := ring.PointerMoved(dynamo.V(200, 298))

			Expect(imp.Transition).To(Equal(Enter))
			Expect(imp.Value).To(BeNumerically("~", -0.7, 1e-12))
			Expect(imp.Angle).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(imp.Index).To(Equal(8))
		})

		It("applies the accent colour when one is configured", func() {
			Expect(ring.SetAccent("#FF0066")).To(Succeed())
			ring.PointerMoved(dynamo.V(210, 210))
			Expect(ring.FillColor()).To(Equal(dynamo.Color("#ff0066")))
		})

		It("leaves the fill alone without an accent", func() {
			Expect(ring.SetFillColor("#123456")).To(Succeed())
			ring.PointerMoved(dynamo.V(210, 210))
			Expect(ring.FillColor()).To(Equal(dynamo.Color("#123456")))
		})
	})

	Context("leaving the ring", func() {
		BeforeEach(func() {
			ring.PointerMoved(dynamo.V(299, 200))
			Expect(ring.Hovered()).To(BeTrue())
		})

		It("pushes the nearest point outward", func() {
			imp := ring.PointerMoved(dynamo.V(301, 200))

			Expect(imp.Transition).To(Equal(Leave))
			Expect(ring.Hovered()).To(BeFalse())
			Expect(imp.Index).To(Equal(16))
			Expect(imp.Value).To(BeNumerically("~", 0.2, 1e-12))
		})

		It("always resets the fill to the default", func() {
			Expect(ring.SetFillColor("#abcdef")).To(Succeed())
			ring.PointerMoved(dynamo.V(400, 400))
			Expect(ring.FillColor()).To(Equal(dynamo.DefaultFill))
		})
	})

	Context("without a transition", func() {
		It("ignores a pointer exactly on the radius", func() {
			imp := ring.PointerMoved(dynamo.V(300, 200))
			Expect(imp.Transition).To(Equal(NoTransition))
			Expect(imp.Index).To(Equal(-1))
			Expect(ring.Hovered()).To(BeFalse())
			Expect(ring.State().Norm()).To(BeZero())
		})

		It("ignores moves that stay inside", func() {
			ring.PointerMoved(dynamo.V(210, 200))
			before := ring.State()
			imp := ring.PointerMoved(dynamo.V(220, 200))
			Expect(imp.Transition).To(Equal(NoTransition))
			Expect(ring.State()).To(Equal(before))
		})

		It("still records the pointer position", func() {
			ring.PointerMoved(dynamo.V(10, 20))
			Expect(ring.PrevPointer()).To(Equal(dynamo.V(10, 20)))
		})
	})

	It("wraps the angular distance across ±π", func() {
		imp := ring.PointerMoved(dynamo.V(150, 199.999))
		Expect(imp.Angle).To(BeNumerically("<", -3.14))
		Expect(imp.Index).To(Equal(0))
	})

	It("tracks the surface size when locating the center", func() {
		surface.w, surface.h = 1000, 1000
		imp := ring.PointerMoved(dynamo.V(250, 200))
		Expect(imp.Transition).To(Equal(NoTransition))
		imp = ring.PointerMoved(dynamo.V(520, 500))
		Expect(imp.Transition).To(Equal(Enter))
	})
})

var _ = Describe("AngularDistance", func() {
	DescribeTable("wraps into [0, π]",
		func(a, b, want float64) {
			Expect(AngularDistance(a, b)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("identical", 1.0, 1.0, 0.0),
		Entry("simple", 0.5, -0.5, 1.0),
		Entry("across the seam", math.Pi-0.1, -math.Pi+0.1, 0.2),
		Entry("opposite", 0.0, math.Pi, math.Pi),
	)
})
