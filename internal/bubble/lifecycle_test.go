package bubble_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

var _ = Describe("Animator lifecycle", func() {
	var (
		surface *bubble.StaticSurface
		queue   *bubble.FrameQueue
		draws   int
		env     bubble.StaticEnvironment
	)

	build := func(v bubble.Variant) *bubble.Animator {
		a, err := bubble.New(surface, bubble.DefaultParams(v),
			bubble.WithEnvironment(env),
			bubble.WithScheduler(queue),
			bubble.WithRenderer(bubble.RendererFunc(func(int, int, []bubble.Sprite) { draws++ })),
			bubble.WithSeed(7),
		)
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	BeforeEach(func() {
		surface = bubble.NewStaticSurface(640, 480)
		queue = bubble.NewFrameQueue()
		draws = 0
		env = bubble.StaticEnvironment{DPR: 1, Class: bubble.Desktop}
	})

	Context("fullscreen", func() {
		It("draws once per fired frame", func() {
			a := build(bubble.Fullscreen)
			a.Start()
			for i := 0; i < 30; i++ {
				Expect(queue.Fire()).To(Equal(1))
			}
			Expect(draws).To(Equal(30))
			Expect(a.Frames()).To(Equal(30))
		})

		It("pauses while hidden and resumes with a fresh set", func() {
			a := build(bubble.Fullscreen)
			a.Start()
			queue.Fire()

			a.SetVisible(false)
			Expect(a.Hidden()).To(BeTrue())
			Expect(a.Scheduled()).To(BeFalse())
			Expect(queue.Fire()).To(Equal(0))

			a.SetVisible(true)
			Expect(a.Running()).To(BeTrue())
			Expect(a.Seeds()).To(Equal(2))
			Expect(queue.Pending()).To(Equal(1))
		})

		It("survives repeated hide/show cycles with a single loop", func() {
			a := build(bubble.Fullscreen)
			a.Start()
			for i := 0; i < 10; i++ {
				a.SetVisible(false)
				a.SetVisible(true)
			}
			Expect(queue.Pending()).To(Equal(1))
			Expect(a.Particles()).To(HaveLen(42))
		})
	})

	Context("parallax", func() {
		It("is inert under reduced motion", func() {
			env.Reduced = true
			a := build(bubble.Parallax)
			a.Start()
			a.PointerMove(100, 100)
			queue.Fire()

			Expect(a.Disabled()).To(BeTrue())
			Expect(draws).To(BeZero())
			Expect(queue.Fired()).To(BeZero())
			Expect(a.Target()).To(Equal(bubble.Vec2{}))
		})

		It("eases toward the pointer target", func() {
			a := build(bubble.Parallax)
			a.Start()
			a.PointerMove(640, 480)

			last := a.Target().Len()
			for i := 0; i < 20; i++ {
				queue.Fire()
				d := a.Offset().Sub(a.Target()).Len()
				Expect(d).To(BeNumerically("<", last))
				last = d
			}
		})

		It("keeps its particles in place", func() {
			a := build(bubble.Parallax)
			a.Start()
			before := a.Particles()
			for i := 0; i < 100; i++ {
				queue.Fire()
			}
			Expect(a.Particles()).To(Equal(before))
			Expect(a.Recycles()).To(BeZero())
		})
	})

	Context("element", func() {
		It("keeps running through visibility changes", func() {
			a := build(bubble.Element)
			a.Start()
			a.SetVisible(false)
			Expect(a.Running()).To(BeTrue())
			Expect(queue.Fire()).To(Equal(1))
		})

		It("stops on request", func() {
			a := build(bubble.Element)
			a.Start()
			a.Stop()
			Expect(queue.Fire()).To(Equal(0))
			Expect(a.Running()).To(BeFalse())
		})
	})
})
