package spring_test

import (
	"bytes"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/spring"
)

const frame60 = 16 * time.Millisecond

var _ = Describe("Spring", func() {
	var h *host

	BeforeEach(func() {
		h = newHost()
	})

	Describe("construction", func() {
		It("starts at rest on the initial value", func() {
			s := spring.New(3, h.queue)
			Expect(s.Value()).To(Equal(3.0))
			Expect(s.Target()).To(Equal(3.0))
			Expect(s.Velocity()).To(BeZero())
			Expect(s.Animating()).To(BeFalse())
			Expect(h.queue.Pending()).To(BeZero())
		})

		It("uses the standard config when none is given", func() {
			s := spring.New(0, h.queue)
			Expect(s.Config()).To(Equal(spring.Config{Tension: 180, Friction: 12}))

			s = spring.New(0, h.queue, spring.WithConfig(spring.Config{}))
			Expect(s.Config()).To(Equal(spring.DefaultConfig()))
		})

		It("replaces a non-finite initial value with zero", func() {
			s := spring.New(math.NaN(), h.queue)
			Expect(s.Value()).To(BeZero())
		})
	})

	Describe("convergence", func() {
		DescribeTable("settles exactly on the target",
			func(cfg spring.Config, target float64, limit time.Duration) {
				s := spring.New(0, h.queue, spring.WithConfig(cfg))
				s.Observe(target, cfg)

				h.settle(s, frame60, limit)

				Expect(s.Animating()).To(BeFalse())
				Expect(s.Value()).To(Equal(target))
				Expect(s.Velocity()).To(BeZero())
				Expect(h.queue.Pending()).To(BeZero())
			},
			Entry("standard", spring.DefaultConfig(), 1.0, 3*time.Second),
			Entry("underdamped, large delta", spring.Config{Tension: 300, Friction: 5}, 100.0, 10*time.Second),
			Entry("lightly damped", spring.Config{Tension: 120, Friction: 4}, -7.5, 10*time.Second),
			Entry("critically damped", spring.Config{Tension: 100, Friction: 20}, 1.0, 5*time.Second),
			Entry("overdamped", spring.Config{Tension: 100, Friction: 40}, 1.0, 10*time.Second),
			Entry("beyond the stability clamp", spring.Config{Tension: 5e6, Friction: 2e3}, 42.0, time.Second),
			Entry("invalid tension", spring.Config{Tension: -1, Friction: 12}, 1.0, time.Second),
		)

		It("settles the standard spring from 0 to 1 in well under two seconds", func() {
			s := spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			h.frame(frame60)

			for i := 0; i < 25; i++ {
				h.frame(frame60)
			}
			Expect(s.Steps()).To(Equal(uint64(400)))
			Expect(s.Value()).To(BeNumerically("~", 1, 0.05))

			h.settle(s, frame60, 2*time.Second)
			Expect(s.Animating()).To(BeFalse())
			Expect(s.Value()).To(Equal(1.0))
		})

		It("keeps an undamped spring bounded", func() {
			cfg := spring.Config{Tension: 180, Friction: 0}
			s := spring.New(0, h.queue, spring.WithConfig(cfg))
			s.Observe(1, cfg)

			values := h.settle(s, frame60, 10*time.Second)

			Expect(s.Animating()).To(BeTrue())
			for _, v := range values {
				Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
				Expect(math.Abs(v - 1)).To(BeNumerically("<=", 1.01))
			}
		})

		It("converges with an alternative integrator", func() {
			s := spring.New(0, h.queue, spring.WithIntegrator(integrators.NewAnalytic()))
			s.Observe(10, spring.DefaultConfig())

			h.settle(s, frame60, 5*time.Second)

			Expect(s.Animating()).To(BeFalse())
			Expect(s.Value()).To(Equal(10.0))
		})
	})

	Describe("at rest", func() {
		var s *spring.Spring

		BeforeEach(func() {
			s = spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			h.settle(s, frame60, 5*time.Second)
			Expect(s.Animating()).To(BeFalse())
		})

		It("is idempotent for the same target", func() {
			for i := 0; i < 3; i++ {
				value, animating := s.Observe(1, spring.DefaultConfig())
				Expect(value).To(Equal(1.0))
				Expect(animating).To(BeFalse())
			}
			Expect(h.queue.Pending()).To(BeZero())
		})

		It("ignores target changes within epsilon", func() {
			value, animating := s.Observe(1+spring.TargetEpsilon/2, spring.DefaultConfig())
			Expect(animating).To(BeFalse())
			Expect(value).To(Equal(1.0))
			Expect(s.Target()).To(Equal(1.0))
			Expect(h.queue.Pending()).To(BeZero())
		})

		It("ignores non-finite targets", func() {
			for _, target := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, animating := s.Observe(target, spring.DefaultConfig())
				Expect(animating).To(BeFalse())
			}
			Expect(s.Target()).To(Equal(1.0))
			Expect(h.queue.Pending()).To(BeZero())
		})

		It("starts a fresh run from the old target with zero velocity", func() {
			value, animating := s.Observe(2, spring.DefaultConfig())
			Expect(animating).To(BeTrue())
			Expect(value).To(Equal(1.0))
			Expect(s.Velocity()).To(BeZero())
			Expect(h.queue.Pending()).To(Equal(1))
		})
	})

	Describe("frame stepping", func() {
		It("only records the frame time on the first callback of a run", func() {
			s := spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())

			h.frame(frame60)
			Expect(s.Steps()).To(BeZero())
			Expect(s.Value()).To(BeZero())
			Expect(s.Animating()).To(BeTrue())

			h.frame(frame60)
			Expect(s.Steps()).To(Equal(uint64(16)))
			Expect(s.Value()).To(BeNumerically(">", 0))
		})

		It("produces identical trajectories however the elapsed time is split", func() {
			one, five := newHost(), newHost()
			a := spring.New(0, one.queue)
			b := spring.New(0, five.queue)
			a.Observe(1, spring.DefaultConfig())
			b.Observe(1, spring.DefaultConfig())
			one.frame(0)
			five.frame(0)

			one.frame(50 * time.Millisecond)
			for i := 0; i < 5; i++ {
				five.frame(10 * time.Millisecond)
			}

			Expect(a.Steps()).To(Equal(uint64(50)))
			Expect(b.Steps()).To(Equal(uint64(50)))
			Expect(b.Value()).To(Equal(a.Value()))
			Expect(b.Velocity()).To(Equal(a.Velocity()))
		})

		It("carries sub-step remainders into the next frame", func() {
			whole, split := newHost(), newHost()
			a := spring.New(0, whole.queue)
			b := spring.New(0, split.queue)
			a.Observe(1, spring.DefaultConfig())
			b.Observe(1, spring.DefaultConfig())
			whole.frame(0)
			split.frame(0)

			whole.frame(10 * time.Millisecond)
			for i := 0; i < 4; i++ {
				split.frame(2500 * time.Microsecond)
			}

			Expect(b.Steps()).To(Equal(a.Steps()))
			Expect(b.Value()).To(Equal(a.Value()))
			Expect(b.Velocity()).To(Equal(a.Velocity()))
		})

		It("clamps a long frame to MaxElapsed", func() {
			long, capped := newHost(), newHost()
			a := spring.New(0, long.queue)
			b := spring.New(0, capped.queue)
			a.Observe(1, spring.DefaultConfig())
			b.Observe(1, spring.DefaultConfig())
			long.frame(0)
			capped.frame(0)

			long.frame(5 * time.Second)
			capped.frame(spring.MaxElapsed)

			Expect(a.Steps()).To(Equal(uint64(64)))
			Expect(a.Value()).To(Equal(b.Value()))
			Expect(a.Velocity()).To(Equal(b.Velocity()))
			Expect(a.Animating()).To(BeTrue())
		})

		It("does not integrate when frame time goes backwards", func() {
			s := spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			h.frame(frame60)
			h.frame(-5 * time.Millisecond)

			Expect(s.Steps()).To(BeZero())
			Expect(s.Animating()).To(BeTrue())
		})

		It("keeps exactly one callback pending per spring", func() {
			s := spring.New(0, h.queue)
			other := spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			Expect(h.queue.Pending()).To(Equal(1))

			other.Observe(5, spring.DefaultConfig())
			for i := 0; i < 10; i++ {
				Expect(h.queue.Pending()).To(Equal(2))
				h.frame(frame60)
			}

			s.Observe(-1, spring.DefaultConfig())
			s.Observe(3, spring.DefaultConfig())
			Expect(h.queue.Pending()).To(Equal(2))
		})
	})

	Describe("motion shape", func() {
		DescribeTable("never overshoots when friction² >= 4·tension",
			func(cfg spring.Config) {
				Expect(spring.RegimeOf(cfg)).NotTo(Equal(spring.Underdamped))
				s := spring.New(0, h.queue, spring.WithConfig(cfg))
				s.Observe(1, cfg)

				values := h.settle(s, frame60, 10*time.Second)
				Expect(s.Animating()).To(BeFalse())

				prev := 1.0
				for _, v := range values {
					d := math.Abs(v - 1)
					Expect(d).To(BeNumerically("<=", prev+1e-12))
					prev = d
				}
			},
			Entry("critical 100/20", spring.Config{Tension: 100, Friction: 20}),
			Entry("critical 400/40", spring.Config{Tension: 400, Friction: 40}),
			Entry("overdamped 100/40", spring.Config{Tension: 100, Friction: 40}),
			Entry("overdamped 180/30", spring.Config{Tension: 180, Friction: 30}),
		)

		It("overshoots for an underdamped spring", func() {
			cfg := spring.Config{Tension: 300, Friction: 5}
			Expect(spring.RegimeOf(cfg)).To(Equal(spring.Underdamped))
			s := spring.New(0, h.queue, spring.WithConfig(cfg))
			s.Observe(100, cfg)

			values := h.settle(s, frame60, 10*time.Second)

			crossed := false
			for _, v := range values {
				if v > 100 {
					crossed = true
					break
				}
			}
			Expect(crossed).To(BeTrue())
			Expect(s.Value()).To(Equal(100.0))
		})
	})

	Describe("redirecting mid-flight", func() {
		var s *spring.Spring

		BeforeEach(func() {
			s = spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			for i := 0; i < 6; i++ {
				h.frame(frame60)
			}
			Expect(s.Animating()).To(BeTrue())
		})

		It("keeps velocity", func() {
			before := s.Velocity()
			Expect(before).NotTo(BeZero())

			value, animating := s.Observe(-1, spring.DefaultConfig())

			Expect(animating).To(BeTrue())
			Expect(value).To(Equal(s.Value()))
			Expect(s.Velocity()).To(Equal(before))
			Expect(s.Target()).To(Equal(-1.0))
		})

		It("keeps frame timing", func() {
			steps := s.Steps()
			s.Observe(-1, spring.DefaultConfig())
			Expect(h.queue.Pending()).To(Equal(1))

			h.frame(frame60)
			Expect(s.Steps()).To(Equal(steps + 16))
		})

		It("settles on the new target", func() {
			s.Observe(-1, spring.DefaultConfig())
			h.settle(s, frame60, 5*time.Second)
			Expect(s.Animating()).To(BeFalse())
			Expect(s.Value()).To(Equal(-1.0))
		})
	})

	Describe("teardown", func() {
		It("cancels the pending callback and snaps to the target", func() {
			s := spring.New(0, h.queue)
			s.Observe(1, spring.DefaultConfig())
			h.frame(frame60)
			h.frame(frame60)
			Expect(h.queue.Pending()).To(Equal(1))

			s.Close()

			Expect(h.queue.Pending()).To(BeZero())
			Expect(s.Animating()).To(BeFalse())
			Expect(s.Value()).To(Equal(1.0))
			Expect(h.frame(frame60)).To(BeZero())
		})

		It("jumps straight to new targets once closed", func() {
			s := spring.New(0, h.queue)
			s.Close()

			value, animating := s.Observe(5, spring.DefaultConfig())

			Expect(value).To(Equal(5.0))
			Expect(animating).To(BeFalse())
			Expect(h.queue.Pending()).To(BeZero())
		})
	})

	Describe("listener", func() {
		type update struct {
			value     float64
			animating bool
		}

		It("reports every integrating frame and the final rest", func() {
			var updates []update
			s := spring.New(0, h.queue, spring.WithListener(func(v float64, a bool) {
				updates = append(updates, update{v, a})
			}))
			s.Observe(1, spring.DefaultConfig())

			h.frame(frame60)
			Expect(updates).To(BeEmpty())

			values := h.settle(s, frame60, 5*time.Second)

			Expect(updates).To(HaveLen(len(values)))
			last := updates[len(updates)-1]
			Expect(last).To(Equal(update{1, false}))
			for _, u := range updates[:len(updates)-1] {
				Expect(u.animating).To(BeTrue())
			}
		})

		It("can chain a new run from the rest notification", func() {
			var s *spring.Spring
			chained := false
			s = spring.New(0, h.queue, spring.WithListener(func(v float64, animating bool) {
				if !animating && !chained {
					chained = true
					s.Observe(2, spring.DefaultConfig())
				}
			}))
			s.Observe(1, spring.DefaultConfig())

			h.settle(s, frame60, 10*time.Second)

			Expect(chained).To(BeTrue())
			Expect(s.Value()).To(Equal(2.0))
			Expect(h.queue.Pending()).To(BeZero())
		})
	})

	Describe("logging", func() {
		It("writes lifecycle events at debug level", func() {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.DebugLevel)
			s := spring.New(0, h.queue, spring.WithLogger(log))

			s.Observe(1, spring.Config{Tension: 0, Friction: 1})
			h.settle(s, frame60, time.Second)

			Expect(buf.String()).To(ContainSubstring("spring config clamped"))
			Expect(buf.String()).To(ContainSubstring("spring started"))
			Expect(buf.String()).To(ContainSubstring("spring at rest"))
		})
	})
})
