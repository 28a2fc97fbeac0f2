package spring_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/spring"
)

var _ = Describe("Config", func() {
	DescribeTable("Sanitize",
		func(in, want spring.Config, clamped bool) {
			got, changed := in.Sanitize()
			Expect(got).To(Equal(want))
			Expect(changed).To(Equal(clamped))
		},
		Entry("default is untouched", spring.DefaultConfig(), spring.DefaultConfig(), false),
		Entry("zero friction is allowed", spring.Config{Tension: 50}, spring.Config{Tension: 50}, false),
		Entry("zero tension is stiff", spring.Config{Friction: 12}, spring.StiffConfig, true),
		Entry("negative tension is stiff", spring.Config{Tension: -3, Friction: 1}, spring.StiffConfig, true),
		Entry("NaN tension is stiff", spring.Config{Tension: math.NaN(), Friction: 1}, spring.StiffConfig, true),
		Entry("huge tension is capped",
			spring.Config{Tension: 5e6, Friction: 10}, spring.Config{Tension: spring.MaxTension, Friction: 10}, true),
		Entry("negative friction is zeroed",
			spring.Config{Tension: 10, Friction: -1}, spring.Config{Tension: 10}, true),
		Entry("NaN friction is zeroed",
			spring.Config{Tension: 10, Friction: math.NaN()}, spring.Config{Tension: 10}, true),
		Entry("huge friction is capped",
			spring.Config{Tension: 10, Friction: 1e5}, spring.Config{Tension: 10, Friction: spring.MaxFriction}, true),
	)

	DescribeTable("RegimeOf",
		func(c spring.Config, want spring.Regime) {
			Expect(spring.RegimeOf(c)).To(Equal(want))
		},
		Entry("default", spring.DefaultConfig(), spring.Underdamped),
		Entry("100/20", spring.Config{Tension: 100, Friction: 20}, spring.CriticallyDamped),
		Entry("100/40", spring.Config{Tension: 100, Friction: 40}, spring.Overdamped),
	)

	It("computes the damping ratio", func() {
		Expect(spring.Config{Tension: 100, Friction: 20}.DampingRatio()).To(BeNumerically("~", 1, 1e-12))
		Expect(spring.Config{Tension: 100, Friction: 5}.DampingRatio()).To(BeNumerically("~", 0.25, 1e-12))
		Expect(math.IsInf(spring.Config{}.DampingRatio(), 1)).To(BeTrue())
	})

	It("names regimes", func() {
		Expect(spring.Overdamped.String()).To(Equal("overdamped"))
		Expect(spring.Regime(9).String()).To(Equal("Regime(9)"))
	})

	It("formats itself", func() {
		Expect(spring.DefaultConfig().String()).To(Equal("tension=180 friction=12"))
	})
})
