package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Defaults returns the metrics recorded for every spring run.
func Defaults(s *physics.DampedSpring, tolerance, bound float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewOvershoot(),
		NewSettleTime(tolerance),
		NewEnergy(s),
		NewStability(bound),
		NewControlEffort(),
	}
}
