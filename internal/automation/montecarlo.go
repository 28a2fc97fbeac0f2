package automation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/spring"
)

var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// MonteCarloConfig drives one spring from From to To many times with frame
// intervals drawn uniformly from Frame*(1±Jitter).
type MonteCarloConfig struct {
	Spring spring.Config
	From   float64
	To     float64
	Frame  time.Duration
	Jitter float64
	Trials int
	Limit  time.Duration
	Seed   int64
}

// MonteCarloResult is one trial.
type MonteCarloResult struct {
	Trial     int
	Frames    int
	Steps     uint64
	SettledAt time.Duration
	Settled   bool
	Final     float64
}

// RunMonteCarlo runs the trials sequentially. A zero Seed seeds from the
// clock.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, log zerolog.Logger) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, errors.New("monte carlo: trials must be positive")
	}
	if cfg.Frame <= 0 {
		return nil, errors.New("monte carlo: frame interval must be positive")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10 * time.Second
	}
	jitter := math.Min(math.Max(cfg.Jitter, 0), 1)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		q := frame.NewQueue()
		s := spring.New(cfg.From, q)
		s.Observe(cfg.To, cfg.Spring)

		now := epoch
		r := MonteCarloResult{Trial: trial}
		for s.Animating() && now.Sub(epoch) < cfg.Limit {
			d := time.Duration(float64(cfg.Frame) * (1 + jitter*(2*rng.Float64()-1)))
			now = now.Add(d)
			q.Flush(now)
			r.Frames++
		}
		r.Steps = s.Steps()
		r.Final = s.Value()
		r.Settled = !s.Animating()
		if r.Settled {
			r.SettledAt = now.Sub(epoch)
		}
		s.Close()

		results = append(results, r)
		if (trial+1)%10 == 0 {
			log.Debug().Int("done", trial+1).Int("trials", cfg.Trials).Msg("monte carlo progress")
		}
	}

	return results, nil
}

// MonteCarloStats summarizes trials. The step spread is max-min over the
// settled trials; with a fixed integration step it stays within one frame's
// worth of steps whatever the jitter.
type MonteCarloStats struct {
	Settled    int
	Unsettled  int
	MinSteps   uint64
	MaxSteps   uint64
	MeanSettle time.Duration
}

func Summarize(results []MonteCarloResult) MonteCarloStats {
	var st MonteCarloStats
	var total time.Duration
	for _, r := range results {
		if !r.Settled {
			st.Unsettled++
			continue
		}
		if st.Settled == 0 || r.Steps < st.MinSteps {
			st.MinSteps = r.Steps
		}
		if r.Steps > st.MaxSteps {
			st.MaxSteps = r.Steps
		}
		st.Settled++
		total += r.SettledAt
	}
	if st.Settled > 0 {
		st.MeanSettle = total / time.Duration(st.Settled)
	}
	return st
}
