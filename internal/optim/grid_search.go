package optim

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/spring"
)

// Range is an inclusive, evenly spaced set of Steps values.
type Range struct {
	Min, Max float64
	Steps    int
}

func (r Range) Values() []float64 {
	if r.Steps <= 1 || r.Max == r.Min {
		return []float64{r.Min}
	}
	out := make([]float64, r.Steps)
	for i := range out {
		out[i] = r.Min + (r.Max-r.Min)*float64(i)/float64(r.Steps-1)
	}
	return out
}

// Candidate is one evaluated point of the grid. SettleTime is -1 when the
// spring did not settle within the run.
type Candidate struct {
	Config     spring.Config
	SettleTime float64
	Overshoot  float64
	Err        error
}

// Evaluator scores one spring configuration.
type Evaluator func(ctx context.Context, cfg spring.Config) Candidate

type GridSearch struct {
	Tension  Range
	Friction Range
	Workers  int
}

func NewGridSearch(tension, friction Range) *GridSearch {
	return &GridSearch{Tension: tension, Friction: friction}
}

// Search evaluates every tension × friction pair in parallel and returns the
// candidates in grid order.
func (g *GridSearch) Search(ctx context.Context, eval Evaluator) ([]Candidate, error) {
	tensions, frictions := g.Tension.Values(), g.Friction.Values()
	out := make([]Candidate, len(tensions)*len(frictions))

	run := func(start, end int) {
		for i := start; i < end; i++ {
			cfg := spring.Config{
				Tension:  tensions[i/len(frictions)],
				Friction: frictions[i%len(frictions)],
			}
			if err := ctx.Err(); err != nil {
				out[i] = Candidate{Config: cfg, SettleTime: -1, Err: err}
				continue
			}
			out[i] = eval(ctx, cfg)
			out[i].Config = cfg
		}
	}

	if g.Workers > 0 {
		dynamo.ParallelForWorkers(len(out), 1, g.Workers, run)
	} else {
		dynamo.ParallelFor(len(out), 1, run)
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

var ErrNoCandidate = errors.New("no configuration settled within the overshoot ceiling")

// Best returns the candidate with the shortest settle time whose overshoot
// does not exceed maxOvershoot. Ties go to the lower tension.
func Best(cands []Candidate, maxOvershoot float64) (Candidate, error) {
	best := Candidate{SettleTime: math.Inf(1)}
	found := false
	for _, c := range cands {
		if c.Err != nil || c.SettleTime < 0 || c.Overshoot > maxOvershoot {
			continue
		}
		if c.SettleTime < best.SettleTime ||
			(c.SettleTime == best.SettleTime && c.Config.Tension < best.Config.Tension) {
			best, found = c, true
		}
	}
	if !found {
		return Candidate{}, ErrNoCandidate
	}
	return best, nil
}

// Rank sorts settled candidates by settle time, unsettled ones last.
func Rank(cands []Candidate) []Candidate {
	out := append([]Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.SettleTime < 0) != (b.SettleTime < 0) {
			return b.SettleTime < 0
		}
		return a.SettleTime < b.SettleTime
	})
	return out
}

// ExperimentEvaluator scores a configuration by replaying base with that
// spring and reading the overshoot and settle time metrics.
func ExperimentEvaluator(base experiment.Config) Evaluator {
	return func(ctx context.Context, cfg spring.Config) Candidate {
		run := base
		run.Spring = cfg

		e := experiment.New(run, zerolog.Nop())
		if err := e.Setup(); err != nil {
			return Candidate{SettleTime: -1, Err: err}
		}
		e.AddMetric(metrics.NewOvershoot(), metrics.NewSettleTime(spring.RestThreshold))

		result, err := e.Run(ctx)
		if err != nil {
			return Candidate{SettleTime: -1, Err: err}
		}
		return Candidate{
			SettleTime: result.Metrics["settle_time"],
			Overshoot:  result.Metrics["overshoot"],
		}
	}
}
