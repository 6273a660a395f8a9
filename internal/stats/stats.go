// Package stats samples a dice formula many times and summarises the
// distribution of its results.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/rng"
)

// MaxDenseBuckets is the widest [Min, Max] range for which every value gets a
// bucket, including values never rolled. Wider ranges only list observed values.
const MaxDenseBuckets = 10000

// checkEvery is how many samples a worker rolls between context checks.
const checkEvery = 1024

// ErrInvalidOptions reports unusable sampling options.
var ErrInvalidOptions = errors.New("stats: invalid options")

// Options configures one statistics run.
type Options struct {
	Formula      string
	Samples      int
	Workers      int
	Seed         uint64
	Advantage    bool
	Disadvantage bool
	MaxDice      int
}

// Bucket is the number of samples that produced Value.
type Bucket struct {
	Value   int32
	Count   int
	Percent float64
}

// Report summarises a statistics run.
//
// Invariant: the Counts of Buckets sum to Samples.
type Report struct {
	ID      string
	Formula string
	Samples int
	Workers int
	Seed    uint64
	Min     int32 // every die at 1
	Max     int32 // every die at its face count
	Buckets []Bucket
	Mean    float64
	StdDev  float64 // population standard deviation
	Elapsed time.Duration
}

// Runner executes statistics runs.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: logger must be non-nil.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run rolls opts.Formula opts.Samples times across opts.Workers goroutines.
//
// Each worker owns a Generator split, in worker order, from one master
// Generator seeded with opts.Seed, so a run is reproducible for a fixed seed,
// sample count and worker count.
//
// Postcondition: Returns a Report, an error wrapping ErrInvalidOptions, the
// formula's dice error, or ctx.Err() when cancelled.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	start := time.Now()
	if opts.Samples < 1 {
		return Report{}, fmt.Errorf("%w: samples must be >= 1, got %d", ErrInvalidOptions, opts.Samples)
	}
	if opts.Workers < 1 {
		return Report{}, fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidOptions, opts.Workers)
	}
	workers := min(opts.Workers, opts.Samples)

	lo, err := dice.Evaluate(opts.Formula, dice.Request{Policy: dice.PolicyMin, MaxDice: opts.MaxDice})
	if err != nil {
		return Report{}, err
	}
	hi, err := dice.Evaluate(opts.Formula, dice.Request{Policy: dice.PolicyMax, MaxDice: opts.MaxDice})
	if err != nil {
		return Report{}, err
	}

	report := Report{
		ID:      uuid.New().String(),
		Formula: opts.Formula,
		Samples: opts.Samples,
		Workers: workers,
		Seed:    opts.Seed,
		Min:     lo,
		Max:     hi,
	}
	logger := r.logger.With(zap.String("stats_id", report.ID), zap.String("formula", opts.Formula))

	master := rng.New(opts.Seed)
	counts := make([]map[int32]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		n := opts.Samples / workers
		if w < opts.Samples%workers {
			n++
		}
		gen := master.Split()
		local := make(map[int32]int)
		counts[w] = local
		g.Go(func() error {
			req := dice.Request{
				Policy:       dice.PolicyRandom,
				Source:       gen,
				Advantage:    opts.Advantage,
				Disadvantage: opts.Disadvantage,
				MaxDice:      opts.MaxDice,
			}
			for i := 0; i < n; i++ {
				if i%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				v, err := dice.Evaluate(opts.Formula, req)
				if err != nil {
					return err
				}
				local[v]++
			}
			logger.Debug("stats worker done", zap.Int("worker", w), zap.Int("samples", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("statistics run aborted", zap.Error(err))
		return Report{}, err
	}

	merged := make(map[int32]int)
	for _, local := range counts {
		for v, c := range local {
			merged[v] += c
		}
	}
	report.Buckets = buildBuckets(merged, lo, hi, opts.Samples)
	report.Mean, report.StdDev = meanStdDev(report.Buckets, opts.Samples)
	report.Elapsed = time.Since(start)

	logger.Info("statistics complete",
		zap.Int("samples", opts.Samples),
		zap.Int("workers", workers),
		zap.Float64("mean", report.Mean),
		zap.Float64("stddev", report.StdDev),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// buildBuckets returns buckets sorted by value. When [lo, hi] is at most
// MaxDenseBuckets wide every value in it is present, rolled or not.
func buildBuckets(counts map[int32]int, lo, hi int32, samples int) []Bucket {
	if lo > hi {
		lo, hi = hi, lo
	}
	values := make(map[int32]struct{}, len(counts))
	for v := range counts {
		values[v] = struct{}{}
	}
	if int64(hi)-int64(lo)+1 <= MaxDenseBuckets {
		for v := int64(lo); v <= int64(hi); v++ {
			values[int32(v)] = struct{}{}
		}
	}

	buckets := make([]Bucket, 0, len(values))
	for v := range values {
		c := counts[v]
		buckets = append(buckets, Bucket{
			Value:   v,
			Count:   c,
			Percent: 100 * float64(c) / float64(samples),
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Value < buckets[j].Value })
	return buckets
}

func meanStdDev(buckets []Bucket, samples int) (mean, stddev float64) {
	n := float64(samples)
	for _, b := range buckets {
		mean += float64(b.Value) * float64(b.Count)
	}
	mean /= n
	var variance float64
	for _, b := range buckets {
		d := float64(b.Value) - mean
		variance += d * d * float64(b.Count)
	}
	return mean, math.Sqrt(variance / n)
}
