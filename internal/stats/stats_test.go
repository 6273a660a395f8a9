package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/stats"
)

func newRunner(t *testing.T) *stats.Runner {
	t.Helper()
	return stats.NewRunner(zap.NewNop())
}

func TestRun_TwoD6(t *testing.T) {
	r := newRunner(t)
	report, err := r.Run(context.Background(), stats.Options{
		Formula: "2d6",
		Samples: 20000,
		Workers: 4,
		Seed:    7,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "2d6", report.Formula)
	assert.Equal(t, int32(2), report.Min)
	assert.Equal(t, int32(12), report.Max)
	require.Len(t, report.Buckets, 11)

	total := 0
	for i, b := range report.Buckets {
		assert.Equal(t, int32(2+i), b.Value)
		total += b.Count
	}
	assert.Equal(t, 20000, total)
	assert.InDelta(t, 7.0, report.Mean, 0.1)
	assert.InDelta(t, 2.415, report.StdDev, 0.1)
}

func TestRun_LiteralFormulaHasOneBucket(t *testing.T) {
	report, err := newRunner(t).Run(context.Background(), stats.Options{
		Formula: "3*4",
		Samples: 100,
		Workers: 3,
	})
	require.NoError(t, err)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, stats.Bucket{Value: 12, Count: 100, Percent: 100}, report.Buckets[0])
	assert.Equal(t, 12.0, report.Mean)
	assert.Equal(t, 0.0, report.StdDev)
}

func TestRun_SameSeedSameReport(t *testing.T) {
	opts := stats.Options{Formula: "1d20+2d4", Samples: 5000, Workers: 3, Seed: 12345, Advantage: true}
	a, err := newRunner(t).Run(context.Background(), opts)
	require.NoError(t, err)
	b, err := newRunner(t).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Buckets, b.Buckets)
	assert.Equal(t, a.Mean, b.Mean)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRun_AdvantageRaisesMean(t *testing.T) {
	base := stats.Options{Formula: "1d20", Samples: 20000, Workers: 2, Seed: 99}
	normal, err := newRunner(t).Run(context.Background(), base)
	require.NoError(t, err)

	adv := base
	adv.Advantage = true
	withAdv, err := newRunner(t).Run(context.Background(), adv)
	require.NoError(t, err)

	dis := base
	dis.Disadvantage = true
	withDis, err := newRunner(t).Run(context.Background(), dis)
	require.NoError(t, err)

	assert.InDelta(t, 10.5, normal.Mean, 0.2)
	assert.InDelta(t, 13.82, withAdv.Mean, 0.2)
	assert.InDelta(t, 7.18, withDis.Mean, 0.2)
}

func TestRun_WorkersCappedBySamples(t *testing.T) {
	report, err := newRunner(t).Run(context.Background(), stats.Options{Formula: "1d6", Samples: 2, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Workers)
}

func TestRun_InvalidOptions(t *testing.T) {
	_, err := newRunner(t).Run(context.Background(), stats.Options{Formula: "1d6", Samples: 0, Workers: 1})
	assert.ErrorIs(t, err, stats.ErrInvalidOptions)

	_, err = newRunner(t).Run(context.Background(), stats.Options{Formula: "1d6", Samples: 10, Workers: 0})
	assert.ErrorIs(t, err, stats.ErrInvalidOptions)
}

func TestRun_FormulaErrorsPropagate(t *testing.T) {
	_, err := newRunner(t).Run(context.Background(), stats.Options{Formula: "1d6+", Samples: 10, Workers: 1})
	assert.ErrorIs(t, err, dice.ErrInvalidInput)

	_, err = newRunner(t).Run(context.Background(), stats.Options{Formula: "20d6", Samples: 10, Workers: 1, MaxDice: 5})
	assert.ErrorIs(t, err, dice.ErrTooManyDice)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t).Run(ctx, stats.Options{Formula: "1d6", Samples: 10000, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_WideRangeListsObservedValuesOnly(t *testing.T) {
	report, err := newRunner(t).Run(context.Background(), stats.Options{
		Formula: "1d1000000",
		Samples: 50,
		Workers: 2,
		Seed:    3,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(report.Buckets), 50)
	for _, b := range report.Buckets {
		assert.Positive(t, b.Count)
	}
}

func TestRun_LogsCompletion(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := stats.NewRunner(zap.New(core))

	report, err := r.Run(context.Background(), stats.Options{Formula: "1d4", Samples: 40, Workers: 2})
	require.NoError(t, err)

	entries := logs.FilterMessage("statistics complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, report.ID, fields["stats_id"])
	assert.Equal(t, "1d4", fields["formula"])
	assert.Equal(t, int64(40), fields["samples"])
}

// TestProperty_BucketsCoverSamples verifies that bucket counts sum to the
// sample count and every bucket lies within [Min, Max].
func TestProperty_BucketsCoverSamples(t *testing.T) {
	formulas := []string{"1d6", "2d6+1", "3d4-2", "1d20*2", "(1d8+1d4)*3"}
	rapid.Check(t, func(rt *rapid.T) {
		formula := rapid.SampledFrom(formulas).Draw(rt, "formula")
		samples := rapid.IntRange(1, 500).Draw(rt, "samples")
		workers := rapid.IntRange(1, 8).Draw(rt, "workers")
		seed := rapid.Uint64().Draw(rt, "seed")

		report, err := stats.NewRunner(zap.NewNop()).Run(context.Background(), stats.Options{
			Formula: formula,
			Samples: samples,
			Workers: workers,
			Seed:    seed,
		})
		require.NoError(rt, err)

		total := 0
		var pct float64
		for _, b := range report.Buckets {
			total += b.Count
			pct += b.Percent
			assert.GreaterOrEqual(rt, b.Value, report.Min)
			assert.LessOrEqual(rt, b.Value, report.Max)
		}
		assert.Equal(rt, samples, total)
		assert.InDelta(rt, 100.0, pct, 1e-6)
		assert.GreaterOrEqual(rt, report.Mean, float64(report.Min))
		assert.LessOrEqual(rt, report.Mean, float64(report.Max))
	})
}
