package dice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/rng"
)

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{
		Formula: "2d6+3",
		Rolls:   []dice.DieRoll{{Faces: 6, Result: 4}, {Faces: 6, Result: 5}},
		Total:   12,
	}
	assert.Equal(t, "2d6+3 → [4 5] = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyFormula(t *testing.T) {
	r := dice.RollResult{Total: 4}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRoller_Roll_RecordsTrace(t *testing.T) {
	roller := dice.NewLoggedRoller(&scriptedSource{values: []uint32{3, 4}}, zaptest.NewLogger(t), 0)
	res, err := roller.Roll("2d6+1", false, false)
	require.NoError(t, err)

	assert.Equal(t, int32(8), res.Total)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, dice.PolicyRandom, res.Policy)
	assert.Equal(t, []uint32{3, 4}, res.Values())
	assert.Equal(t, "( d6 + d6 ) + 1", res.Expanded.String())
	assert.Equal(t, "( 3 + 4 ) + 1", res.Resolved.String())
}

func TestRoller_Roll_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(rng.New(1), zap.New(core), 0)

	res, err := roller.Roll("1d20", true, false)
	require.NoError(t, err)

	rollLogs := logs.FilterMessage("dice roll").All()
	require.Len(t, rollLogs, 1)
	fields := rollLogs[0].ContextMap()
	assert.Equal(t, "1d20", fields["formula"])
	assert.Equal(t, res.ID, fields["roll_id"])
	assert.Equal(t, int32(res.Total), fields["total"])
	assert.Equal(t, true, fields["advantage"])

	dieLogs := logs.FilterMessage("die rolled").All()
	require.Len(t, dieLogs, 1)
	assert.Equal(t, "advantage", dieLogs[0].ContextMap()["mode"])
}

func TestRoller_NoDieLogsAboveDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	roller := dice.NewLoggedRoller(rng.New(1), zap.New(core), 0)
	_, err := roller.Roll("3d6", false, false)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestRoller_Roll_FailureLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(rng.New(1), zap.New(core), 0)
	_, err := roller.Roll("1d", false, false)
	require.ErrorIs(t, err, dice.ErrInvalidInput)
	assert.Equal(t, 1, logs.FilterMessage("dice evaluation failed").Len())
}

func TestRoller_MaxDiceLimit(t *testing.T) {
	roller := dice.NewLoggedRoller(rng.New(1), zap.NewNop(), 5)
	assert.Equal(t, 5, roller.MaxDice())
	_, err := roller.Roll("6d6", false, false)
	assert.ErrorIs(t, err, dice.ErrTooManyDice)
}

func TestRoller_Bounds_OrdersAscending(t *testing.T) {
	roller := dice.NewLoggedRoller(rng.New(1), zap.NewNop(), 0)

	lo, hi, err := roller.Bounds("2d6+3")
	require.NoError(t, err)
	assert.Equal(t, int32(5), lo)
	assert.Equal(t, int32(15), hi)

	lo, hi, err = roller.Bounds("10-1d6")
	require.NoError(t, err)
	assert.Equal(t, int32(4), lo)
	assert.Equal(t, int32(9), hi)
}

func TestRoller_Evaluate_ForwardsObserver(t *testing.T) {
	roller := dice.NewLoggedRoller(rng.New(3), zap.NewNop(), 0)
	rec := &dice.Recorder{}
	res, err := roller.Evaluate("4d4", dice.Request{Policy: dice.PolicyMin, Observer: rec})
	require.NoError(t, err)
	assert.Equal(t, int32(4), res.Total)
	assert.Len(t, rec.Rolls, 4)
	assert.Equal(t, res.Rolls, rec.Rolls)
}

func TestRoller_Evaluate_NilObserverSkipped(t *testing.T) {
	roller := dice.NewLoggedRoller(rng.New(3), zaptest.NewLogger(t), 0)
	res, err := roller.Evaluate("2d6", dice.Request{Policy: dice.PolicyMax})
	require.NoError(t, err)
	assert.Equal(t, int32(12), res.Total)
	assert.Len(t, res.Rolls, 2)
}

func TestObservers_SkipsNilEntries(t *testing.T) {
	rec := &dice.Recorder{}
	_, err := dice.Evaluate("1d4+1", dice.Request{
		Policy:   dice.PolicyMax,
		Observer: dice.Observers{nil, rec, nil},
	})
	require.NoError(t, err)
	assert.Len(t, rec.Rolls, 1)
	assert.Equal(t, "( 4 ) + 1", rec.After.String())
}

// TestRoller_Property_StringContainsFormulaAndTotal checks the audit string
// for arbitrary seeded rolls.
func TestRoller_Property_StringContainsFormulaAndTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		faces := rapid.IntRange(2, 20).Draw(rt, "faces")
		formula := itoa(count) + "d" + itoa(faces)
		roller := dice.NewLoggedRoller(rng.New(rapid.Uint64().Draw(rt, "seed")), zap.NewNop(), 0)

		res, err := roller.Roll(formula, false, false)
		require.NoError(rt, err)
		s := res.String()
		assert.True(rt, strings.HasPrefix(s, formula))
		assert.True(rt, strings.HasSuffix(s, "= "+itoa(int(res.Total))))
		assert.Len(rt, res.Rolls, count)
	})
}
