package dice

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged formula evaluation.
// Every evaluation is logged at debug level with its formula, policy, dice
// and total; individual dice are logged when debug is enabled.
//
// A Roller is as safe for concurrent use as its Source. rng.Generator is not.
type Roller struct {
	src     Source
	logger  *zap.Logger
	maxDice int
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src and logger must be non-nil; maxDice <= 0 selects DefaultMaxDice.
func NewLoggedRoller(src Source, logger *zap.Logger, maxDice int) *Roller {
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	return &Roller{src: src, logger: logger, maxDice: maxDice}
}

// MaxDice returns the dice limit applied to every evaluation.
func (r *Roller) MaxDice() int { return r.maxDice }

// Roll evaluates formula with random dice.
//
// Postcondition: Returns a RollResult or an error wrapping a package failure kind.
func (r *Roller) Roll(formula string, advantage, disadvantage bool) (RollResult, error) {
	return r.Evaluate(formula, Request{
		Policy:       PolicyRandom,
		Advantage:    advantage,
		Disadvantage: disadvantage,
	})
}

// Max evaluates formula with every die at its maximum.
func (r *Roller) Max(formula string) (RollResult, error) {
	return r.Evaluate(formula, Request{Policy: PolicyMax})
}

// Min evaluates formula with every die at 1.
func (r *Roller) Min(formula string) (RollResult, error) {
	return r.Evaluate(formula, Request{Policy: PolicyMin})
}

// Bounds returns the Min and Max evaluations of formula ordered ascending.
// Subtracting dice makes the Min evaluation the larger one, e.g. "10-1d6".
func (r *Roller) Bounds(formula string) (lo, hi int32, err error) {
	minRes, err := r.Min(formula)
	if err != nil {
		return 0, 0, err
	}
	maxRes, err := r.Max(formula)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = minRes.Total, maxRes.Total
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// Evaluate runs formula under req, filling in the Roller's Source and dice
// limit, and records the trace into the returned RollResult. req.Observer,
// when set, receives the trace as well.
//
// Precondition: req.Observer is nil or holds a non-nil value.
func (r *Roller) Evaluate(formula string, req Request) (RollResult, error) {
	if req.Source == nil {
		req.Source = r.src
	}
	if req.MaxDice <= 0 {
		req.MaxDice = r.maxDice
	}

	id := uuid.New().String()
	rec := &Recorder{}
	observers := Observers{rec, req.Observer}
	if r.logger.Core().Enabled(zap.DebugLevel) {
		observers = append(observers, &zapObserver{logger: r.logger.With(zap.String("roll_id", id))})
	}
	req.Observer = observers

	total, err := Evaluate(formula, req)
	if err != nil {
		r.logger.Debug("dice evaluation failed",
			zap.String("roll_id", id),
			zap.String("formula", formula),
			zap.Stringer("policy", req.Policy),
			zap.Error(err),
		)
		return RollResult{}, err
	}

	result := RollResult{
		ID:           id,
		Formula:      formula,
		Policy:       req.Policy,
		Advantage:    req.Advantage,
		Disadvantage: req.Disadvantage,
		Expanded:     rec.Before,
		Resolved:     rec.After,
		Rolls:        rec.Rolls,
		Total:        total,
	}
	r.logger.Debug("dice roll",
		zap.String("roll_id", id),
		zap.String("formula", formula),
		zap.Stringer("policy", req.Policy),
		zap.Bool("advantage", req.Advantage),
		zap.Bool("disadvantage", req.Disadvantage),
		zap.Uint32s("dice", result.Values()),
		zap.Int32("total", total),
	)
	return result, nil
}

// zapObserver logs each die at debug level.
type zapObserver struct {
	logger *zap.Logger
}

func (z *zapObserver) Tokenized(seq Sequence) {
	z.logger.Debug("formula expanded", zap.String("tokens", seq.String()))
}

func (z *zapObserver) DieRolled(roll DieRoll) {
	z.logger.Debug("die rolled",
		zap.Int("index", roll.Index),
		zap.Uint32("faces", roll.Faces),
		zap.Uint32s("draws", roll.Draws),
		zap.Uint32("result", roll.Result),
		zap.Stringer("mode", roll.Mode),
	)
}

func (z *zapObserver) Resolved(seq Sequence) {
	z.logger.Debug("dice resolved", zap.String("tokens", seq.String()))
}
