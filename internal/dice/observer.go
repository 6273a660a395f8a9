package dice

// RollMode records how a die's value was produced.
type RollMode uint8

const (
	ModeNormal RollMode = iota
	ModeAdvantage
	ModeDisadvantage
	ModeMax
	ModeMin
)

// String returns the lowercase mode name.
func (m RollMode) String() string {
	switch m {
	case ModeAdvantage:
		return "advantage"
	case ModeDisadvantage:
		return "disadvantage"
	case ModeMax:
		return "max"
	case ModeMin:
		return "min"
	default:
		return "normal"
	}
}

// DieRoll describes the resolution of one die token.
//
// Invariant: Draws holds the raw Source draws (empty for ModeMax and ModeMin,
// two for advantage/disadvantage, one otherwise).
type DieRoll struct {
	Index  int // position of the die in the token sequence
	Faces  uint32
	Draws  []uint32
	Result uint32
	Mode   RollMode
}

// Random reports whether the value came from the Source.
func (r DieRoll) Random() bool {
	return r.Mode == ModeNormal || r.Mode == ModeAdvantage || r.Mode == ModeDisadvantage
}

// Critical reports a natural 20 on a randomly rolled d20.
func (r DieRoll) Critical() bool {
	return r.Random() && r.Faces == 20 && r.Result == 20
}

// Fumble reports a natural 1 on a randomly rolled d20.
func (r DieRoll) Fumble() bool {
	return r.Random() && r.Faces == 20 && r.Result == 1
}

// Observer receives a trace of an evaluation. Sequences passed to it are
// copies and may be retained.
type Observer interface {
	// Tokenized is called once with the expanded formula, before dice are resolved.
	Tokenized(seq Sequence)
	// DieRolled is called for every die, in formula order.
	DieRolled(roll DieRoll)
	// Resolved is called once with the dice-free sequence, before arithmetic.
	Resolved(seq Sequence)
}

// Observers fans every notification out to each non-nil Observer in order.
// Only nil interface values are skipped; a typed nil pointer is still called.
type Observers []Observer

func (o Observers) Tokenized(seq Sequence) {
	for _, obs := range o {
		if obs != nil {
			obs.Tokenized(seq)
		}
	}
}

func (o Observers) DieRolled(roll DieRoll) {
	for _, obs := range o {
		if obs != nil {
			obs.DieRolled(roll)
		}
	}
}

func (o Observers) Resolved(seq Sequence) {
	for _, obs := range o {
		if obs != nil {
			obs.Resolved(seq)
		}
	}
}

// Recorder is an Observer that keeps everything it is told.
type Recorder struct {
	Before Sequence // expanded formula with dice tokens
	After  Sequence // dice replaced by numbers
	Rolls  []DieRoll
}

func (r *Recorder) Tokenized(seq Sequence) { r.Before = seq }

func (r *Recorder) DieRolled(roll DieRoll) { r.Rolls = append(r.Rolls, roll) }

func (r *Recorder) Resolved(seq Sequence) { r.After = seq }
