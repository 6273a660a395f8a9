package dice

// Request configures one evaluation.
//
// Observer is optional. When set it must hold a non-nil value: a typed nil
// such as (*Recorder)(nil) is a non-nil interface and is called like any
// other Observer.
type Request struct {
	Policy       Policy
	Source       Source // required for PolicyRandom
	Advantage    bool
	Disadvantage bool
	Observer     Observer // optional trace receiver
	MaxDice      int      // <= 0 selects DefaultMaxDice
}

// Evaluate tokenizes formula, resolves its dice according to req and returns
// the value. The first error aborts the remaining stages.
//
// Precondition: req.Source must be non-nil when req.Policy is PolicyRandom.
// Postcondition: Returns the value or an error wrapping one of the package's
// failure kinds.
func Evaluate(formula string, req Request) (int32, error) {
	seq, err := Tokenize(formula, req.MaxDice)
	if err != nil {
		return 0, err
	}
	if req.Observer != nil {
		req.Observer.Tokenized(seq.Clone())
	}
	if err := Resolve(seq, req); err != nil {
		return 0, err
	}
	if req.Observer != nil {
		req.Observer.Resolved(seq.Clone())
	}
	return Calculate(seq)
}

// EvaluateRandom rolls formula with src, applying advantage or disadvantage to
// the first d20.
func EvaluateRandom(formula string, src Source, advantage, disadvantage bool) (int32, error) {
	return Evaluate(formula, Request{
		Policy:       PolicyRandom,
		Source:       src,
		Advantage:    advantage,
		Disadvantage: disadvantage,
	})
}

// EvaluateMax evaluates formula with every die at its face count.
func EvaluateMax(formula string) (int32, error) {
	return Evaluate(formula, Request{Policy: PolicyMax})
}

// EvaluateMin evaluates formula with every die showing 1.
func EvaluateMin(formula string) (int32, error) {
	return Evaluate(formula, Request{Policy: PolicyMin})
}

// Validate reports whether formula evaluates under PolicyMin without error.
func Validate(formula string, maxDice int) error {
	_, err := Evaluate(formula, Request{Policy: PolicyMin, MaxDice: maxDice})
	return err
}
