package dice

import "go.uber.org/zap"

// Roll evaluates expr with src.
//
// Precondition: expr came from Parse; src is non-nil.
// Postcondition: len(result.Rolls) == expr.Count and every roll is in [1, Sides].
func Roll(expr Expression, src Source) Result {
	rolls := make([]int, expr.Count)
	for i := range rolls {
		rolls[i] = src.Intn(expr.Sides) + 1
	}
	return Result{Expression: expr.Raw, Rolls: rolls, Bonus: expr.Bonus}
}

// Roller pairs a Source with a logger and records every roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller. A nil logger disables roll logging.
//
// Precondition: src must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source { return r.src }

// Roll evaluates expr and logs the outcome.
func (r *Roller) Roll(expr Expression) Result {
	res := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", res.Expression),
		zap.Ints("rolls", res.Rolls),
		zap.Int("bonus", res.Bonus),
		zap.Int("total", res.Total()),
	)
	return res
}

// Chance reports whether a check with probability p succeeds.
// p <= 0 never succeeds; p >= 1 always does.
func (r *Roller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.src.Float64() < p
}
