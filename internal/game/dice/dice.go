// Package dice rolls the variance expressions attached to damage steps
// ("1d6", "2d4+1", "3") and supplies the random source used for critical-hit
// checks.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Source is the randomness provider for rolls and probability checks.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Result is the audit trail of one evaluated Expression.
//
// Postcondition: Total() == sum(Rolls) + Bonus.
type Result struct {
	Expression string
	Rolls      []int
	Bonus      int
}

// Total returns the sum of all rolls plus the bonus.
func (r Result) Total() int {
	total := r.Bonus
	for _, v := range r.Rolls {
		total += v
	}
	return total
}

// String formats the result as "2d4+1 [3 2] = 6".
func (r Result) String() string {
	parts := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s [%s] = %d", r.Expression, strings.Join(parts, " "), r.Total())
}
