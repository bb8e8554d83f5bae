package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression is a parsed roll: Count dice of Sides faces plus Bonus.
// A constant expression has Count == 0.
type Expression struct {
	Raw   string
	Count int
	Sides int
	Bonus int
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int { return e.Count + e.Bonus }

// Max returns the largest total the expression can produce.
func (e Expression) Max() int { return e.Count*e.Sides + e.Bonus }

var (
	dicePattern  = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)
	constPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// maxDice bounds Count so content cannot request an unbounded number of rolls.
const maxDice = 100

// Parse parses "NdS", "NdS+M", "NdS-M", "dS", or a bare integer constant.
// Whitespace is ignored and the "d" is case-insensitive.
//
// Postcondition: on success, Count is 0 (constant) or in [1, 100] and Sides >= 2.
func Parse(s string) (Expression, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if norm == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	if constPattern.MatchString(norm) {
		n, err := strconv.Atoi(norm)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: constant %q: %w", s, err)
		}
		return Expression{Raw: s, Bonus: n}, nil
	}
	m := dicePattern.FindStringSubmatch(norm)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", s)
	}
	expr := Expression{Raw: s, Count: 1}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > maxDice {
			return Expression{}, fmt.Errorf("dice: die count in %q must be in [1, %d]", s, maxDice)
		}
		expr.Count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be >= 2", s)
	}
	expr.Sides = sides
	if m[3] != "" {
		bonus, err := strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: bonus in %q: %w", s, err)
		}
		expr.Bonus = bonus
	}
	return expr, nil
}

// MustParse is Parse for built-in tables; it panics on error.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}
