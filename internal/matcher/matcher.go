// Package matcher pairs transactions from two normalized collections by
// approximate date/amount matching.
//
// The pairing policy is greedy first-fit: left transactions are visited in
// input order, and each one takes the first not-yet-consumed right
// transaction within both tolerances. This is deterministic for a fixed
// input order but not globally optimal — an early pairing can block a
// better later one. That trade-off is deliberate for per-session volumes of
// tens to low thousands of transactions and must be preserved for
// compatibility; see Tolerances for the accepted deviation bounds.
//
// Match keeps all scan state on the stack, so concurrent callers never
// share consumed-index state.
package matcher

import (
	"github.com/shopspring/decimal"

	"transaction-matcher/internal/models"
	"transaction-matcher/pkg/errors"
)

// Tolerances bounds how far apart two transactions may be and still be
// considered the same event. Both bounds are inclusive. Negative values are
// a caller contract violation and are rejected eagerly by Validate rather
// than treated as never-match.
type Tolerances struct {
	// DateDays is the maximum whole-day distance between dates.
	DateDays int
	// Amount is the maximum absolute difference between canonical amounts.
	Amount decimal.Decimal
}

// DefaultTolerances matches same-event skew typical of bank clearing: one
// day of date drift and a cent of rounding.
func DefaultTolerances() Tolerances {
	return Tolerances{
		DateDays: 1,
		Amount:   decimal.New(1, -2), // 0.01
	}
}

// Validate rejects negative tolerance values.
func (t Tolerances) Validate() error {
	if t.DateDays < 0 {
		return errors.ValidationError(errors.CodeInvalidConfig, "date_tolerance_days", t.DateDays, nil).
			WithSuggestion("date tolerance must be zero or a positive number of days")
	}
	if t.Amount.IsNegative() {
		return errors.ValidationError(errors.CodeInvalidConfig, "amount_tolerance", t.Amount.String(), nil).
			WithSuggestion("amount tolerance must be zero or positive")
	}
	return nil
}

// Pair is one matched (left, right) transaction pairing.
type Pair struct {
	Left  models.Transaction
	Right models.Transaction
}

// Result partitions the two inputs. For inputs L and R it always holds that
// len(Matches)+len(UnmatchedLeft) == len(L) and
// len(Matches)+len(UnmatchedRight) == len(R).
type Result struct {
	Matches        []Pair
	UnmatchedLeft  []models.Transaction
	UnmatchedRight []models.Transaction
}

// Summary aggregates a Result for reporting.
type Summary struct {
	LeftTotal      int
	RightTotal     int
	Matched        int
	UnmatchedLeft  int
	UnmatchedRight int
	AmountMatched  decimal.Decimal
}

// Summary computes aggregate counts and the total matched amount
// (absolute value of the left side of each pair).
func (r *Result) Summary() Summary {
	s := Summary{
		LeftTotal:      len(r.Matches) + len(r.UnmatchedLeft),
		RightTotal:     len(r.Matches) + len(r.UnmatchedRight),
		Matched:        len(r.Matches),
		UnmatchedLeft:  len(r.UnmatchedLeft),
		UnmatchedRight: len(r.UnmatchedRight),
		AmountMatched:  decimal.Zero,
	}
	for _, pair := range r.Matches {
		s.AmountMatched = s.AmountMatched.Add(pair.Left.Amount.Abs())
	}
	return s
}

// Match pairs left transactions with right transactions using greedy
// first-fit over the given tolerances and returns the three-way partition.
// Both inputs are scanned in their given order; neither is mutated. Amount
// comparison assumes both sides carry the canonical sign convention — sign
// normalization is the adapters' responsibility, not the matcher's.
func Match(left, right []models.Transaction, tol Tolerances) (*Result, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Matches:        make([]Pair, 0, min(len(left), len(right))),
		UnmatchedLeft:  []models.Transaction{},
		UnmatchedRight: []models.Transaction{},
	}

	consumed := make([]bool, len(right))

	for _, lt := range left {
		matched := false
		for i, rt := range right {
			if consumed[i] {
				continue
			}
			if !withinTolerance(lt, rt, tol) {
				continue
			}
			// First fit: take it and stop scanning for this left side.
			result.Matches = append(result.Matches, Pair{Left: lt, Right: rt})
			consumed[i] = true
			matched = true
			break
		}
		if !matched {
			result.UnmatchedLeft = append(result.UnmatchedLeft, lt)
		}
	}

	for i, rt := range right {
		if !consumed[i] {
			result.UnmatchedRight = append(result.UnmatchedRight, rt)
		}
	}

	return result, nil
}

func withinTolerance(a, b models.Transaction, tol Tolerances) bool {
	if a.Amount.Sub(b.Amount).Abs().GreaterThan(tol.Amount) {
		return false
	}
	return models.DaysBetween(a.Date, b.Date) <= tol.DateDays
}
