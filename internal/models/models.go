// Package models defines the canonical transaction model that every source
// adapter produces, plus the transient budget and account snapshots exposed
// by the remote budgeting service.
//
// The canonical sign convention is outflow-negative, inflow-positive. Every
// adapter is responsible for normalizing its source's convention (debit/credit
// flags, pre-signed milliunit integers) before a Transaction is constructed.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"transaction-matcher/pkg/errors"
)

// SourceTypeCSV and SourceTypeYNAB are the stable source tags returned by
// adapters.
const (
	SourceTypeCSV  = "CSV"
	SourceTypeYNAB = "YNAB"
)

// Transaction is the normalized, source-agnostic transaction record.
//
// Date carries day precision: adapters normalize it to midnight UTC and
// time-of-day is never significant for matching. Raw retains the original
// untransformed record (CSV row or JSON object) for debugging and audit; it
// is opaque to the matching engine. A Transaction is immutable once
// constructed and carries no identity beyond its field values.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        string
	AccountID   string
	BankName    string
	Raw         map[string]any
}

// NewTransaction constructs a Transaction, enforcing the model invariants:
// the date must be set and the amount must have been parsed by the caller.
// Amount parsing failures are caught before this point; a zero date here
// means the adapter produced an unparseable or missing date.
func NewTransaction(date time.Time, description string, amount decimal.Decimal, bankName string) (Transaction, error) {
	if date.IsZero() {
		return Transaction{}, errors.ValidationError(errors.CodeInvalidDate, "date", date, nil)
	}
	if bankName == "" {
		return Transaction{}, errors.ValidationError(errors.CodeMissingField, "bank_name", bankName, nil)
	}

	return Transaction{
		Date:        NormalizeDate(date),
		Description: description,
		Amount:      amount,
		BankName:    bankName,
	}, nil
}

// IsOutflow reports whether the transaction moves money out of the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// IsInflow reports whether the transaction moves money into the account.
func (t Transaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// String returns a compact representation for logs and reports.
func (t Transaction) String() string {
	return fmt.Sprintf("Transaction{Date: %s, Amount: %s, Bank: %s, Description: %q}",
		t.Date.Format("2006-01-02"), t.Amount.String(), t.BankName, t.Description)
}

// Budget is a read-only snapshot of a remote budget. It exists only for the
// duration of a selection workflow and is never cached.
type Budget struct {
	ID           string
	Name         string
	LastModified time.Time
}

// Account is a read-only snapshot of a remote account within a budget.
// Balance is normalized from milliunits to a decimal amount.
type Account struct {
	ID      string
	Name    string
	Type    string
	Balance decimal.Decimal
	Closed  bool
}

// FromMilliunits converts the remote service's fixed-point representation
// (integer amount x 1000) to a decimal amount: 12345 -> 12.345.
func FromMilliunits(milliunits int64) decimal.Decimal {
	return decimal.NewFromInt(milliunits).Div(decimal.NewFromInt(1000))
}

// NormalizeDate truncates a timestamp to midnight UTC, the day-precision
// form used for matching.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute whole-day distance between two
// day-precision dates.
func DaysBetween(a, b time.Time) int {
	diff := NormalizeDate(a).Sub(NormalizeDate(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// ParseAmount parses a decimal amount from a CSV cell. It tolerates a
// decimal comma (European exports) and thousands separators, but requires a
// non-empty value.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.ValidationError(errors.CodeMissingField, "amount", s, nil)
	}

	// A value like "1.234,56" uses '.' for thousands and ',' for decimals;
	// "1,234.56" is the reverse. Strip the separator that appears first.
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		if strings.Index(s, ",") < strings.Index(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.ValidationError(errors.CodeInvalidAmount, "amount", s, err)
	}
	return d, nil
}
