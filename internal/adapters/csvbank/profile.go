// Package csvbank loads bank CSV exports into canonical transactions.
//
// Each supported bank supplies a Profile: a column-name mapping, an amount
// normalizer, and a date parser. A single generic loader consumes the
// profile, so adding a bank means writing a profile and registering its
// BankID — no inheritance, no shared mutable state.
package csvbank

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names used as ColumnMapping keys. Banks may map additional
// bank-specific fields (for example "counterparty_name"); those simply pass
// through into the transaction's raw data under their canonical name.
const (
	FieldDate            = "date"
	FieldDescription     = "description"
	FieldAmount          = "amount"
	FieldCategory        = "category"
	FieldTransactionType = "transaction_type"
	FieldAccountID       = "account_id"
)

// Profile is the per-bank contract consumed by the generic loader.
//
// NormalizeAmount receives the raw amount cell and the full row (keyed by
// canonical field names after mapping) so sign rules can consult sibling
// columns such as a debit/credit flag. It must return an amount in the
// canonical convention: outflow-negative, inflow-positive, regardless of the
// sign stored in the export.
type Profile interface {
	BankName() string
	ColumnMapping() map[string]string
	NormalizeAmount(raw string, row map[string]string) (decimal.Decimal, error)
	ParseDate(raw string) (time.Time, error)
}
