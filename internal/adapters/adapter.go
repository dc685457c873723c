// Package adapters defines the capability contract every transaction source
// implements. Concrete adapters live in subpackages: csvbank for bank CSV
// exports, ynab for the remote budgeting service.
package adapters

import (
	"context"

	"transaction-matcher/internal/models"
)

// SourceAdapter converts one raw data source into canonical transactions.
//
// LoadTransactions returns transactions in source-native order (file row
// order for CSV, remote response order for the API); the order is not
// guaranteed sorted by date. Row-level malformed data must not fail the
// call: bad rows are logged and skipped. Structural failures (unreadable
// file, transport error) abort the whole load with an error and nothing
// partial is returned.
//
// SourceType returns the stable source tag (models.SourceTypeCSV or
// models.SourceTypeYNAB).
type SourceAdapter interface {
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
	SourceType() string
}
