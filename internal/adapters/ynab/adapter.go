package ynab

import (
	"context"
	"time"

	"transaction-matcher/internal/models"
	"transaction-matcher/pkg/errors"
	"transaction-matcher/pkg/logger"
)

// BankName is the literal origin tag attached to every transaction produced
// by this adapter.
const BankName = "YNAB"

// Selection identifies what to load from the remote service. It is an
// immutable record established by the caller's budget/account selection
// workflow; the adapter never mutates it. AccountID and SinceDate are
// optional.
type Selection struct {
	BudgetID  string
	AccountID string
	SinceDate time.Time
}

// Adapter exposes budget/account discovery and canonical transaction
// loading for one selection.
type Adapter struct {
	client    *Client
	selection Selection
	logger    logger.Logger
}

// NewAdapter builds an adapter over an authenticated client. The budget is
// required for transaction loading; discovery callers that only need
// GetBudgets may pass an empty selection.
func NewAdapter(client *Client, selection Selection) *Adapter {
	return &Adapter{
		client:    client,
		selection: selection,
		logger:    logger.Global().WithComponent("ynab_adapter"),
	}
}

// SourceType returns the stable remote-service source tag.
func (a *Adapter) SourceType() string {
	return models.SourceTypeYNAB
}

// GetBudgets lists the budgets visible to the configured credential.
func (a *Adapter) GetBudgets(ctx context.Context) ([]models.Budget, error) {
	return a.client.GetBudgets(ctx)
}

// GetAccounts lists the accounts of the selected budget.
func (a *Adapter) GetAccounts(ctx context.Context) ([]models.Account, error) {
	if a.selection.BudgetID == "" {
		return nil, errors.ValidationError(errors.CodeMissingField, "budget_id", "", nil)
	}
	return a.client.GetAccounts(ctx, a.selection.BudgetID)
}

// LoadTransactions fetches the selection's transactions and maps them to
// canonical form: amounts are milliunits/1000 (the service already signs
// outflows negative, so no resigning is needed), the description is the
// payee name falling back to the memo, and the type label reflects the
// amount sign. Transport failures abort the load; a malformed record in an
// otherwise valid response is logged and skipped.
func (a *Adapter) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	if a.selection.BudgetID == "" {
		return nil, errors.ValidationError(errors.CodeMissingField, "budget_id", "", nil)
	}

	records, err := a.client.GetTransactions(ctx, a.selection.BudgetID, a.selection.AccountID, a.selection.SinceDate)
	if err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(records))
	for _, rec := range records {
		tx, err := a.mapRecord(rec)
		if err != nil {
			a.logger.WithError(err).WithField("transaction_id", rec.ID).Warn("Skipping malformed remote transaction")
			continue
		}
		transactions = append(transactions, tx)
	}

	a.logger.WithFields(logger.Fields{
		"budget_id":  a.selection.BudgetID,
		"account_id": a.selection.AccountID,
		"loaded":     len(transactions),
	}).Info("Remote transactions loaded")

	return transactions, nil
}

func (a *Adapter) mapRecord(rec TransactionRecord) (models.Transaction, error) {
	date, err := time.Parse(transactionDateFormat, rec.Date)
	if err != nil {
		return models.Transaction{}, errors.ValidationError(errors.CodeInvalidDate, "date", rec.Date, err)
	}

	description := ""
	if rec.PayeeName != nil && *rec.PayeeName != "" {
		description = *rec.PayeeName
	} else if rec.Memo != nil {
		description = *rec.Memo
	}

	amount := models.FromMilliunits(rec.Amount)

	tx, err := models.NewTransaction(date, description, amount, BankName)
	if err != nil {
		return models.Transaction{}, err
	}

	if rec.CategoryName != nil {
		tx.Category = *rec.CategoryName
	}
	if amount.IsNegative() {
		tx.Type = "outflow"
	} else {
		tx.Type = "inflow"
	}
	tx.AccountID = rec.AccountID
	tx.Raw = rec.Raw

	return tx, nil
}
