// Package ynab wraps the remote budgeting service's read-only API and
// exposes budget/account discovery plus transaction loading in the
// canonical model.
//
// The service stores amounts as milliunits (integer amount x 1000); every
// value is normalized to a decimal before leaving this package. Transport
// failures and non-2xx responses are fatal and propagate to the caller —
// unlike row-level CSV errors, nothing here is silently skipped. Retries,
// rate-limit backoff and timeouts beyond the client default belong to the
// transport collaborator, not this package.
package ynab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"transaction-matcher/internal/config"
	"transaction-matcher/internal/models"
	"transaction-matcher/pkg/errors"
	"transaction-matcher/pkg/logger"
)

const (
	budgetTimestampFormat = time.RFC3339
	transactionDateFormat = "2006-01-02"

	defaultTimeout = 30 * time.Second
)

// Client is a thin bearer-authenticated HTTP client for the budgeting API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient builds a client from resolved configuration.
func NewClient(cfg *config.YNAB) *Client {
	return &Client{
		baseURL: cfg.APIURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger.Global().WithComponent("ynab_client"),
	}
}

// TransactionRecord is one raw transaction as returned by the service.
// Amount is in milliunits and already signed outflow-negative. Raw retains
// the decoded JSON object for the canonical transaction's audit trail.
type TransactionRecord struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       int64   `json:"amount"`
	PayeeName    *string `json:"payee_name"`
	Memo         *string `json:"memo"`
	CategoryName *string `json:"category_name"`
	AccountID    string  `json:"account_id"`

	Raw map[string]any `json:"-"`
}

type budgetJSON struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastModifiedOn string `json:"last_modified_on"`
}

type accountJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
	Closed  bool   `json:"closed"`
}

// GetBudgets fetches all budgets visible to the configured credential.
func (c *Client) GetBudgets(ctx context.Context) ([]models.Budget, error) {
	var payload struct {
		Data struct {
			Budgets []budgetJSON `json:"budgets"`
		} `json:"data"`
	}

	if err := c.get(ctx, "/budgets", nil, &payload); err != nil {
		return nil, err
	}

	budgets := make([]models.Budget, 0, len(payload.Data.Budgets))
	for _, b := range payload.Data.Budgets {
		lastModified, err := time.Parse(budgetTimestampFormat, b.LastModifiedOn)
		if err != nil {
			return nil, errors.ValidationError(errors.CodeInvalidDate, "last_modified_on", b.LastModifiedOn, err)
		}
		budgets = append(budgets, models.Budget{
			ID:           b.ID,
			Name:         b.Name,
			LastModified: lastModified,
		})
	}

	return budgets, nil
}

// GetAccounts fetches all accounts in a budget. Balances are normalized
// from milliunits; the closed flag passes through.
func (c *Client) GetAccounts(ctx context.Context, budgetID string) ([]models.Account, error) {
	var payload struct {
		Data struct {
			Accounts []accountJSON `json:"accounts"`
		} `json:"data"`
	}

	path := fmt.Sprintf("/budgets/%s/accounts", url.PathEscape(budgetID))
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(payload.Data.Accounts))
	for _, a := range payload.Data.Accounts {
		accounts = append(accounts, models.Account{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Balance: models.FromMilliunits(a.Balance),
			Closed:  a.Closed,
		})
	}

	return accounts, nil
}

// GetTransactions fetches raw transactions for a budget, optionally scoped
// to one account and/or filtered to transactions on or after sinceDate. The
// date filter is applied server-side via the since_date query parameter.
func (c *Client) GetTransactions(ctx context.Context, budgetID, accountID string, sinceDate time.Time) ([]TransactionRecord, error) {
	var payload struct {
		Data struct {
			Transactions []json.RawMessage `json:"transactions"`
		} `json:"data"`
	}

	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(budgetID))
	if accountID != "" {
		path = fmt.Sprintf("/budgets/%s/accounts/%s/transactions",
			url.PathEscape(budgetID), url.PathEscape(accountID))
	}

	var query url.Values
	if !sinceDate.IsZero() {
		query = url.Values{"since_date": {sinceDate.Format(transactionDateFormat)}}
	}

	if err := c.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	records := make([]TransactionRecord, 0, len(payload.Data.Transactions))
	for _, raw := range payload.Data.Transactions {
		var rec TransactionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.NetworkError(errors.CodeRequestFailed, path, err).
				WithSuggestion("the service returned an unexpected transaction payload")
		}
		if err := json.Unmarshal(raw, &rec.Raw); err != nil {
			return nil, errors.NetworkError(errors.CodeRequestFailed, path, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	c.logger.WithField("endpoint", endpoint).Debug("Requesting remote service")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NetworkError(errors.CodeRequestFailed, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError(errors.CodeRequestFailed, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NetworkError(errors.CodeHTTPStatus, endpoint, nil).
			WithContext("status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NetworkError(errors.CodeRequestFailed, endpoint, err).
			WithSuggestion("the service returned a malformed response body")
	}

	return nil
}
