package ynab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-matcher/internal/config"
	"transaction-matcher/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.YNAB{APIKey: "test-key", APIURL: server.URL})
	return client, server
}

func TestClient_GetBudgets(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/budgets", r.URL.Path)
		w.Write([]byte(`{"data":{"budgets":[
			{"id":"b-1","name":"Household","last_modified_on":"2024-01-15T10:30:00+00:00"},
			{"id":"b-2","name":"Side Project","last_modified_on":"2023-12-01T08:00:00Z"}
		]}}`))
	})

	budgets, err := client.GetBudgets(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 2)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "b-1", budgets[0].ID)
	assert.Equal(t, "Household", budgets[0].Name)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), budgets[0].LastModified.UTC())
}

func TestClient_GetBudgets_BadTimestamp(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"budgets":[{"id":"b-1","name":"X","last_modified_on":"yesterday"}]}}`))
	})

	_, err := client.GetBudgets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidDate))
}

func TestClient_GetAccounts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/b-1/accounts", r.URL.Path)
		w.Write([]byte(`{"data":{"accounts":[
			{"id":"a-1","name":"Checking","type":"checking","balance":123450,"closed":false},
			{"id":"a-2","name":"Old","type":"savings","balance":0,"closed":true}
		]}}`))
	})

	accounts, err := client.GetAccounts(context.Background(), "b-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// Balance is milliunits / 1000.
	assert.Equal(t, "123.45", accounts[0].Balance.String())
	assert.False(t, accounts[0].Closed)
	assert.True(t, accounts[1].Closed)
}

func TestClient_GetTransactions_BudgetScope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/b-1/transactions", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("since_date"))
		w.Write([]byte(`{"data":{"transactions":[
			{"id":"t-1","date":"2024-01-15","amount":-50000,"payee_name":"Rimi","memo":null,"category_name":"Groceries","account_id":"a-1"}
		]}}`))
	})

	records, err := client.GetTransactions(context.Background(), "b-1", "", time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int64(-50000), records[0].Amount)
	require.NotNil(t, records[0].PayeeName)
	assert.Equal(t, "Rimi", *records[0].PayeeName)
	assert.Nil(t, records[0].Memo)

	// The raw JSON object is retained alongside the typed fields.
	require.NotNil(t, records[0].Raw)
	assert.Equal(t, "t-1", records[0].Raw["id"])
}

func TestClient_GetTransactions_AccountScopeAndSinceDate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/b-1/accounts/a-1/transactions", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("since_date"))
		w.Write([]byte(`{"data":{"transactions":[]}}`))
	})

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := client.GetTransactions(context.Background(), "b-1", "a-1", since)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetBudgets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeHTTPStatus))

	matcherErr, ok := errors.AsMatcherError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, matcherErr.Context["status"])
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(&config.YNAB{APIKey: "test-key", APIURL: server.URL})
	_, err := client.GetBudgets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRequestFailed))
}

func TestClient_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.GetBudgets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRequestFailed))
}
