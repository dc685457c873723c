package ynab

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-matcher/internal/models"
	"transaction-matcher/pkg/errors"
)

func TestAdapter_LoadTransactions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"transactions":[
			{"id":"t-1","date":"2024-01-15","amount":-50000,"payee_name":"Rimi","memo":"weekly shop","category_name":"Groceries","account_id":"a-1"},
			{"id":"t-2","date":"2024-01-16","amount":1500000,"payee_name":null,"memo":"salary transfer","category_name":null,"account_id":"a-1"},
			{"id":"t-3","date":"01/17/2024","amount":-1000,"payee_name":"Bad date","memo":null,"category_name":null,"account_id":"a-1"}
		]}}`))
	})
	adapter := NewAdapter(client, Selection{BudgetID: "b-1"})

	transactions, err := adapter.LoadTransactions(context.Background())
	require.NoError(t, err)

	// The unparseable-date record is skipped, not fatal.
	require.Len(t, transactions, 2)

	outflow := transactions[0]
	assert.Equal(t, "-50", outflow.Amount.String())
	assert.Equal(t, "Rimi", outflow.Description, "payee name wins over memo")
	assert.Equal(t, "outflow", outflow.Type)
	assert.Equal(t, "Groceries", outflow.Category)
	assert.Equal(t, "a-1", outflow.AccountID)
	assert.Equal(t, BankName, outflow.BankName)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), outflow.Date)
	require.NotNil(t, outflow.Raw)
	assert.Equal(t, "t-1", outflow.Raw["id"])

	inflow := transactions[1]
	assert.Equal(t, "1500", inflow.Amount.String())
	assert.Equal(t, "salary transfer", inflow.Description, "memo is the fallback when payee is null")
	assert.Equal(t, "inflow", inflow.Type)
}

func TestAdapter_LoadTransactions_RequiresBudget(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the budget is missing")
	})
	adapter := NewAdapter(client, Selection{})

	_, err := adapter.LoadTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMissingField))
}

func TestAdapter_GetAccounts_RequiresBudget(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the budget is missing")
	})
	adapter := NewAdapter(client, Selection{})

	_, err := adapter.GetAccounts(context.Background())
	require.Error(t, err)
}

func TestAdapter_LoadTransactions_TransportErrorFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	adapter := NewAdapter(client, Selection{BudgetID: "b-1"})

	_, err := adapter.LoadTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeHTTPStatus))
}

func TestAdapter_SourceType(t *testing.T) {
	adapter := NewAdapter(nil, Selection{})
	assert.Equal(t, models.SourceTypeYNAB, adapter.SourceType())
}
