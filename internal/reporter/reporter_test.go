package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-matcher/internal/matcher"
	"transaction-matcher/internal/models"
	"transaction-matcher/internal/reconcile"
)

func sampleReport(t *testing.T) *reconcile.Report {
	t.Helper()

	mk := func(date, amount, description string) models.Transaction {
		d, err := time.Parse("2006-01-02", date)
		require.NoError(t, err)
		tx, err := models.NewTransaction(d, description, decimal.RequireFromString(amount), "LHV")
		require.NoError(t, err)
		return tx
	}

	result := &matcher.Result{
		Matches: []matcher.Pair{
			{Left: mk("2024-01-15", "-50.00", "Grocery store"), Right: mk("2024-01-15", "-50.00", "Rimi")},
		},
		UnmatchedLeft:  []models.Transaction{mk("2024-01-20", "-99.00", "Lonely left")},
		UnmatchedRight: []models.Transaction{},
	}

	return &reconcile.Report{
		LeftSource:  models.SourceTypeYNAB,
		RightSource: models.SourceTypeCSV,
		Result:      result,
		Summary:     result.Summary(),
		Elapsed:     12 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"console", FormatConsole, false},
		{"JSON", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Console(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatConsole))

	out := buf.String()
	assert.Contains(t, out, "YNAB vs CSV")
	assert.Contains(t, out, "Matched pairs:")
	assert.Contains(t, out, "Lonely left")
	assert.Contains(t, out, "(none)", "empty unmatched section is still printed")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatJSON))

	var out struct {
		LeftSource     string `json:"left_source"`
		Matched        int    `json:"matched"`
		AmountMatched  string `json:"amount_matched"`
		UnmatchedLeft  []any  `json:"unmatched_left"`
		UnmatchedRight []any  `json:"unmatched_right"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, models.SourceTypeYNAB, out.LeftSource)
	assert.Equal(t, 1, out.Matched)
	assert.Equal(t, "50.00", out.AmountMatched)
	assert.Len(t, out.UnmatchedLeft, 1)
	assert.Empty(t, out.UnmatchedRight)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header + two matched rows + one unmatched left.
	require.Len(t, records, 4)
	assert.Equal(t, []string{"status", "side", "date", "description", "amount", "bank_name"}, records[0])
	assert.Equal(t, "matched", records[1][0])
	assert.Equal(t, "left", records[1][1])
	assert.Equal(t, "matched", records[2][0])
	assert.Equal(t, "right", records[2][1])
	assert.Equal(t, "unmatched", records[3][0])
	assert.Equal(t, "-99", records[3][4])
}
