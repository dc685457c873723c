// Package reporter renders reconciliation reports for the CLI in console,
// JSON, or CSV form.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"transaction-matcher/internal/models"
	"transaction-matcher/internal/reconcile"
	"transaction-matcher/pkg/errors"
)

// Format selects the output rendering.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
)

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", nil).
			WithContext("value", name).
			WithSuggestion("use console, json, or csv")
	}
}

// Write renders the report to w in the given format.
func Write(w io.Writer, report *reconcile.Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatCSV:
		return writeCSV(w, report)
	default:
		return writeConsole(w, report)
	}
}

func writeConsole(w io.Writer, report *reconcile.Report) error {
	s := report.Summary

	fmt.Fprintf(w, "Reconciliation: %s vs %s (%s)\n", report.LeftSource, report.RightSource, report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  %-22s %d\n", "Left transactions:", s.LeftTotal)
	fmt.Fprintf(w, "  %-22s %d\n", "Right transactions:", s.RightTotal)
	fmt.Fprintf(w, "  %-22s %d\n", "Matched pairs:", s.Matched)
	fmt.Fprintf(w, "  %-22s %s\n", "Matched amount:", s.AmountMatched.StringFixed(2))
	fmt.Fprintln(w)

	writeConsoleSection(w, fmt.Sprintf("Unmatched %s (%d)", report.LeftSource, s.UnmatchedLeft), report.Result.UnmatchedLeft)
	writeConsoleSection(w, fmt.Sprintf("Unmatched %s (%d)", report.RightSource, s.UnmatchedRight), report.Result.UnmatchedRight)

	return nil
}

func writeConsoleSection(w io.Writer, title string, txs []models.Transaction) {
	fmt.Fprintln(w, title)
	if len(txs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, tx := range txs {
		fmt.Fprintf(w, "  %s  %10s  %s\n",
			tx.Date.Format("2006-01-02"), tx.Amount.StringFixed(2), tx.Description)
	}
}

type jsonTransaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	BankName    string `json:"bank_name"`
}

type jsonPair struct {
	Left  jsonTransaction `json:"left"`
	Right jsonTransaction `json:"right"`
}

type jsonReport struct {
	LeftSource     string            `json:"left_source"`
	RightSource    string            `json:"right_source"`
	Matched        int               `json:"matched"`
	AmountMatched  string            `json:"amount_matched"`
	Matches        []jsonPair        `json:"matches"`
	UnmatchedLeft  []jsonTransaction `json:"unmatched_left"`
	UnmatchedRight []jsonTransaction `json:"unmatched_right"`
}

func writeJSON(w io.Writer, report *reconcile.Report) error {
	out := jsonReport{
		LeftSource:     report.LeftSource,
		RightSource:    report.RightSource,
		Matched:        report.Summary.Matched,
		AmountMatched:  report.Summary.AmountMatched.StringFixed(2),
		Matches:        make([]jsonPair, 0, len(report.Result.Matches)),
		UnmatchedLeft:  toJSONTransactions(report.Result.UnmatchedLeft),
		UnmatchedRight: toJSONTransactions(report.Result.UnmatchedRight),
	}
	for _, pair := range report.Result.Matches {
		out.Matches = append(out.Matches, jsonPair{
			Left:  toJSONTransaction(pair.Left),
			Right: toJSONTransaction(pair.Right),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONTransactions(txs []models.Transaction) []jsonTransaction {
	out := make([]jsonTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toJSONTransaction(tx))
	}
	return out
}

func toJSONTransaction(tx models.Transaction) jsonTransaction {
	return jsonTransaction{
		Date:        tx.Date.Format("2006-01-02"),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Type:        tx.Type,
		AccountID:   tx.AccountID,
		BankName:    tx.BankName,
	}
}

func writeCSV(w io.Writer, report *reconcile.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"status", "side", "date", "description", "amount", "bank_name"}
	if err := cw.Write(header); err != nil {
		return err
	}

	writeTx := func(status, side string, tx models.Transaction) error {
		return cw.Write([]string{
			status, side, tx.Date.Format("2006-01-02"), tx.Description,
			tx.Amount.String(), tx.BankName,
		})
	}

	for _, pair := range report.Result.Matches {
		if err := writeTx("matched", "left", pair.Left); err != nil {
			return err
		}
		if err := writeTx("matched", "right", pair.Right); err != nil {
			return err
		}
	}
	for _, tx := range report.Result.UnmatchedLeft {
		if err := writeTx("unmatched", "left", tx); err != nil {
			return err
		}
	}
	for _, tx := range report.Result.UnmatchedRight {
		if err := writeTx("unmatched", "right", tx); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
