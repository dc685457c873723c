package csvbank

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"transaction-matcher/internal/models"
)

// LHV exports come in two header languages. The Estonian set is checked
// first; an export matching neither falls back to English.
type lhvLocale string

const (
	lhvLocaleEnglish  lhvLocale = "en"
	lhvLocaleEstonian lhvLocale = "et"

	lhvDateFormat = "2006-01-02"
)

var lhvHeaderSets = map[lhvLocale]map[string]string{
	lhvLocaleEnglish: {
		FieldAccountID:        "Customer account no",
		FieldDate:             "Date",
		FieldDescription:      "Description",
		FieldAmount:           "Amount",
		FieldTransactionType:  "Debit/Credit (D/C)",
		"counterparty_name":    "Sender/receiver name",
		"counterparty_account": "Sender/receiver account",
		"reference":            "Reference number",
	},
	lhvLocaleEstonian: {
		FieldAccountID:        "Kliendi konto",
		FieldDate:             "Kuupäev",
		FieldDescription:      "Selgitus",
		FieldAmount:           "Summa",
		FieldTransactionType:  "Deebet/Kreedit (D/C)",
		"counterparty_name":    "Saaja/maksja nimi",
		"counterparty_account": "Saaja/maksja konto",
		"reference":            "Viitenumber",
	},
}

// LHVProfile implements the Profile contract for LHV bank exports.
type LHVProfile struct {
	locale lhvLocale
}

// NewLHVProfile builds an LHV profile for the given header row. Locale
// detection happens here, once, before any row parsing: the Estonian
// mapping is selected when any Estonian header string is present, otherwise
// the profile defaults to English.
func NewLHVProfile(headers []string) *LHVProfile {
	return &LHVProfile{locale: detectLHVLocale(headers)}
}

func detectLHVLocale(headers []string) lhvLocale {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	for _, header := range lhvHeaderSets[lhvLocaleEstonian] {
		if present[header] {
			return lhvLocaleEstonian
		}
	}
	return lhvLocaleEnglish
}

// BankName returns the literal origin tag for LHV transactions.
func (p *LHVProfile) BankName() string {
	return "LHV"
}

// Locale returns the detected header language.
func (p *LHVProfile) Locale() string {
	return string(p.locale)
}

// ColumnMapping returns the canonical-field to header mapping for the
// detected locale.
func (p *LHVProfile) ColumnMapping() map[string]string {
	set := lhvHeaderSets[p.locale]
	mapping := make(map[string]string, len(set))
	for field, header := range set {
		mapping[field] = header
	}
	return mapping
}

// NormalizeAmount parses the amount cell (decimal comma allowed) and applies
// the LHV sign rule: the debit/credit flag is authoritative. A "D" row is
// forced to a negative magnitude and anything else to positive, regardless
// of the sign stored in the export.
func (p *LHVProfile) NormalizeAmount(raw string, row map[string]string) (decimal.Decimal, error) {
	amount, err := models.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}

	if strings.EqualFold(strings.TrimSpace(row[FieldTransactionType]), "D") {
		return amount.Abs().Neg(), nil
	}
	return amount.Abs(), nil
}

// ParseDate parses LHV's ISO date column.
func (p *LHVProfile) ParseDate(raw string) (time.Time, error) {
	return time.Parse(lhvDateFormat, strings.TrimSpace(raw))
}
