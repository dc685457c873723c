package csvbank

import (
	"strings"

	"transaction-matcher/pkg/errors"
)

// BankID is the closed enumeration of supported banks. Adding a bank means
// adding a constant here, a case to ParseBankID, and a case to NewAdapter —
// all compile-time-visible changes, with no fallback adapter.
type BankID string

const (
	BankLHV BankID = "lhv"
)

// SupportedBanks returns the bank identifiers accepted by NewAdapter.
func SupportedBanks() []BankID {
	return []BankID{BankLHV}
}

// ParseBankID resolves a bank name case-insensitively. An unknown name is a
// fatal configuration error.
func ParseBankID(name string) (BankID, error) {
	switch BankID(strings.ToLower(strings.TrimSpace(name))) {
	case BankLHV:
		return BankLHV, nil
	default:
		return "", errors.ConfigurationError(errors.CodeUnknownBank, name, nil)
	}
}

// NewAdapter constructs the CSV adapter for the named bank and file. The
// bank name is resolved before any file I/O; profiles that need the header
// row (locale detection) read it here, once, during construction.
func NewAdapter(bankName, filePath string) (*Adapter, error) {
	id, err := ParseBankID(bankName)
	if err != nil {
		return nil, err
	}

	switch id {
	case BankLHV:
		headers, err := readHeaderRow(filePath)
		if err != nil {
			return nil, err
		}
		return newAdapter(filePath, NewLHVProfile(headers)), nil
	default:
		// Unreachable: ParseBankID is exhaustive over BankID.
		return nil, errors.ConfigurationError(errors.CodeUnknownBank, bankName, nil)
	}
}
