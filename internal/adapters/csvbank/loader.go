package csvbank

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"transaction-matcher/internal/models"
	"transaction-matcher/pkg/errors"
	"transaction-matcher/pkg/logger"
)

// Adapter loads one bank CSV export using the bank's Profile. Construct it
// through NewAdapter so the bank name is resolved and the header row
// validated up front.
type Adapter struct {
	filePath string
	profile  Profile
	logger   logger.Logger
}

func newAdapter(filePath string, profile Profile) *Adapter {
	return &Adapter{
		filePath: filePath,
		profile:  profile,
		logger: logger.Global().
			WithComponent("csv_adapter").
			WithField("bank", profile.BankName()),
	}
}

// SourceType returns the stable CSV source tag.
func (a *Adapter) SourceType() string {
	return models.SourceTypeCSV
}

// BankName returns the profile's bank tag.
func (a *Adapter) BankName() string {
	return a.profile.BankName()
}

// LoadTransactions reads the whole file and returns one canonical
// transaction per valid row, preserving file row order.
//
// Rows whose mapped date or amount is missing or unparseable are logged at
// WARN and skipped; the load still succeeds with the remaining rows. An
// unreadable file or a header row missing the mapped date/amount columns
// aborts the load with a fatal error.
func (a *Adapter) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	a.logger.WithField("file_path", a.filePath).Info("Loading bank CSV export")

	headers, records, err := readCSVFile(a.filePath)
	if err != nil {
		return nil, err
	}

	mapping := a.profile.ColumnMapping()
	headerIndex := buildHeaderIndex(headers)

	// The header contract requires the mapped date and amount columns;
	// everything else degrades per row.
	var missing []string
	for _, field := range []string{FieldDate, FieldAmount} {
		if _, ok := headerIndex[mapping[field]]; !ok {
			missing = append(missing, mapping[field])
		}
	}
	if len(missing) > 0 {
		return nil, errors.ParseError(
			errors.CodeMissingColumn, a.filePath, strings.Join(missing, ", "), nil)
	}

	transactions := make([]models.Transaction, 0, len(records))
	skipped := 0

	for i, record := range records {
		select {
		case <-ctx.Done():
			return nil, errors.InternalError("csv_load", ctx.Err())
		default:
		}

		row := a.renameRow(record, headers, headerIndex, mapping)

		tx, err := a.buildTransaction(row)
		if err != nil {
			skipped++
			a.logger.WithError(err).WithFields(logger.Fields{
				"line": i + 2, // 1-based, after the header row
			}).Warn("Skipping malformed row")
			continue
		}

		transactions = append(transactions, tx)
	}

	a.logger.WithFields(logger.Fields{
		"file_path": a.filePath,
		"loaded":    len(transactions),
		"skipped":   skipped,
	}).Info("Bank CSV export loaded")

	return transactions, nil
}

// renameRow converts a raw record into a map keyed by canonical field names
// where a mapping exists; unmapped columns keep their original header so
// they pass through into the transaction's raw data.
func (a *Adapter) renameRow(record []string, headers []string, headerIndex map[string]int, mapping map[string]string) map[string]string {
	headerToField := make(map[string]string, len(mapping))
	for field, header := range mapping {
		headerToField[header] = field
	}

	row := make(map[string]string, len(headers))
	for _, header := range headers {
		idx := headerIndex[header]
		value := ""
		if idx < len(record) {
			value = strings.TrimSpace(record[idx])
		}
		if field, ok := headerToField[header]; ok {
			row[field] = value
		} else {
			row[header] = value
		}
	}
	return row
}

func (a *Adapter) buildTransaction(row map[string]string) (models.Transaction, error) {
	rawDate := row[FieldDate]
	if rawDate == "" {
		return models.Transaction{}, errors.ValidationError(errors.CodeMissingField, FieldDate, rawDate, nil)
	}
	date, err := a.profile.ParseDate(rawDate)
	if err != nil {
		return models.Transaction{}, errors.ValidationError(errors.CodeInvalidDate, FieldDate, rawDate, err)
	}

	amount, err := a.profile.NormalizeAmount(row[FieldAmount], row)
	if err != nil {
		return models.Transaction{}, err
	}

	tx, err := models.NewTransaction(date, row[FieldDescription], amount, a.profile.BankName())
	if err != nil {
		return models.Transaction{}, err
	}

	tx.Category = row[FieldCategory]
	tx.Type = row[FieldTransactionType]
	tx.AccountID = row[FieldAccountID]

	raw := make(map[string]any, len(row))
	for k, v := range row {
		raw[k] = v
	}
	tx.Raw = raw

	return tx, nil
}

// readCSVFile reads the whole file, returning the header row and the data
// records. Any failure here is structural and therefore fatal.
func readCSVFile(filePath string) ([]string, [][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, filePath, err)
		}
		return nil, nil, errors.FileError(errors.CodeFileUnreadable, filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.ParseError(errors.CodeInvalidFormat, filePath, "not a parseable CSV file", err)
	}
	if len(all) == 0 {
		return nil, nil, errors.ParseError(errors.CodeInvalidFormat, filePath, "file contains no header row", nil)
	}

	headers := make([]string, len(all[0]))
	for i, h := range all[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return headers, all[1:], nil
}

// readHeaderRow reads only the header row of a CSV file. Used at adapter
// construction for locale detection.
func readHeaderRow(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		return nil, errors.FileError(errors.CodeFileUnreadable, filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, filePath, "cannot read header row", err)
	}

	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned, nil
}

func buildHeaderIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, header := range headers {
		if _, exists := index[header]; !exists {
			index[header] = i
		}
	}
	return index
}
