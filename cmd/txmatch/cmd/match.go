package cmd

import (
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"transaction-matcher/internal/adapters/csvbank"
	"transaction-matcher/internal/adapters/ynab"
	"transaction-matcher/internal/config"
	"transaction-matcher/internal/matcher"
	"transaction-matcher/internal/reconcile"
	"transaction-matcher/internal/reporter"
	"transaction-matcher/pkg/errors"
)

var (
	matchBank            string
	matchCSVFile         string
	matchBudgetID        string
	matchAccountID       string
	matchSince           string
	matchDateTolerance   int
	matchAmountTolerance float64
	matchOutputFormat    string
	matchOutputFile      string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Reconcile a bank CSV export against remote budget transactions",
	Long: `Load transactions from the remote budgeting service (left side) and a
bank CSV export (right side), then pair them by approximate date/amount
matching and report the matched and unmatched partitions.

Both tolerances are inclusive: with --amount-tolerance 0.01, amounts
100.00 and 100.01 match.

Examples:
  txmatch match --bank lhv --csv-file export.csv --budget <budget-id>
  txmatch match --bank lhv --csv-file export.csv --budget <id> --account <id> --since 2024-01-01
  txmatch match --bank lhv --csv-file export.csv --budget <id> --output-format json`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchBank, "bank", "", "bank name of the CSV export (required)")
	matchCmd.Flags().StringVar(&matchCSVFile, "csv-file", "", "path to the bank CSV export (required)")
	matchCmd.Flags().StringVar(&matchBudgetID, "budget", "", "remote budget ID (required)")
	matchCmd.Flags().StringVar(&matchAccountID, "account", "", "remote account ID (optional)")
	matchCmd.Flags().StringVar(&matchSince, "since", "", "only load remote transactions on/after this date (YYYY-MM-DD)")
	matchCmd.Flags().IntVar(&matchDateTolerance, "date-tolerance", 1, "date tolerance in days (inclusive)")
	matchCmd.Flags().Float64Var(&matchAmountTolerance, "amount-tolerance", 0.01, "amount tolerance (inclusive absolute difference)")
	matchCmd.Flags().StringVar(&matchOutputFormat, "output-format", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVar(&matchOutputFile, "output-file", "", "write the report to a file instead of stdout")

	matchCmd.MarkFlagRequired("bank")
	matchCmd.MarkFlagRequired("csv-file")
	matchCmd.MarkFlagRequired("budget")

	viper.BindPFlag("date-tolerance", matchCmd.Flags().Lookup("date-tolerance"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
}

func runMatch(cmd *cobra.Command, args []string) error {
	format, err := reporter.ParseFormat(matchOutputFormat)
	if err != nil {
		return err
	}

	tol := matcher.Tolerances{
		DateDays: matchDateTolerance,
		Amount:   decimal.NewFromFloat(matchAmountTolerance),
	}
	if err := tol.Validate(); err != nil {
		return err
	}

	var sinceDate time.Time
	if matchSince != "" {
		sinceDate, err = time.Parse("2006-01-02", matchSince)
		if err != nil {
			return errors.ValidationError(errors.CodeInvalidDate, "since", matchSince, err).
				WithSuggestion("use the YYYY-MM-DD format")
		}
	}

	// Unknown bank names fail here, before the CSV file is touched.
	csvAdapter, err := csvbank.NewAdapter(matchBank, matchCSVFile)
	if err != nil {
		return err
	}

	ynabCfg, err := config.LoadYNAB(cfgFile)
	if err != nil {
		return err
	}
	ynabAdapter := ynab.NewAdapter(ynab.NewClient(ynabCfg), ynab.Selection{
		BudgetID:  matchBudgetID,
		AccountID: matchAccountID,
		SinceDate: sinceDate,
	})

	report, err := reconcile.NewService().Run(cmd.Context(), ynabAdapter, csvAdapter, tol)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(matchOutputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	return reporter.Write(out, report, format)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.FileError(errors.CodeFileUnreadable, path, err).
			WithSuggestion("check that the output path is writable")
	}
	return file, func() { file.Close() }, nil
}
