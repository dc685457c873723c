package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"transaction-matcher/internal/adapters/ynab"
	"transaction-matcher/internal/config"
)

var (
	accountsBudgetID   string
	accountsShowClosed bool
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts in a budget",
	RunE:  runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)

	accountsCmd.Flags().StringVar(&accountsBudgetID, "budget", "", "remote budget ID (required)")
	accountsCmd.Flags().BoolVar(&accountsShowClosed, "show-closed", false, "include closed accounts")
	accountsCmd.MarkFlagRequired("budget")
}

func runAccounts(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadYNAB(cfgFile)
	if err != nil {
		return err
	}

	adapter := ynab.NewAdapter(ynab.NewClient(cfg), ynab.Selection{BudgetID: accountsBudgetID})
	accounts, err := adapter.GetAccounts(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE\tCLOSED")
	for _, a := range accounts {
		if a.Closed && !accountsShowClosed {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", a.ID, a.Name, a.Type, a.Balance.StringFixed(2), a.Closed)
	}
	return w.Flush()
}
