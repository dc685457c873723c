package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"transaction-matcher/internal/adapters/ynab"
	"transaction-matcher/internal/config"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List budgets visible to the configured credential",
	RunE:  runBudgets,
}

func init() {
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadYNAB(cfgFile)
	if err != nil {
		return err
	}

	adapter := ynab.NewAdapter(ynab.NewClient(cfg), ynab.Selection{})
	budgets, err := adapter.GetBudgets(cmd.Context())
	if err != nil {
		return err
	}

	if len(budgets) == 0 {
		fmt.Println("No budgets found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAST MODIFIED")
	for _, b := range budgets {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.LastModified.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
