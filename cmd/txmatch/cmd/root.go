package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"transaction-matcher/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "txmatch",
	Short: "Match bank CSV exports against a remote budget",
	Long: `txmatch normalizes transactions from bank CSV exports and a remote
budgeting service into a common shape and pairs them by approximate
date/amount matching.

Examples:
  txmatch budgets
  txmatch accounts --budget <budget-id>
  txmatch match --bank lhv --csv-file export.csv --budget <budget-id>`,
	Version: getVersionString(),

	// The taxonomy-aware handler in ExitCode prints errors itself.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. main maps a returned error to an exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with the ynab credential block (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the optional config file and environment, then
// reconfigures the global logger per the verbose flag.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	viper.SetEnvPrefix("TXMATCH")
	viper.AutomaticEnv()

	level := logger.InfoLevel
	if viper.GetBool("verbose") {
		level = logger.DebugLevel
	}
	if log, err := logger.New(&logger.Config{Level: level, Format: logger.TextFormat, Output: os.Stderr}); err == nil {
		logger.SetGlobal(log)
	}
}

// SetVersionInfo sets build metadata shown by --version.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
