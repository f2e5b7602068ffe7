// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/pcapscan/internal/config"
	"firestige.xyz/pcapscan/internal/log"
)

var (
	// Global flags
	configFile string
	logLevel   string

	cfg *config.GlobalConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pcapscan",
	Short: "Pcapscan - Stream classic libpcap capture files as columnar row batches",
	Long: `Pcapscan decodes the classic libpcap capture container format and streams
its records in bounded-size batches, the way a query engine pulls rows from
a registered table function.

It resolves the stream header (magic number, byte order, timestamp
precision), normalizes timestamps to nanoseconds, and delivers each record
as (timestamp_ns, original_len, capture_len, data). Payloads stay opaque:
no protocol layers are decoded. Truncated captures yield the rows decoded
so far instead of failing.`,
	Version:           "0.1.0",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override log level (debug/info/warn/error)")

	// Add subcommands
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(infoCmd)
}

// setup loads configuration and initializes logging before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return log.Init(cfg.Log)
}
