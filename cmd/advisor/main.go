// Command advisor runs the connector selection engine from a terminal.
package main

import (
	"fmt"
	"os"

	"connector-selector/internal/bootstrap"
	"connector-selector/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Guided connector family selection",
	Long: `advisor asks about your connector requirements, scores every family in the
catalog after each answer and recommends one as soon as the evidence allows.

Commands:
  chat     - interactive selection session
  catalog  - list the candidate families and the question catalog
  score    - score the catalog against answers given as flags
  audit    - read the session audit log
  watch    - follow escalations published on NATS`,
	SilenceUsage: true,
}

// newContainer loads and validates the configuration, then wires every
// dependency.
func newContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return bootstrap.NewContainer(cfg)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show candidate scores after every turn")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
