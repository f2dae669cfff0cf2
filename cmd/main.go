package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cleaning-booking",
		Short:         "Cleaning service booking wizard: estimates, availability, deposit payment and persistence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newWorkerCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newQuoteCmd(&configPath))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
