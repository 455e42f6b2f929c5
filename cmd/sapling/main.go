package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow decision trees",
		Long:  `A tool to grow decision trees from tabular data, test them, and use them to classify samples`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		testCmd(config),
		predictCmd(config),
		treeCmd(config),
		previewCmd(config),
		setCmd(config),
		serveCmd(config),
	)
	return rootCmd
}
