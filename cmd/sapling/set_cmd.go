package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	inputConfig
	setOutput   string
	outputTable string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{inputConfig: inputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy a set of data from one source to another, e.g. from a CSV file into a SQLite3 database`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			t, err := config.readTable(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Writing set with %d samples...", t.Len())
			err = writeTable(ctx, config.setOutput, config.outputTable, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done")
		},
	}
	config.addFlags(cmd, "to copy")
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.Flags().StringVar(&(config.outputTable), "output-table", "", "name of the table to create when the output is a SQL database")
	cmd.AddCommand(splitCmd(config))
	return cmd
}
