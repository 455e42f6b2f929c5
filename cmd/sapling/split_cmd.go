package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pbanos/sapling/dataset"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*setCmdConfig
	setOutput        string
	splitOutput      string
	outputTable      string
	splitTable       string
	splitProbability int
	seed             int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, e.g. to grow a tree with one and test it with the other`,
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
			seed := config.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			output, splitOutput := splitTable(t, config.splitProbability, rand.New(rand.NewSource(seed)))
			config.Logf("Writing output set...")
			err = writeTable(ctx, config.setOutput, config.outputTable, output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Writing split set...")
			err = writeTable(ctx, config.splitOutput, config.splitTable, splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("Input set with %d samples was split into sets with %d and %d samples", t.Len(), output.Len(), splitOutput.Len())
		},
	}
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.Flags().StringVar(&(config.outputTable), "output-table", "", "name of the table to create for the output set when it goes to a SQL database")
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL to dump the split set (required)")
	cmd.Flags().StringVar(&(config.splitTable), "split-table", "", "name of the table to create for the split set when it goes to a SQL database")
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of samples (defaults to 0: a time-based seed)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return scc.inputConfig.Validate()
}

/*
splitTable takes a table, a percent probability and a randomizer and
returns two tables with the table's headers: the rows assigned to the
second one with the given probability, the rest to the first one.
*/
func splitTable(t *dataset.Table, probability int, randomizer *rand.Rand) (*dataset.Table, *dataset.Table) {
	output := &dataset.Table{Headers: t.Headers, Rows: [][]string{}}
	split := &dataset.Table{Headers: t.Headers, Rows: [][]string{}}
	for _, row := range t.Rows {
		if (100 * randomizer.Float32()) > float32(probability) {
			output.Rows = append(output.Rows, row)
		} else {
			split.Rows = append(split.Rows, row)
		}
	}
	return output, split
}
