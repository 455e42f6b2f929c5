package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/spf13/cobra"
)

type previewCmdConfig struct {
	inputConfig
	rows int
}

func previewCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &previewCmdConfig{inputConfig: inputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Describe a set of data",
		Long:  `Describe a set of data: its columns, their inferred kinds, their number of distinct values and its first rows, in JSON`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := config.readTable(context.Background())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			err = encoder.Encode(dataset.Summarize(t, config.rows))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
		},
	}
	config.addFlags(cmd, "to describe")
	cmd.PersistentFlags().IntVarP(&(config.rows), "rows", "r", dataset.DefaultSummarySampleSize, "number of rows to include as sample")
	return cmd
}
