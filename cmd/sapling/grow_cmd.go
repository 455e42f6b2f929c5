package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/json"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	inputConfig
	metadataInput   string
	output          string
	classFeature    string
	maxDepth        int
	minSamplesSplit int
	id3             bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{inputConfig: inputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a decision tree from a set of data to predict a certain feature.`,
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
			features, err := tableFeatures(t, config.metadataInput, config.classFeature)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			if config.id3 {
				features = feature.AsCategorical(features)
			}
			trainingSet, err := dataset.FromTable(t, config.classFeature, features)
			if err != nil {
				fmt.Fprintf(os.Stderr, "preparing training set: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Growing tree from a set with %d samples and %d features to predict %s ...", trainingSet.Len(), len(features), config.classFeature)
			model, err := sapling.Train(trainingSet, config.classFeature, config.treeConfig())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Done")
			config.Logf("%v", model.Tree)
			config.Logf("%f accuracy over the training set", model.Accuracy)
			err = outputTree(config.output, model.Tree)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
		},
	}
	config.addFlags(cmd, "to use to grow the tree")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features to use from the input (defaults to every column with inferred kinds)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the generated tree should predict (required)")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", sapling.NoMaxDepth, "maximum number of splits from the root to any leaf (defaults to -1: no limit)")
	cmd.PersistentFlags().IntVar(&(config.minSamplesSplit), "min-samples-split", sapling.DefaultMinSamplesSplit, "minimum number of samples a node needs to be split")
	cmd.PersistentFlags().BoolVar(&(config.id3), "id3", false, "treat every feature as categorical, growing an ID3 tree")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	err := gcc.treeConfig().Validate()
	if err != nil {
		return err
	}
	return gcc.inputConfig.Validate()
}

func (gcc *growCmdConfig) treeConfig() sapling.Config {
	return sapling.Config{MaxDepth: gcc.maxDepth, MinSamplesSplit: gcc.minSamplesSplit}
}

func outputTree(outputPath string, t *tree.Tree) error {
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	return json.WriteTree(f, t)
}

func loadTree(filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := json.ReadTree(f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}
