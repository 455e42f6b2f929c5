package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	inputConfig
	treeInput     string
	metadataInput string
	classFeature  string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{inputConfig: inputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := loadTree(config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			classFeature := config.classFeature
			if classFeature == "" {
				classFeature = t.Label
			}
			if classFeature == "" {
				fmt.Fprintf(os.Stderr, "tree at %s does not name its class feature, set the class-feature flag\n", config.treeInput)
				os.Exit(3)
			}
			table, err := config.readTable(context.Background())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			features, err := config.features(table, classFeature)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			testingSet, err := dataset.FromTable(table, classFeature, features)
			if err != nil {
				fmt.Fprintf(os.Stderr, "preparing testing set: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Testing tree against testset with %d samples...", testingSet.Len())
			successRate, errorCount, err := t.Test(testingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(7)
			}
			config.Logf("Done")
			fmt.Printf("%f success rate, failed to make a prediction for %d samples\n", successRate, errorCount)
		},
	}
	config.addFlags(cmd, "to test the tree against")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (defaults to reading every column as text)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the tree predicts (defaults to the label stored with the tree)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return tcc.inputConfig.Validate()
}

// features reads every column as text unless metadata is given: the tree
// coerces the values of the numeric features it splits on.
func (tcc *testCmdConfig) features(t *dataset.Table, classFeature string) ([]feature.Feature, error) {
	features, err := tableFeatures(t, tcc.metadataInput, classFeature)
	if err != nil {
		return nil, err
	}
	if tcc.metadataInput == "" {
		features = feature.AsCategorical(features)
	}
	return features, nil
}
