package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput      string
	metadataInput  string
	undefinedValue string
	unseen         string
}

/*
stdoutFeatureValueRequester asks for feature values on STDOUT, listing the
values the tree has branches for on categorical features.
*/
type stdoutFeatureValueRequester struct {
	undefinedValue string
	values         map[string][]string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a sample answering questions",
		Long:  `Use the loaded tree to predict the class feature value for a sample answering a reduced set of question about its features`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			policy, err := tree.ParseUnseenPolicy(config.unseen)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := loadTree(config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			features, values := treeFeatures(t)
			if config.metadataInput != "" {
				features, err = yaml.ReadFeaturesFromFile(config.metadataInput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
			}
			requester := &stdoutFeatureValueRequester{config.undefinedValue, values}
			sample := inputsample.New(os.Stdin, features, requester, config.undefinedValue)
			prediction, err := t.PredictWithPolicy(sample, policy)
			if err == tree.ErrUndetermined {
				fmt.Println("The tree cannot predict a value for the sample")
				return
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			label := t.Label
			if label == "" {
				label = "value"
			}
			fmt.Printf("Predicted %s is %s\n", label, prediction)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features of samples (defaults to the features the tree splits on)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to use will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	cmd.PersistentFlags().StringVar(&(config.unseen), "unseen", "undetermined", "what to do with values a categorical split has no branch for: undetermined or first-child")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
treeFeatures returns the features the given tree splits on, in the order
they are first found from the root, and the branch values of each
categorical one.
*/
func treeFeatures(t *tree.Tree) ([]feature.Feature, map[string][]string) {
	var features []feature.Feature
	values := make(map[string][]string)
	seen := make(map[string]bool)
	seenValue := make(map[string]bool)
	t.Traverse(false, func(n tree.Node) error {
		switch n := n.(type) {
		case *tree.NumericSplit:
			if !seen[n.Feature] {
				seen[n.Feature] = true
				features = append(features, feature.NewNumericFeature(n.Feature))
			}
		case *tree.CategoricalSplit:
			if !seen[n.Feature] {
				seen[n.Feature] = true
				features = append(features, feature.NewCategoricalFeature(n.Feature))
			}
			for _, v := range n.Values {
				if !seenValue[n.Feature+"\x00"+v] {
					seenValue[n.Feature+"\x00"+v] = true
					values[n.Feature] = append(values[n.Feature], v)
				}
			}
		}
		return nil
	})
	return features, values
}

func (sfvr *stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.CategoricalFeature:
		fmt.Printf("Please provide the sample's %s:\n(known values are %v or %s if undefined)\n", f.Name(), sfvr.values[f.Name()], sfvr.undefinedValue)
	case *feature.NumericFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), sfvr.undefinedValue)
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr *stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.NumericFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), sfvr.undefinedValue)
	default:
		return fmt.Errorf("unexpected rejection of value %s for feature %s", value, f.Name())
	}
	return nil
}
