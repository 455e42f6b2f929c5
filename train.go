package sapling

import (
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
Model is the result of training: the grown tree, its accuracy over the
training dataset and the kind of each feature it was grown with.
*/
type Model struct {
	Tree         *tree.Tree
	Accuracy     float64
	FeatureTypes map[string]string
}

/*
Train takes a dataset, the name of its label and a Config, grows a tree with
Grow and tests it against the same dataset. It returns the resulting Model or
an error if the tree cannot be grown or tested.
*/
func Train(d *dataset.Dataset, label string, cfg Config) (*Model, error) {
	root, err := Grow(d, cfg)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	t := tree.New(root, label)
	accuracy, _, err := t.Test(d)
	if err != nil {
		return nil, fmt.Errorf("testing tree against training data: %v", err)
	}
	return &Model{Tree: t, Accuracy: accuracy, FeatureTypes: feature.TypeMap(d.Features())}, nil
}
