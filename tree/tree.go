package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// Tree represents a decision tree. It is composed of its root
// node and the name of the label it is able to predict.
type Tree struct {
	Root  Node
	Label string
}

// New takes a root Node and a label name and returns a tree with them.
func New(root Node, label string) *Tree {
	return &Tree{root, label}
}

// Predict takes a sample and returns the label predicted for it by the tree
// and an error if the prediction could not be made. Samples with values
// without branch are not predicted (see UnseenUndetermined).
func (t *Tree) Predict(s dataset.Sample) (string, error) {
	return t.PredictWithPolicy(s, UnseenUndetermined)
}

/*
PredictWithPolicy takes a sample and an UnseenPolicy and walks the tree from
its root to return the prediction of the leaf reached. It returns
ErrUndetermined when the tree cannot predict the sample, and any other error
obtaining values from the sample wrapped with context.
*/
func (t *Tree) PredictWithPolicy(s dataset.Sample, policy UnseenPolicy) (string, error) {
	if t == nil || t.Root == nil {
		return "", fmt.Errorf("nil tree cannot predict samples")
	}
	n := t.Root
	for {
		switch node := n.(type) {
		case *Leaf:
			if node.Undetermined() {
				return "", ErrUndetermined
			}
			return node.Prediction, nil
		case *NumericSplit:
			v, err := s.ValueFor(node.Feature)
			if err != nil {
				return "", fmt.Errorf("predicting sample: obtaining value for %s: %v", node.Feature, err)
			}
			number, ok := feature.ToNumber(v)
			if !ok {
				return "", ErrUndetermined
			}
			if number <= node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		case *CategoricalSplit:
			v, err := s.ValueFor(node.Feature)
			if err != nil {
				return "", fmt.Errorf("predicting sample: obtaining value for %s: %v", node.Feature, err)
			}
			child, ok := node.Child(feature.ValueKey(v))
			if !ok {
				if policy != UnseenFirstChild || len(node.Values) == 0 {
					return "", ErrUndetermined
				}
				child = node.Children[node.Values[0]]
			}
			n = child
		default:
			return "", fmt.Errorf("predicting sample: unknown node type %T", n)
		}
	}
}

/*
Test takes a dataset and returns three values:
 * the prediction success rate of the tree over the dataset's labels
 * the number of samples for which the tree returned ErrUndetermined
 * an error if a prediction could not be made for reasons other than the
   tree not being able to do so. If this is not nil, the other values will
   be 0.0 and 0 respectively
An empty dataset has a success rate of 0.0.
*/
func (t *Tree) Test(d *dataset.Dataset) (float64, int, error) {
	if t == nil || d.Len() == 0 {
		return 0.0, 0, nil
	}
	var hits, errCount int
	for i := 0; i < d.Len(); i++ {
		p, err := t.Predict(d.Sample(i))
		if err != nil {
			if err != ErrUndetermined {
				return 0.0, 0, err
			}
			errCount++
			continue
		}
		if p == d.Label(i) {
			hits++
		}
	}
	return float64(hits) / float64(d.Len()), errCount, nil
}

// Traverse takes a bottomup boolean and an error-returning function that
// takes a node, and goes through the tree running the function with every
// traversed node. It calls the function with a parent node before its
// children if bottomup is false, and after them if bottomup is true.
// If the call to the function returns an error, the traversing is aborted
// and the error is returned.
func (t *Tree) Traverse(bottomup bool, f func(Node) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(t.Root, bottomup, f)
}

func traverse(n Node, bottomup bool, f func(Node) error) error {
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	for _, sn := range Subtrees(n) {
		if err := traverse(sn, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(n)
	}
	return nil
}

// Height returns the number of edges on the longest path from the root to
// a leaf.
func (t *Tree) Height() int {
	if t.Root == nil {
		return 0
	}
	return height(t.Root)
}

func height(n Node) int {
	var result int
	for _, sn := range Subtrees(n) {
		if h := height(sn) + 1; h > result {
			result = h
		}
	}
	return result
}

// Leaves returns the number of leaves in the tree.
func (t *Tree) Leaves() int {
	var count int
	t.Traverse(false, func(n Node) error {
		if _, ok := n.(*Leaf); ok {
			count++
		}
		return nil
	})
	return count
}

func (t *Tree) String() string {
	if t.Root == nil {
		return ""
	}
	return subtreeString(t.Root)
}

func subtreeString(n Node) string {
	var sb strings.Builder
	var branches []string
	switch n := n.(type) {
	case *Leaf:
		fmt.Fprintf(&sb, "%v\n \n", n)
		return sb.String()
	case *NumericSplit:
		fmt.Fprintf(&sb, "[%s]\n|\n", n.Feature)
		branches = []string{fmt.Sprintf("<= %v", n.Threshold), fmt.Sprintf("> %v", n.Threshold)}
	case *CategoricalSplit:
		fmt.Fprintf(&sb, "[%s]\n|\n", n.Feature)
		for _, v := range n.Values {
			branches = append(branches, fmt.Sprintf("= %s", v))
		}
	}
	subtrees := Subtrees(n)
	for i, st := range subtrees {
		lines := strings.Split(fmt.Sprintf("%s %s", branches[i], subtreeString(st)), "\n")
		for j, line := range lines {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				fmt.Fprintf(&sb, "|__%s\n", line)
			case i == len(subtrees)-1:
				fmt.Fprintf(&sb, "   %s\n", line)
			default:
				fmt.Fprintf(&sb, "|  %s\n", line)
			}
		}
	}
	return sb.String()
}
