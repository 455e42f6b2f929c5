package sapling

import (
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

type grower struct {
	d   *dataset.Dataset
	cfg Config
}

type split struct {
	feature   feature.Feature
	gain      float64
	threshold float64
	groups    *Groups
}

/*
Grow takes a dataset and a Config and returns the root node of a decision
tree grown from the dataset's samples to predict its labels, or an error if
the dataset is nil or the Config is invalid.

Features are evaluated in the dataset's order and ties between them are won
by the first one. A numeric feature is skipped at a node when any of the
node's samples has a value that cannot be coerced into a number. Leaves
that do not come from a pure node predict their samples' majority label,
the first one found winning ties. An empty dataset yields a Leaf without
samples, which cannot predict.
*/
func Grow(d *dataset.Dataset, cfg Config) (tree.Node, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot grow a tree from a nil dataset")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	g := &grower{d, cfg}
	indices := make([]int, d.Len())
	for i := range indices {
		indices[i] = i
	}
	return g.grow(indices, cfg.MaxDepth), nil
}

func (g *grower) grow(indices []int, budget int) tree.Node {
	if len(indices) == 0 {
		return &tree.Leaf{}
	}
	labels := make([]string, len(indices))
	pure := true
	for i, idx := range indices {
		labels[i] = g.d.Label(idx)
		if labels[i] != labels[0] {
			pure = false
		}
	}
	if pure {
		return &tree.Leaf{Prediction: labels[0], Samples: len(labels)}
	}
	leaf := &tree.Leaf{Prediction: majority(labels), Samples: len(labels)}
	if budget != NoMaxDepth && budget <= 0 {
		return leaf
	}
	if len(indices) < g.cfg.MinSamplesSplit {
		return leaf
	}
	var best *split
	for _, f := range g.d.Features() {
		var s *split
		switch f.(type) {
		case *feature.NumericFeature:
			s = g.numericSplit(f, indices, labels)
		default:
			s = g.categoricalSplit(f, indices, labels)
		}
		if s == nil {
			continue
		}
		if (best == nil && s.gain > 0) || (best != nil && s.gain > best.gain) {
			best = s
		}
	}
	if best == nil || best.gain <= MinGain {
		return leaf
	}
	if budget != NoMaxDepth {
		budget--
	}
	if best.groups == nil {
		var left, right []int
		for _, idx := range indices {
			v, _ := feature.ToNumber(g.d.Value(idx, best.feature.Name()))
			if v <= best.threshold {
				left = append(left, idx)
			} else {
				right = append(right, idx)
			}
		}
		return &tree.NumericSplit{
			Feature:   best.feature.Name(),
			Threshold: best.threshold,
			Left:      g.grow(left, budget),
			Right:     g.grow(right, budget),
		}
	}
	node := tree.NewCategoricalSplit(best.feature.Name())
	for _, v := range best.groups.Values {
		positions := best.groups.Positions[v]
		subset := make([]int, len(positions))
		for i, p := range positions {
			subset[i] = indices[p]
		}
		node.Add(v, g.grow(subset, budget))
	}
	return node
}

func (g *grower) numericSplit(f feature.Feature, indices []int, labels []string) *split {
	values := make([]float64, len(indices))
	for i, idx := range indices {
		v, ok := feature.ToNumber(g.d.Value(idx, f.Name()))
		if !ok {
			return nil
		}
		values[i] = v
	}
	threshold, gain := BestThreshold(values, labels)
	if gain == NoSplit {
		return nil
	}
	return &split{feature: f, gain: gain, threshold: threshold}
}

func (g *grower) categoricalSplit(f feature.Feature, indices []int, labels []string) *split {
	keys := make([]string, len(indices))
	for i, idx := range indices {
		keys[i] = feature.ValueKey(g.d.Value(idx, f.Name()))
	}
	groups := CategoricalGroups(keys)
	return &split{feature: f, gain: groups.Gain(labels), groups: groups}
}
