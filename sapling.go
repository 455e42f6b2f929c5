/*
Package sapling grows decision trees from datasets.

Trees are grown recursively: at every node the feature whose split yields
the highest information gain over the node's samples is chosen, numeric
features being split on a threshold and categorical ones on each observed
value. Growth stops on pure nodes, when the depth budget is exhausted, when
too few samples remain or when no split improves the impurity.
*/
package sapling

import (
	"fmt"
)

const (
	// NoMaxDepth leaves the depth of grown trees unbounded
	NoMaxDepth = -1
	// DefaultMinSamplesSplit is the minimum number of samples a node needs
	// to be split unless configured otherwise
	DefaultMinSamplesSplit = 2
)

/*
Config holds the parameters that bound the growth of a tree:
 * MaxDepth is the maximum number of splits from the root to any leaf, or
   NoMaxDepth.
 * MinSamplesSplit is the minimum number of samples a node must have to be
   split.
*/
type Config struct {
	MaxDepth        int
	MinSamplesSplit int
}

// DefaultConfig returns a Config without depth limit that splits nodes with
// at least 2 samples.
func DefaultConfig() Config {
	return Config{MaxDepth: NoMaxDepth, MinSamplesSplit: DefaultMinSamplesSplit}
}

// Validate returns an error if the Config cannot be used to grow a tree.
func (c Config) Validate() error {
	if c.MaxDepth < NoMaxDepth {
		return fmt.Errorf("invalid max depth %d: must be positive, 0 or %d for no limit", c.MaxDepth, NoMaxDepth)
	}
	if c.MinSamplesSplit < 1 {
		return fmt.Errorf("invalid min samples split %d: must be at least 1", c.MinSamplesSplit)
	}
	return nil
}
