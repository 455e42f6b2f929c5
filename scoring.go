package sapling

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MinGain is the information gain under which a split is considered no
// improvement at all.
const MinGain = 1e-12

/*
ClassImpurity takes a slice of labels and returns their entropy in bits:
-Σ p·log2(p) over the frequency p of each distinct label. It is 0 for an
empty slice.
*/
func ClassImpurity(labels []string) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	c := make([]int, 0, len(counts))
	for _, count := range counts {
		c = append(c, count)
	}
	return impurity(c, len(labels))
}

func impurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return stat.Entropy(p) / math.Ln2
}

/*
InformationGain takes the labels of a set of samples and the labels of the
groups it is partitioned into and returns the reduction of impurity that the
partition achieves. Empty groups are ignored.
*/
func InformationGain(parent []string, groups [][]string) float64 {
	if len(parent) == 0 {
		return 0
	}
	n := float64(len(parent))
	result := ClassImpurity(parent)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		result -= float64(len(g)) / n * ClassImpurity(g)
	}
	return result
}

func majority(labels []string) string {
	counts := make(map[string]int)
	var result string
	var best int
	for _, l := range labels {
		counts[l]++
	}
	for _, l := range labels {
		if counts[l] > best {
			result, best = l, counts[l]
		}
	}
	return result
}
