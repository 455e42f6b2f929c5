package sapling

import (
	"sort"
)

// NoSplit is the gain BestThreshold returns when values admit no threshold.
const NoSplit = -1.0

/*
BestThreshold takes numeric values and their parallel labels and returns the
threshold that best splits them into values less than or equal to it and
values greater than it, along with the information gain of that split.

Candidate thresholds are the midpoints between consecutive distinct values
whose labels differ. When several samples share a value, the label of the
last one in input order stands for the value. Every candidate is scored on
all the samples and the first one with the highest gain is returned. If no
candidate exists, the returned gain is NoSplit.
*/
func BestThreshold(values []float64, labels []string) (float64, float64) {
	n := len(values)
	if n < 2 || len(labels) != n {
		return 0, NoSplit
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})
	classes := make(map[string]int)
	classOf := make([]int, n)
	for i, l := range labels {
		c, ok := classes[l]
		if !ok {
			c = len(classes)
			classes[l] = c
		}
		classOf[i] = c
	}
	left := make([]int, len(classes))
	right := make([]int, len(classes))
	for _, c := range classOf {
		right[c]++
	}
	parentImpurity := impurity(right, n)
	threshold, gain := 0.0, NoSplit
	for pos := 0; pos < n; {
		// move the whole run of samples sharing the value to the left side
		v := values[order[pos]]
		end := pos
		for end < n && values[order[end]] == v {
			c := classOf[order[end]]
			left[c]++
			right[c]--
			end++
		}
		if end == n {
			break
		}
		next := values[order[end]]
		nextEnd := end
		for nextEnd < n && values[order[nextEnd]] == next {
			nextEnd++
		}
		pos = end
		if classOf[order[end-1]] == classOf[order[nextEnd-1]] {
			continue
		}
		candidate := (v + next) / 2
		if candidate >= next {
			candidate = v
		}
		nl := end
		g := parentImpurity -
			float64(nl)/float64(n)*impurity(left, nl) -
			float64(n-nl)/float64(n)*impurity(right, n-nl)
		if g > gain {
			threshold, gain = candidate, g
		}
	}
	return threshold, gain
}

/*
Groups is a partition of the positions of a slice of categorical values by
value. Values lists the distinct values in the order they were first
observed and Positions maps each of them to its positions in the slice.
*/
type Groups struct {
	Values    []string
	Positions map[string][]int
}

// CategoricalGroups takes a slice of categorical values and returns the
// partition of its positions by value.
func CategoricalGroups(values []string) *Groups {
	g := &Groups{Positions: make(map[string][]int)}
	for i, v := range values {
		if _, ok := g.Positions[v]; !ok {
			g.Values = append(g.Values, v)
		}
		g.Positions[v] = append(g.Positions[v], i)
	}
	return g
}

// Gain takes the labels parallel to the values the groups were made from
// and returns the information gain of splitting them by value.
func (g *Groups) Gain(labels []string) float64 {
	groups := make([][]string, 0, len(g.Values))
	for _, v := range g.Values {
		group := make([]string, 0, len(g.Positions[v]))
		for _, i := range g.Positions[v] {
			group = append(group, labels[i])
		}
		groups = append(groups, group)
	}
	return InformationGain(labels, groups)
}
