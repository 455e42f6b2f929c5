package sapling

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableDataset(t *testing.T, headers []string, rows [][]string, target string, features []feature.Feature) *dataset.Dataset {
	t.Helper()
	table, err := dataset.NewTable(headers, rows)
	require.NoError(t, err)
	if features == nil {
		features = feature.Without(feature.Infer(table), target)
	}
	d, err := dataset.FromTable(table, target, features)
	require.NoError(t, err)
	return d
}

func weatherDataset(t *testing.T) *dataset.Dataset {
	return tableDataset(t,
		[]string{"temp", "humidity", "play"},
		[][]string{
			{"30", "70", "no"},
			{"20", "65", "yes"},
			{"25", "90", "no"},
			{"18", "60", "yes"},
		},
		"play", nil)
}

func TestClassImpurity(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []string{"a"}, 0},
		{"pure", []string{"a", "a", "a"}, 0},
		{"two uniform", []string{"a", "b", "b", "a"}, 1},
		{"four uniform", []string{"a", "b", "c", "d"}, 2},
		{"three uniform", []string{"a", "b", "c"}, math.Log2(3)},
		{"skewed", []string{"a", "a", "a", "b"}, -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClassImpurity(tt.labels), 1e-9)
		})
	}
}

func TestClassImpurityPositiveUnlessPure(t *testing.T) {
	assert.Greater(t, ClassImpurity([]string{"a", "a", "a", "a", "a", "a", "a", "b"}), 0.0)
	assert.Less(t, ClassImpurity([]string{"a", "a", "b"}), math.Log2(2))
}

func TestInformationGain(t *testing.T) {
	for _, labels := range [][]string{
		{"a"},
		{"a", "b"},
		{"a", "a", "b", "c", "c", "c"},
	} {
		assert.InDelta(t, 0, InformationGain(labels, [][]string{labels}), 1e-12, "%v", labels)
	}
	assert.InDelta(t, 1, InformationGain([]string{"a", "a", "b", "b"}, [][]string{{"a", "a"}, {}, {"b", "b"}}), 1e-12)
	assert.Equal(t, 0.0, InformationGain(nil, nil))
}

func TestBestThreshold(t *testing.T) {
	threshold, gain := BestThreshold([]float64{30, 20, 25, 18}, []string{"no", "yes", "no", "yes"})
	assert.Equal(t, 22.5, threshold)
	assert.InDelta(t, 1, gain, 1e-12)

	_, gain = BestThreshold([]float64{1, 2, 3}, []string{"a", "a", "a"})
	assert.Equal(t, NoSplit, gain)
	_, gain = BestThreshold([]float64{5}, []string{"a"})
	assert.Equal(t, NoSplit, gain)
	_, gain = BestThreshold([]float64{5, 5, 5}, []string{"a", "b", "a"})
	assert.Equal(t, NoSplit, gain)
}

func TestBestThresholdDuplicatesKeepLastLabel(t *testing.T) {
	// value 1 stands for "b" and value 2 for "b": no candidate
	_, gain := BestThreshold([]float64{1, 2, 1}, []string{"a", "b", "b"})
	assert.Equal(t, NoSplit, gain)

	// value 1 stands for "a": 1.5 is a candidate scored on every sample
	threshold, gain := BestThreshold([]float64{1, 2, 1}, []string{"b", "b", "a"})
	assert.Equal(t, 1.5, threshold)
	assert.InDelta(t, InformationGain([]string{"b", "b", "a"}, [][]string{{"b", "a"}, {"b"}}), gain, 1e-12)
}

func TestBestThresholdFirstBestWins(t *testing.T) {
	threshold, _ := BestThreshold([]float64{1, 2, 3, 4}, []string{"a", "b", "a", "b"})
	assert.Equal(t, 1.5, threshold)
}

func TestBestThresholdMatchesDirectScoring(t *testing.T) {
	values := []float64{3.5, 1, 7, 1, 2.25, 7, 9, 3.5, 0.5, 4}
	labels := []string{"x", "y", "z", "x", "y", "y", "z", "x", "y", "z"}
	threshold, gain := BestThreshold(values, labels)
	var left, right []string
	for i, v := range values {
		if v <= threshold {
			left = append(left, labels[i])
		} else {
			right = append(right, labels[i])
		}
	}
	assert.InDelta(t, InformationGain(labels, [][]string{left, right}), gain, 1e-12)
}

func TestCategoricalGroups(t *testing.T) {
	g := CategoricalGroups([]string{"red", "blue", "red", "green"})
	assert.Equal(t, []string{"red", "blue", "green"}, g.Values)
	assert.Equal(t, []int{0, 2}, g.Positions["red"])
	assert.InDelta(t, 1, g.Gain([]string{"a", "b", "a", "b"}), 1e-12)
	assert.InDelta(t, 0, CategoricalGroups([]string{"x", "x"}).Gain([]string{"a", "b"}), 1e-12)
}

func TestGrowNumericScenario(t *testing.T) {
	d := weatherDataset(t)
	root, err := Grow(d, DefaultConfig())
	require.NoError(t, err)
	tr := tree.New(root, "play")
	accuracy, undetermined, err := tr.Test(d)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)
	assert.Equal(t, 0, undetermined)

	split, ok := root.(*tree.NumericSplit)
	require.True(t, ok)
	assert.Equal(t, "temp", split.Feature)
	assert.Greater(t, split.Threshold, 20.0)
	assert.Less(t, split.Threshold, 25.0)
	assert.Equal(t, &tree.Leaf{Prediction: "yes", Samples: 2}, split.Left)
	assert.Equal(t, &tree.Leaf{Prediction: "no", Samples: 2}, split.Right)
}

func TestGrowCategoricalScenario(t *testing.T) {
	d := tableDataset(t,
		[]string{"wind", "outlook", "play"},
		[][]string{
			{"weak", "sunny", "no"},
			{"strong", "rain", "yes"},
			{"weak", "overcast", "maybe"},
			{"strong", "sunny", "no"},
			{"weak", "rain", "yes"},
		},
		"play", nil)
	root, err := Grow(d, DefaultConfig())
	require.NoError(t, err)
	split, ok := root.(*tree.CategoricalSplit)
	require.True(t, ok)
	assert.Equal(t, "outlook", split.Feature)
	assert.Equal(t, []string{"sunny", "rain", "overcast"}, split.Values)
	for _, v := range split.Values {
		_, ok := split.Children[v].(*tree.Leaf)
		assert.True(t, ok, v)
	}

	p, err := tree.New(root, "play").Predict(dataset.NewSample(map[string]interface{}{"outlook": "snow"}))
	assert.Equal(t, tree.ErrUndetermined, err)
	assert.Equal(t, "", p)
}

func TestGrowMinSamplesSplit(t *testing.T) {
	root, err := Grow(weatherDataset(t), Config{MaxDepth: NoMaxDepth, MinSamplesSplit: 5})
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{Prediction: "no", Samples: 4}, root)
}

func TestGrowMaxDepthZero(t *testing.T) {
	root, err := Grow(weatherDataset(t), Config{MaxDepth: 0, MinSamplesSplit: 2})
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{Prediction: "no", Samples: 4}, root)
}

func TestGrowDepthBudget(t *testing.T) {
	headers := []string{"x", "y", "class"}
	var rows [][]string
	for i := 0; i < 200; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.FormatFloat(float64((i*37)%101)/7, 'f', -1, 64),
			fmt.Sprintf("c%d", (i*7919)%5),
		})
	}
	d := tableDataset(t, headers, rows, "class", nil)
	for _, depth := range []int{1, 2, 3, 5} {
		root, err := Grow(d, Config{MaxDepth: depth, MinSamplesSplit: 2})
		require.NoError(t, err)
		assert.LessOrEqual(t, tree.New(root, "class").Height(), depth)
	}
	root, err := Grow(d, DefaultConfig())
	require.NoError(t, err)
	accuracy, _, err := tree.New(root, "class").Test(d)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)
}

func TestGrowLeafPredictionsBelongToRoutedSamples(t *testing.T) {
	d := tableDataset(t,
		[]string{"size", "color", "class"},
		[][]string{
			{"1", "red", "a"},
			{"2", "red", "b"},
			{"3", "blue", "a"},
			{"4", "blue", "c"},
			{"5", "green", "c"},
			{"6", "red", "b"},
			{"7", "green", "a"},
			{"8", "blue", "b"},
		},
		"class", nil)
	root, err := Grow(d, Config{MaxDepth: 2, MinSamplesSplit: 2})
	require.NoError(t, err)
	var check func(n tree.Node, indices []int)
	check = func(n tree.Node, indices []int) {
		switch n := n.(type) {
		case *tree.Leaf:
			labels := map[string]bool{}
			for _, i := range indices {
				labels[d.Label(i)] = true
			}
			assert.True(t, labels[n.Prediction], "leaf %v", n)
			assert.Equal(t, len(indices), n.Samples)
		case *tree.NumericSplit:
			var left, right []int
			for _, i := range indices {
				v, _ := feature.ToNumber(d.Value(i, n.Feature))
				if v <= n.Threshold {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			require.NotEmpty(t, left)
			require.NotEmpty(t, right)
			check(n.Left, left)
			check(n.Right, right)
		case *tree.CategoricalSplit:
			for _, v := range n.Values {
				var subset []int
				for _, i := range indices {
					if feature.ValueKey(d.Value(i, n.Feature)) == v {
						subset = append(subset, i)
					}
				}
				require.NotEmpty(t, subset)
				check(n.Children[v], subset)
			}
		}
	}
	check(root, []int{0, 1, 2, 3, 4, 5, 6, 7})
}

func TestGrowSerializationRoundTrip(t *testing.T) {
	d := tableDataset(t,
		[]string{"temp", "outlook", "play"},
		[][]string{
			{"30", "sunny", "no"},
			{"20", "rain", "yes"},
			{"25", "sunny", "no"},
			{"18", "overcast", "yes"},
			{"22", "rain", "no"},
			{"27", "overcast", "yes"},
		},
		"play", nil)
	root, err := Grow(d, DefaultConfig())
	require.NoError(t, err)
	original := tree.New(root, "play")
	var buf bytes.Buffer
	require.NoError(t, treejson.WriteTree(&buf, original))
	decoded, err := treejson.ReadTree(&buf)
	require.NoError(t, err)
	for i := 0; i < d.Len(); i++ {
		p1, err1 := original.Predict(d.Sample(i))
		p2, err2 := decoded.Predict(d.Sample(i))
		assert.Equal(t, err1, err2)
		assert.Equal(t, p1, p2)
	}
}

func TestGrowSkipsNonNumericValues(t *testing.T) {
	d := tableDataset(t,
		[]string{"temp", "wind", "play"},
		[][]string{
			{"30", "weak", "no"},
			{"n/a", "strong", "yes"},
			{"25", "weak", "no"},
			{"18", "strong", "yes"},
		},
		"play",
		[]feature.Feature{feature.NewNumericFeature("temp"), feature.NewCategoricalFeature("wind")})
	root, err := Grow(d, DefaultConfig())
	require.NoError(t, err)
	split, ok := root.(*tree.CategoricalSplit)
	require.True(t, ok)
	assert.Equal(t, "wind", split.Feature)
}

func TestGrowTieBreaksOnFeatureOrder(t *testing.T) {
	rows := [][]string{{"a", "x", "1"}, {"b", "y", "2"}}
	root, err := Grow(tableDataset(t, []string{"first", "second", "class"}, rows, "class", nil), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "first", root.(*tree.CategoricalSplit).Feature)
}

func TestGrowMajorityTieFirstEncountered(t *testing.T) {
	rows := [][]string{{"x", "b"}, {"x", "a"}, {"x", "a"}, {"x", "b"}}
	root, err := Grow(tableDataset(t, []string{"f", "class"}, rows, "class", nil), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{Prediction: "b", Samples: 4}, root)
}

func TestGrowDegenerateInputs(t *testing.T) {
	empty := tableDataset(t, []string{"f", "class"}, nil, "class", nil)
	root, err := Grow(empty, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{}, root)

	noFeatures := tableDataset(t, []string{"class"}, [][]string{{"a"}, {"b"}, {"b"}}, "class", nil)
	root, err = Grow(noFeatures, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{Prediction: "b", Samples: 3}, root)

	_, err = Grow(nil, DefaultConfig())
	assert.Error(t, err)
	_, err = Grow(noFeatures, Config{MaxDepth: -2, MinSamplesSplit: 2})
	assert.Error(t, err)
	_, err = Grow(noFeatures, Config{MaxDepth: 1, MinSamplesSplit: 0})
	assert.Error(t, err)
}

func TestGrowID3(t *testing.T) {
	d := weatherDataset(t)
	id3, err := dataset.New(feature.AsCategorical(d.Features()), d.Samples(), d.Labels())
	require.NoError(t, err)
	root, err := Grow(id3, DefaultConfig())
	require.NoError(t, err)
	split, ok := root.(*tree.CategoricalSplit)
	require.True(t, ok)
	assert.Len(t, split.Values, 4)
}

func TestTrain(t *testing.T) {
	m, err := Train(weatherDataset(t), "play", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, "play", m.Tree.Label)
	assert.Equal(t, map[string]string{"temp": feature.Numeric, "humidity": feature.Numeric}, m.FeatureTypes)

	_, err = Train(weatherDataset(t), "play", Config{MinSamplesSplit: 0})
	assert.Error(t, err)
}
