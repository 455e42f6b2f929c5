package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() tree.Node {
	cs := tree.NewCategoricalSplit("outlook")
	cs.Add("Sunny", &tree.NumericSplit{
		Feature:   "humidity",
		Threshold: 77.5,
		Left:      &tree.Leaf{Prediction: "yes", Samples: 2},
		Right:     &tree.Leaf{Prediction: "no", Samples: 3},
	})
	cs.Add("Rain", &tree.Leaf{Prediction: "yes", Samples: 1})
	cs.Add("Fog", &tree.Leaf{})
	return cs
}

func TestEncode(t *testing.T) {
	encoded := Encode(sampleTree())
	assert.Equal(t, "split", encoded["type"])
	assert.Equal(t, false, encoded["is_numeric"])
	assert.Equal(t, []string{"Sunny", "Rain", "Fog"}, encoded["order"])
	children := encoded["children"].(map[string]interface{})
	sunny := children["Sunny"].(map[string]interface{})
	assert.Equal(t, true, sunny["is_numeric"])
	assert.Equal(t, 77.5, sunny["threshold"])
	assert.Equal(t, map[string]interface{}{"type": "leaf", "prediction": "yes", "samples": 2}, sunny["left"])
	assert.Equal(t, map[string]interface{}{"type": "leaf", "prediction": nil}, children["Fog"])
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := Marshal(sampleTree())
	require.NoError(t, err)
	n, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, sampleTree(), n)

	_, err = Marshal(nil)
	assert.Error(t, err)
}

func TestUnmarshalWithoutOrderOrSamples(t *testing.T) {
	n, err := Unmarshal([]byte(`{"type":"split","feature":"color","is_numeric":false,"children":{
		"red":{"type":"leaf","prediction":"A"},
		"blue":{"type":"leaf","prediction":"B"}}}`))
	require.NoError(t, err)
	cs := n.(*tree.CategoricalSplit)
	assert.Equal(t, []string{"blue", "red"}, cs.Values)
	assert.Equal(t, &tree.Leaf{Prediction: "A", Samples: 1}, cs.Children["red"])
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{`},
		{"not an object", `[]`},
		{"unknown type", `{"type":"branch"}`},
		{"split without feature", `{"type":"split","is_numeric":true,"threshold":1}`},
		{"non numeric threshold", `{"type":"split","feature":"x","is_numeric":true,"threshold":"1","left":{"type":"leaf","prediction":"a"},"right":{"type":"leaf","prediction":"b"}}`},
		{"missing right", `{"type":"split","feature":"x","is_numeric":true,"threshold":1,"left":{"type":"leaf","prediction":"a"}}`},
		{"missing children", `{"type":"split","feature":"x","is_numeric":false}`},
		{"order mismatch", `{"type":"split","feature":"x","is_numeric":false,"children":{"a":{"type":"leaf","prediction":"a"}},"order":["b"]}`},
		{"bad nested node", `{"type":"split","feature":"x","is_numeric":false,"children":{"a":{"type":"tree"}}}`},
		{"negative samples", `{"type":"leaf","prediction":"a","samples":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestWriteReadTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, tree.New(sampleTree(), "play")))
	tr, err := ReadTree(&buf)
	require.NoError(t, err)
	assert.Equal(t, "play", tr.Label)
	assert.Equal(t, sampleTree(), tr.Root)

	assert.Error(t, WriteTree(&buf, &tree.Tree{}))
	_, err = ReadTree(strings.NewReader(`{"label":"play"}`))
	assert.Error(t, err)
	_, err = ReadTree(strings.NewReader(`nope`))
	assert.Error(t, err)
}
