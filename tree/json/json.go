/*
Package json encodes decision trees into nested JSON objects and decodes
them back.

A leaf is encoded as {"type":"leaf","prediction":LABEL,"samples":COUNT};
a leaf that cannot predict has a null prediction. When decoding, a leaf
without samples count but with a prediction counts as one sample.

A numeric split is encoded as {"type":"split","feature":NAME,
"is_numeric":true,"threshold":NUMBER,"left":NODE,"right":NODE}. A categorical split is encoded as {"type":"split",
"feature":NAME,"is_numeric":false,"children":{VALUE:NODE,...},
"order":[VALUE,...]} where order keeps the branch order.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pbanos/sapling/tree"
)

const (
	leafType  = "leaf"
	splitType = "split"
)

/*
Encode takes a node and returns the nested map representation of the
subtree under it, ready to be marshalled as JSON.
*/
func Encode(n tree.Node) map[string]interface{} {
	switch n := n.(type) {
	case *tree.Leaf:
		if n.Undetermined() {
			return map[string]interface{}{"type": leafType, "prediction": nil}
		}
		return map[string]interface{}{"type": leafType, "prediction": n.Prediction, "samples": n.Samples}
	case *tree.NumericSplit:
		return map[string]interface{}{
			"type":       splitType,
			"feature":    n.Feature,
			"is_numeric": true,
			"threshold":  n.Threshold,
			"left":       Encode(n.Left),
			"right":      Encode(n.Right),
		}
	case *tree.CategoricalSplit:
		children := make(map[string]interface{}, len(n.Values))
		order := make([]string, 0, len(n.Values))
		for _, v := range n.Values {
			children[v] = Encode(n.Children[v])
			order = append(order, v)
		}
		return map[string]interface{}{
			"type":       splitType,
			"feature":    n.Feature,
			"is_numeric": false,
			"children":   children,
			"order":      order,
		}
	}
	return nil
}

// Marshal takes a node and returns the JSON encoding of the subtree under it.
func Marshal(n tree.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot marshal nil node")
	}
	return json.Marshal(Encode(n))
}

// Unmarshal takes the JSON encoding of a subtree and returns its root node
// or an error if it cannot be decoded.
func Unmarshal(data []byte) (tree.Node, error) {
	var v interface{}
	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, fmt.Errorf("parsing tree JSON: %v", err)
	}
	return Decode(v)
}

/*
Decode takes a value as obtained from decoding JSON into an interface{}
and returns the node it represents. It returns an error when the value is
not an object, has an unknown type, a non-numeric threshold or misses
children.
*/
func Decode(v interface{}) (tree.Node, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("node must be an object, got %T", v)
	}
	t, _ := obj["type"].(string)
	switch t {
	case leafType:
		return decodeLeaf(obj)
	case splitType:
		feature, ok := obj["feature"].(string)
		if !ok || feature == "" {
			return nil, fmt.Errorf("split node without feature")
		}
		isNumeric, _ := obj["is_numeric"].(bool)
		if isNumeric {
			return decodeNumericSplit(feature, obj)
		}
		return decodeCategoricalSplit(feature, obj)
	}
	return nil, fmt.Errorf("unknown node type %q", t)
}

func decodeLeaf(obj map[string]interface{}) (tree.Node, error) {
	l := &tree.Leaf{}
	switch p := obj["prediction"].(type) {
	case string:
		l.Prediction = p
	case nil:
	default:
		l.Prediction = fmt.Sprintf("%v", p)
	}
	if s, ok := obj["samples"]; ok {
		count, ok := s.(float64)
		if !ok || count < 0 {
			return nil, fmt.Errorf("leaf samples must be a non-negative number, got %v", s)
		}
		l.Samples = int(count)
	} else if obj["prediction"] != nil {
		l.Samples = 1
	}
	return l, nil
}

func decodeNumericSplit(feature string, obj map[string]interface{}) (tree.Node, error) {
	threshold, ok := obj["threshold"].(float64)
	if !ok {
		return nil, fmt.Errorf("split on %s: threshold must be a number, got %v", feature, obj["threshold"])
	}
	ns := &tree.NumericSplit{Feature: feature, Threshold: threshold}
	var err error
	for _, side := range []string{"left", "right"} {
		child, ok := obj[side]
		if !ok || child == nil {
			return nil, fmt.Errorf("split on %s: missing %s subtree", feature, side)
		}
		var n tree.Node
		n, err = Decode(child)
		if err != nil {
			return nil, fmt.Errorf("split on %s: %s subtree: %v", feature, side, err)
		}
		if side == "left" {
			ns.Left = n
		} else {
			ns.Right = n
		}
	}
	return ns, nil
}

func decodeCategoricalSplit(feature string, obj map[string]interface{}) (tree.Node, error) {
	children, ok := obj["children"].(map[string]interface{})
	if !ok || len(children) == 0 {
		return nil, fmt.Errorf("split on %s: missing children", feature)
	}
	order, err := branchOrder(feature, obj["order"], children)
	if err != nil {
		return nil, err
	}
	cs := tree.NewCategoricalSplit(feature)
	for _, v := range order {
		n, err := Decode(children[v])
		if err != nil {
			return nil, fmt.Errorf("split on %s: subtree for %q: %v", feature, v, err)
		}
		cs.Add(v, n)
	}
	return cs, nil
}

func branchOrder(feature string, o interface{}, children map[string]interface{}) ([]string, error) {
	if o == nil {
		order := make([]string, 0, len(children))
		for v := range children {
			order = append(order, v)
		}
		sort.Strings(order)
		return order, nil
	}
	list, ok := o.([]interface{})
	if !ok || len(list) != len(children) {
		return nil, fmt.Errorf("split on %s: order does not list the children", feature)
	}
	order := make([]string, 0, len(list))
	for _, item := range list {
		v, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("split on %s: order values must be strings, got %v", feature, item)
		}
		if _, ok := children[v]; !ok {
			return nil, fmt.Errorf("split on %s: order value %q has no subtree", feature, v)
		}
		order = append(order, v)
	}
	return order, nil
}

/*
WriteTree takes an io.Writer and a tree and writes the tree onto the writer
as a JSON object with the following fields:
* "label": a string with the name of the label the tree predicts
* "root": the encoded root node
An error is returned if the tree cannot be serialized or written.
*/
func WriteTree(w io.Writer, t *tree.Tree) error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("cannot write empty tree")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(map[string]interface{}{"label": t.Label, "root": Encode(t.Root)})
	if err != nil {
		return fmt.Errorf("writing tree JSON: %v", err)
	}
	return nil
}

/*
ReadTree takes an io.Reader and returns the tree read from it as written by
WriteTree, or an error.
*/
func ReadTree(r io.Reader) (*tree.Tree, error) {
	jt := &struct {
		Label string      `json:"label"`
		Root  interface{} `json:"root"`
	}{}
	err := json.NewDecoder(r).Decode(jt)
	if err != nil {
		return nil, fmt.Errorf("parsing tree JSON: %v", err)
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("no root node available")
	}
	root, err := Decode(jt.Root)
	if err != nil {
		return nil, err
	}
	return tree.New(root, jt.Label), nil
}
