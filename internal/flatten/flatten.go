package flatten

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Separator joins nested object names into a translation key.
const Separator = "."

// Leaf is a flattened translation value and the file it came from.
// Array is set when Value is the compact JSON text of an array.
type Leaf struct {
	Value      string `json:"value"`
	SourceFile string `json:"file"`
	Array      bool   `json:"array,omitempty"`
}

// Pair is one flattened key with its leaf.
type Pair struct {
	Key  string
	Leaf Leaf
}

// Parse decodes a JSON document into a node tree. The root must be an object.
func Parse(data []byte, file string) (*Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, &MalformedDocumentError{File: file, Err: errors.New("invalid JSON")}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &MalformedDocumentError{File: file, Err: errors.New("root is not an object")}
	}

	return fromResult(root), nil
}

func fromResult(r gjson.Result) *Node {
	switch {
	case r.IsObject():
		node := &Node{Kind: ObjectNode}
		r.ForEach(func(key, value gjson.Result) bool {
			node.Fields = append(node.Fields, Field{Name: key.String(), Node: fromResult(value)})
			return true
		})
		return node
	case r.IsArray():
		return &Node{Kind: LeafNode, Value: string(pretty.Ugly([]byte(r.Raw))), Array: true}
	}

	switch r.Type {
	case gjson.String:
		return &Node{Kind: LeafNode, Value: r.Str}
	case gjson.True:
		return &Node{Kind: LeafNode, Value: "true"}
	case gjson.False:
		return &Node{Kind: LeafNode, Value: "false"}
	case gjson.Number:
		return &Node{Kind: LeafNode, Value: r.Raw}
	default:
		return &Node{Kind: LeafNode, Value: "null"}
	}
}

// Flatten walks root depth-first in document order and returns one pair per leaf.
// Empty objects contribute no pairs.
func Flatten(root *Node, file string) []Pair {
	var pairs []Pair

	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		if n.Kind == LeafNode {
			pairs = append(pairs, Pair{Key: prefix, Leaf: Leaf{Value: n.Value, SourceFile: file, Array: n.Array}})
			return
		}
		for _, f := range n.Fields {
			key := f.Name
			if prefix != "" {
				key = prefix + Separator + f.Name
			}
			walk(f.Node, key)
		}
	}

	if root != nil {
		walk(root, "")
	}
	return pairs
}

// Document parses and flattens one file.
func Document(data []byte, file string) ([]Pair, error) {
	root, err := Parse(data, file)
	if err != nil {
		return nil, err
	}
	return Flatten(root, file), nil
}

// Unflatten rebuilds a node tree from flattened pairs by splitting keys on Separator.
// Later pairs overwrite earlier ones at the same path.
func Unflatten(pairs []Pair) *Node {
	root := &Node{Kind: ObjectNode}

	for _, p := range pairs {
		parts := strings.Split(p.Key, Separator)
		cur := root
		for _, name := range parts[:len(parts)-1] {
			next := cur.child(name)
			if next == nil || next.Kind != ObjectNode {
				next = &Node{Kind: ObjectNode}
				cur.set(name, next)
			}
			cur = next
		}
		cur.set(parts[len(parts)-1], &Node{Kind: LeafNode, Value: p.Leaf.Value, Array: p.Leaf.Array})
	}

	return root
}

func (n *Node) set(name string, child *Node) {
	for i, f := range n.Fields {
		if f.Name == name {
			n.Fields[i].Node = child
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Node: child})
}
