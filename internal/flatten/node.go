package flatten

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is returned when a file is not valid JSON or its root is not an object.
var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError names the file that failed to parse.
type MalformedDocumentError struct {
	File string
	Err  error
}

// Error reports the file and the parse failure.
func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.File, ErrMalformedDocument, e.Err)
}

// Unwrap exposes both ErrMalformedDocument and the underlying cause.
func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// Kind tells objects from leaves.
type Kind int

const (
	ObjectNode Kind = iota
	LeafNode
)

// Node is one position in a translation tree: either an object with ordered,
// named children or a leaf holding the string form of a scalar or array.
// Array marks a leaf built from a JSON array.
type Node struct {
	Kind   Kind
	Fields []Field
	Value  string
	Array  bool
}

// Field is a named child of an object node.
type Field struct {
	Name string
	Node *Node
}

// child returns the field named name, or nil.
func (n *Node) child(name string) *Node {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Node
		}
	}
	return nil
}
