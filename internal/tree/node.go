package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies which variant of the JSON value a Node holds.
type Kind int

const (
	// Scalar is a string, number, boolean or null.
	Scalar Kind = iota
	// Mapping is a JSON object. Keys keep document order.
	Mapping
	// Sequence is a JSON array.
	Sequence
)

// Node is a parsed JSON value that remembers the order of object keys.
//
// For a Mapping, Keys and Values are parallel slices. For a Sequence, Values
// holds the elements. For a Scalar, Value holds a string, json.Number, bool or
// nil.
type Node struct {
	Kind   Kind
	Keys   []string
	Values []*Node
	Value  any
}

// Parse decodes exactly one JSON document into an ordered tree.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("trailing data: %w", err)
		}
		return nil, errors.New("trailing data after JSON document")
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return &Node{Kind: Scalar, Value: tok}, nil
	}

	switch delim {
	case '{':
		node := &Node{Kind: Mapping}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			node.set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return node, nil
	case '[':
		node := &Node{Kind: Sequence}
		for dec.More() {
			value, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			node.Values = append(node.Values, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// set stores value under key. A repeated key replaces the earlier value but
// keeps its original position.
func (n *Node) set(key string, value *Node) {
	for i, existing := range n.Keys {
		if existing == key {
			n.Values[i] = value
			return
		}
	}
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, value)
}

// Get returns the value stored under key, or nil when n is not a mapping or
// has no such key.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != Mapping {
		return nil
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i]
		}
	}
	return nil
}

// Has reports whether n is a mapping containing key.
func (n *Node) Has(key string) bool {
	if n == nil || n.Kind != Mapping {
		return false
	}
	for _, k := range n.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Path follows a chain of mapping keys. Any missing link yields nil.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, key := range keys {
		cur = cur.Get(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Text returns the textual form of a string or number scalar.
func (n *Node) Text() (string, bool) {
	if n == nil || n.Kind != Scalar {
		return "", false
	}
	switch v := n.Value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Elements returns the items of a sequence, or nil for any other kind.
func (n *Node) Elements() []*Node {
	if n == nil || n.Kind != Sequence {
		return nil
	}
	return n.Values
}

// TypeName returns the `_type._name` tag used by xcresult documents.
func (n *Node) TypeName() string {
	name, _ := n.Path("_type", "_name").Text()
	return name
}
