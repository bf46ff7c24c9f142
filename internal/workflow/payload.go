package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ParseError reports a job document that is not valid JSON or not a JSON
// object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse job document: %v", e.Err)
	}
	return fmt.Sprintf("parse job document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Payload is a job document as read from disk. Keys the mutator does not
// understand are kept and re-encoded unchanged.
type Payload struct {
	doc map[string]any
}

// Load reads and parses the job document at path.
func Load(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job document: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes a job document. Numbers keep their literal form.
func Parse(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("unexpected data after top-level value")}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("top-level value is %s, want object", kindOf(doc))}
	}
	return &Payload{doc: obj}, nil
}

// MarshalJSON encodes the full document, including any mutations.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil || p.doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.doc)
}

// Workflow returns the mapping at input.workflow. ok is false when the path
// is missing, is not an object or is empty.
func (p *Payload) Workflow() (Workflow, bool) {
	if p == nil {
		return Workflow{}, false
	}
	input, ok := lookupObject(p.doc, "input")
	if !ok {
		return Workflow{}, false
	}
	nodes, ok := lookupObject(input, "workflow")
	if !ok || len(nodes) == 0 {
		return Workflow{}, false
	}
	return Workflow{nodes: nodes}, true
}

// Workflow maps node ids to node descriptors.
type Workflow struct {
	nodes map[string]any
}

// Nodes returns the well-formed nodes sorted by id, plus the ids of entries
// that are not objects.
func (w Workflow) Nodes() (nodes []Node, invalid []string) {
	ids := make([]string, 0, len(w.nodes))
	for id := range w.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fields, ok := w.nodes[id].(map[string]any)
		if !ok {
			invalid = append(invalid, id)
			continue
		}
		nodes = append(nodes, Node{ID: id, fields: fields})
	}
	return nodes, invalid
}

// Node returns the node with the given id.
func (w Workflow) Node(id string) (Node, bool) {
	fields, ok := w.nodes[id].(map[string]any)
	if !ok {
		return Node{}, false
	}
	return Node{ID: id, fields: fields}, true
}

// Node is a view over one workflow node descriptor. Writes go straight to the
// underlying document.
type Node struct {
	ID     string
	fields map[string]any
}

// ClassType returns the node's class_type tag.
func (n Node) ClassType() (string, bool) {
	v, ok := n.fields["class_type"].(string)
	return v, ok
}

// Title returns _meta.title.
func (n Node) Title() (string, bool) {
	meta, ok := lookupObject(n.fields, "_meta")
	if !ok {
		return "", false
	}
	title, ok := meta["title"].(string)
	return title, ok
}

// Input returns inputs[name]. ok reports whether the key exists, even when its
// value is null.
func (n Node) Input(name string) (any, bool) {
	inputs, ok := lookupObject(n.fields, "inputs")
	if !ok {
		return nil, false
	}
	v, ok := inputs[name]
	return v, ok
}

// SetInput overwrites an existing inputs[name]. It never creates the key.
func (n Node) SetInput(name string, value any) bool {
	inputs, ok := lookupObject(n.fields, "inputs")
	if !ok {
		return false
	}
	if _, exists := inputs[name]; !exists {
		return false
	}
	inputs[name] = value
	return true
}

func lookupObject(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key].(map[string]any)
	return v, ok
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
