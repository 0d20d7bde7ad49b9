package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Spec is the declarative description of which fields and relations to
// fetch. Each entry is either a leaf (include the field, expanding it if
// its wire type requires expansion) or a nested spec (include the
// relation, recursing into the referenced table).
//
// Entry order is preserved from the caller, which keeps compiled
// documents deterministic.
type Spec struct {
	entries []Entry
	index   map[string]int
}

// Entry is one selection key. Nested == nil marks a leaf.
type Entry struct {
	Name   string
	Nested *Spec
}

// New returns an empty spec.
func New() *Spec {
	return &Spec{index: make(map[string]int)}
}

// Leaf appends a leaf selection and returns the spec for chaining.
// Re-adding an existing name is a no-op.
func (s *Spec) Leaf(name string) *Spec {
	return s.add(Entry{Name: name})
}

// Relation appends a relation selection with its nested spec.
func (s *Spec) Relation(name string, nested *Spec) *Spec {
	return s.add(Entry{Name: name, Nested: nested})
}

func (s *Spec) add(e Entry) *Spec {
	if _, ok := s.index[e.Name]; ok {
		return s
	}
	s.index[e.Name] = len(s.entries)
	s.entries = append(s.entries, e)
	return s
}

// Entries returns the selection keys in insertion order.
func (s *Spec) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Len returns the number of selection keys.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// UnmarshalJSON decodes the wire form of a spec:
//
//	{"id": true, "supplier": {"select": {"id": true}}}
//
// Keys keep their document order. Any value other than true or a
// single-key {"select": …} object is rejected here, at the boundary,
// rather than tolerated at use sites.
func (s *Spec) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	parsed, err := parseSpec(dec)
	if err != nil {
		return err
	}
	if tok, err := dec.Token(); err == nil {
		return fmt.Errorf("selection spec: unexpected trailing %v", tok)
	}
	*s = *parsed
	return nil
}

func parseSpec(dec *json.Decoder) (*Spec, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("selection spec: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("selection spec: expected object, got %v", tok)
	}

	spec := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("selection spec: %w", err)
		}
		name := keyTok.(string)
		if _, ok := spec.index[name]; ok {
			return nil, fmt.Errorf("selection spec: duplicate key %q", name)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("selection spec: key %q: %w", name, err)
		}
		switch v := valTok.(type) {
		case bool:
			if !v {
				return nil, fmt.Errorf("selection spec: key %q: value must be true or {\"select\": …}", name)
			}
			spec.Leaf(name)
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("selection spec: key %q: value must be true or {\"select\": …}", name)
			}
			nested, err := parseSelectWrapper(dec, name)
			if err != nil {
				return nil, err
			}
			spec.Relation(name, nested)
		default:
			return nil, fmt.Errorf("selection spec: key %q: value must be true or {\"select\": …}", name)
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, fmt.Errorf("selection spec: %w", err)
	}
	return spec, nil
}

// parseSelectWrapper consumes the body of a {"select": {…}} object whose
// opening brace has already been read.
func parseSelectWrapper(dec *json.Decoder, name string) (*Spec, error) {
	if !dec.More() {
		return nil, fmt.Errorf("selection spec: key %q: missing \"select\"", name)
	}
	keyTok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("selection spec: key %q: %w", name, err)
	}
	if key, _ := keyTok.(string); key != "select" {
		return nil, fmt.Errorf("selection spec: key %q: unexpected key %v, want \"select\"", name, keyTok)
	}
	nested, err := parseSpec(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("selection spec: key %q: extra keys besides \"select\"", name)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, fmt.Errorf("selection spec: key %q: %w", name, err)
	}
	return nested, nil
}

// MarshalJSON renders the wire form back out, preserving entry order.
func (s *Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if e.Nested == nil {
			buf.WriteString("true")
		} else {
			buf.WriteString(`{"select":`)
			nested, err := e.Nested.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(nested)
			buf.WriteByte('}')
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
