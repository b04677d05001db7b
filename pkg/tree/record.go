// Package tree implements the hierarchical model behind the tree view:
// flat records are resolved into a Forest of Nodes, and the Forest is
// projected into a position-addressable visible sequence for list
// renderers.
package tree

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Record is an insertion-ordered mapping from field name to value.
// It is the unit of input to Build and the field bag kept by every Node.
//
// Values decoded from JSON are json.Number, string, bool, nil, []any or
// *Record for nested objects.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// RecordOf builds a record from alternating key/value pairs.
// It panics if kv has odd length or a key is not a string; it is meant for
// literals in tests and examples.
func RecordOf(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("tree.RecordOf: odd number of arguments")
	}
	r := NewRecord()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.RecordOf: key %v is not a string", kv[i]))
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Set stores value under key. Overwriting an existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining keys.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a shallow copy; nested *Record values are cloned too.
func (r *Record) Clone() *Record {
	out := NewRecord()
	if r == nil {
		return out
	}
	for _, k := range r.keys {
		v := r.values[k]
		if nested, ok := v.(*Record); ok {
			v = nested.Clone()
		}
		out.Set(k, v)
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil {
		for i, k := range r.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(&buf, k, r.values[k]); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	*r = *decoded
	return nil
}

// decodeObject reads members until the closing brace. The opening brace
// has already been consumed.
func decodeObject(dec *json.Decoder) (*Record, error) {
	r := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return r, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			if arr == nil {
				arr = []any{}
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	default:
		return tok, nil
	}
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}
