package tree

import (
	"bytes"
	"io"
)

// The serialized form is a single JSON array in depth-first order. Each
// node is written as an object holding its retained fields, then the
// parent link, group flag and expanded flag when they apply; its children
// follow it as sibling array elements rather than nested inside it.

// stringer is a minimal streaming JSON writer. Errors are sticky.
type stringer struct {
	buf   bytes.Buffer
	comma []bool
	err   error
}

func (s *stringer) sep() {
	if k := len(s.comma); k > 0 {
		if s.comma[k-1] {
			s.buf.WriteByte(',')
		}
		s.comma[k-1] = true
	}
}

func (s *stringer) open(c byte) {
	s.sep()
	s.buf.WriteByte(c)
	s.comma = append(s.comma, false)
}

func (s *stringer) close(c byte) {
	s.buf.WriteByte(c)
	s.comma = s.comma[:len(s.comma)-1]
}

func (s *stringer) member(key string, value any) {
	if s.err != nil {
		return
	}
	s.sep()
	s.err = writeMember(&s.buf, key, value)
}

func (n *Node) writeTo(s *stringer) {
	s.open('{')
	n.writeBody(s)
	s.close('}')
	n.children.writeBody(s)
}

func (n *Node) writeBody(s *stringer) {
	for _, key := range n.fields.keys {
		s.member(key, n.fields.values[key])
	}
	if n.parentID != BadID {
		s.member(n.names.ParentID, n.parentID)
	}
	if n.group {
		s.member(n.names.IsGroup, 1)
	}
	if n.IsExpanded() {
		s.member(n.names.Expanded, 1)
	}
}

func (f *Forest) writeBody(s *stringer) {
	for _, n := range f.nodes {
		n.writeTo(s)
	}
}

// MarshalJSON serializes the forest as a flat depth-first array.
func (f *Forest) MarshalJSON() ([]byte, error) {
	s := &stringer{}
	s.open('[')
	if f != nil {
		f.writeBody(s)
	}
	s.close(']')
	if s.err != nil {
		return nil, s.err
	}
	return s.buf.Bytes(), nil
}

// WriteTo writes the serialized forest to w.
func (f *Forest) WriteTo(w io.Writer) (int64, error) {
	b, err := f.MarshalJSON()
	if err != nil {
		return 0, err
	}
	written, err := w.Write(b)
	return int64(written), err
}

// String returns the serialized forest, or an empty array on error.
func (f *Forest) String() string {
	b, err := f.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(b)
}

// MarshalJSON serializes the node and its subtree as a flat array.
func (n *Node) MarshalJSON() ([]byte, error) {
	s := &stringer{}
	s.open('[')
	n.writeTo(s)
	s.close(']')
	if s.err != nil {
		return nil, s.err
	}
	return s.buf.Bytes(), nil
}
