package tree

// Node is one element of the tree: structural metadata, the retained
// application fields of its record, and an ordered list of children.
//
// A Node owns its children exclusively. The parent is remembered only as
// an id, never as a pointer.
type Node struct {
	names    *FieldNames
	fields   *Record
	id       int64
	parentID int64
	level    int
	group    bool
	expanded bool
	last     bool
	children Forest
}

// NewNode builds a detached node from rec. Every field except the
// parent link is retained; the group and expanded flags are consumed into
// the node's state. A record carrying a field named like the children
// container is rejected with a *ConfigurationError.
func NewNode(rec *Record, names FieldNames) (*Node, error) {
	names = names.WithDefaults()
	return newNode(rec, &names)
}

func newNode(rec *Record, names *FieldNames) (*Node, error) {
	n := &Node{
		names:    names,
		fields:   NewRecord(),
		id:       BadID,
		parentID: BadID,
	}
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		switch key {
		case names.Children:
			return nil, childrenCollision(key)
		case "", names.ParentID:
			continue
		case names.IsGroup:
			n.group = ParseFlag(v)
			continue
		case names.Expanded:
			n.expanded = ParseFlag(v)
			continue
		}
		if nested, ok := v.(*Record); ok {
			v = nested.Clone()
		}
		n.fields.Set(key, v)
	}
	if v, ok := n.fields.Get(names.ID); ok {
		if id, err := ParseID(v); err == nil {
			n.id = id
		}
	}
	return n, nil
}

// ID returns the node's identifier, or BadID when the id field is
// missing or malformed.
func (n *Node) ID() int64 { return n.id }

// ParentID returns the id of the node this one is attached to, or BadID
// for roots.
func (n *Node) ParentID() int64 { return n.parentID }

// Level is the depth of the node: 0 for roots.
func (n *Node) Level() int { return n.level }

// IsGroup reports whether the node has ever had children or was flagged
// as a group on input. Once set it stays set.
func (n *Node) IsGroup() bool { return n.group }

// IsExpanded reports whether the node is a group showing its children.
func (n *Node) IsExpanded() bool { return n.group && n.expanded }

// IsCollapsed reports whether the node is a group hiding its children.
func (n *Node) IsCollapsed() bool { return n.group && !n.expanded }

// IsLast reports whether the node is the last child of its parent.
// Roots never carry the flag.
func (n *Node) IsLast() bool { return n.last }

// HasChildren reports whether at least one child is attached.
func (n *Node) HasChildren() bool { return n.children.Len() > 0 }

// Children returns the node's child list. Add children with AttachChild;
// appending to the returned Forest directly bypasses the level and
// last-sibling bookkeeping.
func (n *Node) Children() *Forest { return &n.children }

// Field returns one retained field value.
func (n *Node) Field(name string) (any, bool) { return n.fields.Get(name) }

// Fields returns a copy of the retained fields in input order.
func (n *Node) Fields() *Record { return n.fields.Clone() }

// AttachChild appends child, makes it the last sibling, and re-levels its
// whole subtree.
func (n *Node) AttachChild(child *Node) {
	if child == nil {
		return
	}
	if k := len(n.children.nodes); k > 0 {
		n.children.nodes[k-1].last = false
	}
	child.parentID = n.id
	child.last = true
	n.children.nodes = append(n.children.nodes, child)
	child.relevel(n.level + 1)
	n.group = true
}

func (n *Node) relevel(level int) {
	n.level = level
	for _, c := range n.children.nodes {
		c.relevel(level + 1)
	}
}

// FindByID searches this subtree depth-first, self first.
// BadID never matches.
func (n *Node) FindByID(id int64) *Node {
	if id == BadID {
		return nil
	}
	if n.id == id {
		return n
	}
	return n.children.FindByID(id)
}

// NodeAt returns the node at an absolute pre-order position within this
// subtree, ignoring expansion. Position 0 is the node itself.
func (n *Node) NodeAt(position int) *Node {
	if position < 0 {
		return nil
	}
	if position == 0 {
		return n
	}
	return n.children.NodeAt(position - 1)
}

// IndirectChildrenCount counts all descendants regardless of expansion.
func (n *Node) IndirectChildrenCount() int {
	return n.children.IndirectChildrenCount()
}

// VisibleCount is the number of rows the subtree occupies: 1 for a leaf
// or a collapsed group, 1 plus the children's rows for an expanded group.
// It is computed on every call.
func (n *Node) VisibleCount() int {
	count := 1
	if n.IsExpanded() {
		count += n.children.VisibleCount()
	}
	return count
}

// VisibleNodeAt returns the node at a position of the subtree's visible
// sequence. Collapsed groups are opaque.
func (n *Node) VisibleNodeAt(position int) *Node {
	if position < 0 {
		return nil
	}
	if position == 0 {
		return n
	}
	if !n.IsExpanded() {
		return nil
	}
	return n.children.VisibleNodeAt(position - 1)
}

// SetExpanded changes the expansion state of a group. It returns false
// when the node is not a group or already in the requested state, so the
// caller knows whether the row count has to be refreshed.
func (n *Node) SetExpanded(expanded bool) bool {
	if !n.group || n.expanded == expanded {
		return false
	}
	n.expanded = expanded
	return true
}
