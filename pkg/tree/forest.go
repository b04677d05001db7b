package tree

// Forest is an ordered sequence of nodes. It is both the top-level
// container of a tree and the child list of every node, so lookup,
// counting and flattening work the same at every level.
type Forest struct {
	nodes []*Node
}

// Len returns the number of direct entries.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// At returns the i-th direct entry, or nil when out of range.
func (f *Forest) At(i int) *Node {
	if f == nil || i < 0 || i >= len(f.nodes) {
		return nil
	}
	return f.nodes[i]
}

// Nodes returns the direct entries.
func (f *Forest) Nodes() []*Node {
	if f == nil {
		return nil
	}
	out := make([]*Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Append adds a root entry.
func (f *Forest) Append(n *Node) {
	if n == nil {
		return
	}
	f.nodes = append(f.nodes, n)
}

// FindByID returns the first node with the given id, searching each entry
// depth-first in order.
func (f *Forest) FindByID(id int64) *Node {
	if f == nil {
		return nil
	}
	for _, n := range f.nodes {
		if found := n.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// NodeAt returns the node at an absolute pre-order position, counting
// every node whether or not its ancestors are expanded.
func (f *Forest) NodeAt(position int) *Node {
	if f == nil || position < 0 {
		return nil
	}
	for _, n := range f.nodes {
		size := 1 + n.IndirectChildrenCount()
		if position < size {
			return n.NodeAt(position)
		}
		position -= size
	}
	return nil
}

// IndirectChildrenCount counts every node at every depth.
func (f *Forest) IndirectChildrenCount() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, n := range f.nodes {
		count += 1 + n.IndirectChildrenCount()
	}
	return count
}

// VisibleCount is the length of the visible sequence.
func (f *Forest) VisibleCount() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, n := range f.nodes {
		count += n.VisibleCount()
	}
	return count
}

// VisibleNodeAt returns the node at a position of the visible sequence,
// or nil when position is out of range.
func (f *Forest) VisibleNodeAt(position int) *Node {
	if f == nil || position < 0 {
		return nil
	}
	for _, n := range f.nodes {
		count := n.VisibleCount()
		if position < count {
			return n.VisibleNodeAt(position)
		}
		position -= count
	}
	return nil
}

// VisibleIDAt returns the id of the node at a visible position, or BadID.
func (f *Forest) VisibleIDAt(position int) int64 {
	if n := f.VisibleNodeAt(position); n != nil {
		return n.ID()
	}
	return BadID
}

// VisiblePosition returns the visible position of target, or -1 when it
// is hidden under a collapsed ancestor or not in the forest.
func (f *Forest) VisiblePosition(target *Node) int {
	if f == nil || target == nil {
		return -1
	}
	pos := 0
	if visiblePosition(f, target, &pos) {
		return pos
	}
	return -1
}

func visiblePosition(f *Forest, target *Node, pos *int) bool {
	for _, n := range f.nodes {
		if n == target {
			return true
		}
		*pos++
		if n.IsExpanded() && visiblePosition(&n.children, target, pos) {
			return true
		}
	}
	return false
}

// Walk visits every node in pre-order regardless of expansion. Returning
// false from fn stops the walk.
func (f *Forest) Walk(fn func(*Node) bool) {
	if f == nil {
		return
	}
	walk(f, fn)
}

func walk(f *Forest, fn func(*Node) bool) bool {
	for _, n := range f.nodes {
		if !fn(n) {
			return false
		}
		if !walk(&n.children, fn) {
			return false
		}
	}
	return true
}

// SetAllExpanded expands or collapses every group and returns how many
// changed state.
func (f *Forest) SetAllExpanded(expanded bool) int {
	changed := 0
	f.Walk(func(n *Node) bool {
		if n.SetExpanded(expanded) {
			changed++
		}
		return true
	})
	return changed
}
