package tree

// Adapter is the surface a list renderer talks to: row count, row lookup
// by position, stable ids and expansion toggling. It fires its change
// listener whenever a toggle actually changes the visible sequence.
type Adapter struct {
	forest   *Forest
	names    FieldNames
	onChange func()
}

// NewAdapter wraps forest. names should be the names the forest was built
// with; they decide whether ids are stable.
func NewAdapter(forest *Forest, names FieldNames) *Adapter {
	if forest == nil {
		forest = &Forest{}
	}
	return &Adapter{forest: forest, names: names.WithDefaults()}
}

// OnChange registers fn to run after every effective expand or collapse.
func (a *Adapter) OnChange(fn func()) { a.onChange = fn }

// Forest returns the wrapped forest.
func (a *Adapter) Forest() *Forest { return a.forest }

// FieldNames returns the reserved names in use.
func (a *Adapter) FieldNames() FieldNames { return a.names }

// HasStableIDs reports whether rows carry ids that survive rebuilds.
func (a *Adapter) HasStableIDs() bool { return a.names.ID != "" }

// Count returns the number of visible rows.
func (a *Adapter) Count() int { return a.forest.VisibleCount() }

// Node returns the node shown at position, or nil.
func (a *Adapter) Node(position int) *Node { return a.forest.VisibleNodeAt(position) }

// ItemID returns the id shown at position, or BadID.
func (a *Adapter) ItemID(position int) int64 { return a.forest.VisibleIDAt(position) }

// FindByID looks a node up anywhere in the forest.
func (a *Adapter) FindByID(id int64) *Node { return a.forest.FindByID(id) }

// Position returns the visible position of n, or -1.
func (a *Adapter) Position(n *Node) int { return a.forest.VisiblePosition(n) }

// SetExpanded expands or collapses the node at position.
func (a *Adapter) SetExpanded(position int, expanded bool) bool {
	return a.SetNodeExpanded(a.Node(position), expanded)
}

// SetNodeExpanded expands or collapses n and reports whether anything changed.
func (a *Adapter) SetNodeExpanded(n *Node, expanded bool) bool {
	if n == nil || !n.SetExpanded(expanded) {
		return false
	}
	a.notify()
	return true
}

// Expand expands the node at position.
func (a *Adapter) Expand(position int) bool { return a.SetExpanded(position, true) }

// Collapse collapses the node at position.
func (a *Adapter) Collapse(position int) bool { return a.SetExpanded(position, false) }

// Toggle flips the node at position.
func (a *Adapter) Toggle(position int) bool {
	n := a.Node(position)
	if n == nil {
		return false
	}
	return a.SetNodeExpanded(n, !n.IsExpanded())
}

// SetAllExpanded expands or collapses every group.
func (a *Adapter) SetAllExpanded(expanded bool) int {
	changed := a.forest.SetAllExpanded(expanded)
	if changed > 0 {
		a.notify()
	}
	return changed
}

// String returns the flat serialization of the forest.
func (a *Adapter) String() string { return a.forest.String() }

func (a *Adapter) notify() {
	if a.onChange != nil {
		a.onChange()
	}
}
