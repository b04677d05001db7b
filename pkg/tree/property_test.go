package tree

import (
	"testing"

	"pgregory.net/rapid"
)

// genRecords draws n records with ids 1..n. Each parent is either absent,
// one of the ids (forward, backward, self or cyclic) or a missing id.
// It returns the records in a random order along with the parent map.
func genRecords(t *rapid.T) ([]*Record, map[int64]int64) {
	n := rapid.IntRange(0, 30).Draw(t, "n")
	parents := make(map[int64]int64, n)
	records := make([]*Record, 0, n)
	for id := int64(1); id <= int64(n); id++ {
		choice := rapid.IntRange(-1, n).Draw(t, "parent")
		rec := RecordOf("id", id)
		switch {
		case choice == -1:
			parents[id] = BadID
		case choice == 0:
			parents[id] = 1000 + id
			rec.Set("id_parent", 1000+id)
		default:
			parents[id] = int64(choice)
			rec.Set("id_parent", choice)
		}
		records = append(records, rec)
	}
	return rapid.Permutation(records).Draw(t, "order"), parents
}

// reachable computes which ids have a parent chain ending at a root.
func reachable(parents map[int64]int64) map[int64]bool {
	ok := make(map[int64]bool)
	for id := range parents {
		seen := map[int64]bool{}
		cur := id
		for {
			p, exists := parents[cur]
			if !exists || seen[cur] {
				break
			}
			if p == BadID {
				ok[id] = true
				break
			}
			seen[cur] = true
			cur = p
		}
	}
	return ok
}

func checkStructure(t *rapid.T, f *Forest, level int, parentID int64) {
	for i, n := range f.nodes {
		if n.Level() != level {
			t.Fatalf("node %d level %d, want %d", n.ID(), n.Level(), level)
		}
		if n.ParentID() != parentID {
			t.Fatalf("node %d parent %d, want %d", n.ID(), n.ParentID(), parentID)
		}
		if level > 0 && n.IsLast() != (i == len(f.nodes)-1) {
			t.Fatalf("node %d last=%v at %d of %d", n.ID(), n.IsLast(), i, len(f.nodes))
		}
		if n.HasChildren() && !n.IsGroup() {
			t.Fatalf("node %d has children but is not a group", n.ID())
		}
		checkStructure(t, &n.children, level+1, n.ID())
	}
}

// TestPropertyBuild verifies completeness, orphan dropping and structural invariants
func TestPropertyBuild(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records, parents := genRecords(t)
		b, err := NewBuilder()
		if err != nil {
			t.Fatal(err)
		}
		forest, report, err := b.BuildReport(records)
		if err != nil {
			t.Fatal(err)
		}

		want := reachable(parents)
		if got := forest.IndirectChildrenCount(); got != len(want) {
			t.Fatalf("attached %d nodes, want %d", got, len(want))
		}
		if report.Attached != len(want) || report.Attached+len(report.Dropped) != len(records) {
			t.Fatalf("report %+v inconsistent with %d reachable of %d", report, len(want), len(records))
		}
		for id := range parents {
			found := forest.FindByID(id) != nil
			if found != want[id] {
				t.Fatalf("id %d found=%v reachable=%v", id, found, want[id])
			}
		}
		checkStructure(t, forest, 0, BadID)
	})
}

// visibleWalk lists the visible sequence by direct recursion.
func visibleWalk(f *Forest, out []*Node) []*Node {
	for _, n := range f.nodes {
		out = append(out, n)
		if n.IsExpanded() {
			out = visibleWalk(&n.children, out)
		}
	}
	return out
}

// TestPropertyVisibleIndexing verifies every row maps to a distinct node in pre-order
// and collapsing a group removes exactly its hidden rows
func TestPropertyVisibleIndexing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records, _ := genRecords(t)
		forest, err := Build(records, FieldNames{})
		if err != nil {
			t.Fatal(err)
		}
		forest.Walk(func(n *Node) bool {
			n.SetExpanded(rapid.Bool().Draw(t, "expanded"))
			return true
		})

		rows := visibleWalk(forest, nil)
		count := forest.VisibleCount()
		if count != len(rows) {
			t.Fatalf("count %d, walk %d", count, len(rows))
		}
		seen := make(map[*Node]bool, count)
		for pos := 0; pos < count; pos++ {
			n := forest.VisibleNodeAt(pos)
			if n == nil || n != rows[pos] {
				t.Fatalf("row %d mismatch", pos)
			}
			if seen[n] {
				t.Fatalf("row %d repeats node %d", pos, n.ID())
			}
			seen[n] = true
		}
		if forest.VisibleNodeAt(count) != nil {
			t.Fatal("row past the end")
		}

		var groups []*Node
		for _, n := range rows {
			if n.IsExpanded() {
				groups = append(groups, n)
			}
		}
		if len(groups) == 0 {
			return
		}
		g := rapid.SampledFrom(groups).Draw(t, "group")
		subtree := g.VisibleCount()
		if !g.SetExpanded(false) {
			t.Fatal("collapse reported no change")
		}
		if got := forest.VisibleCount(); got != count-(subtree-1) {
			t.Fatalf("collapsed count %d, want %d", got, count-(subtree-1))
		}
		g.SetExpanded(true)
		if got := forest.VisibleCount(); got != count {
			t.Fatalf("re-expanded count %d, want %d", got, count)
		}
	})
}
