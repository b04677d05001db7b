package tree

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Diagnosis classifies the records a build dropped.
type Diagnosis struct {
	// Orphans never reached the tree because their parent chain ends at an
	// id no record carries, or feeds into a cycle.
	Orphans []*Record
	// Cycles are groups of records whose parent references loop back on
	// themselves. A self-referencing record forms a cycle of one.
	Cycles [][]*Record
}

// Diagnose explains why the records in dropped did not attach.
func Diagnose(dropped []*Record, names FieldNames) Diagnosis {
	names = names.WithDefaults()
	var diag Diagnosis
	if len(dropped) == 0 {
		return diag
	}

	byID := make(map[int64][]int)
	parents := make([]int64, len(dropped))
	for i, rec := range dropped {
		parents[i] = BadID
		if v, ok := rec.Get(names.ParentID); ok {
			if id, err := ParseID(v); err == nil {
				parents[i] = id
			}
		}
		if v, ok := rec.Get(names.ID); ok {
			if id, err := ParseID(v); err == nil && id != BadID {
				byID[id] = append(byID[id], i)
			}
		}
	}

	// Nodes are indexes into dropped; edges point from child to parent.
	g := simple.NewDirectedGraph()
	selfLoop := make(map[int]bool)
	for i := range dropped {
		g.AddNode(simple.Node(i))
	}
	for i, pid := range parents {
		for _, j := range byID[pid] {
			if i == j {
				selfLoop[i] = true
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
		}
	}

	inCycle := make(map[int]bool)
	var cycles [][]int
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) == 1 && !selfLoop[int(scc[0].ID())] {
			continue
		}
		members := make([]int, 0, len(scc))
		for _, n := range scc {
			idx := int(n.ID())
			members = append(members, idx)
			inCycle[idx] = true
		}
		sort.Ints(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(a, b int) bool { return cycles[a][0] < cycles[b][0] })

	for _, members := range cycles {
		group := make([]*Record, 0, len(members))
		for _, idx := range members {
			group = append(group, dropped[idx])
		}
		diag.Cycles = append(diag.Cycles, group)
	}
	for i, rec := range dropped {
		if !inCycle[i] {
			diag.Orphans = append(diag.Orphans, rec)
		}
	}
	return diag
}
