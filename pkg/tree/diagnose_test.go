package tree

import "testing"

func recordIDs(t *testing.T, records []*Record) []int64 {
	t.Helper()
	out := make([]int64, len(records))
	for i, r := range records {
		v, _ := r.Get("id")
		id, err := ParseID(v)
		if err != nil {
			t.Fatalf("record without id: %v", err)
		}
		out[i] = id
	}
	return out
}

// TestDiagnoseSeparatesCyclesFromOrphans verifies dropped records are classified
func TestDiagnoseSeparatesCyclesFromOrphans(t *testing.T) {
	records := []*Record{
		RecordOf("id", 1),
		RecordOf("id", 2, "id_parent", 99), // missing parent
		RecordOf("id", 3, "id_parent", 2),  // hangs off an orphan
		RecordOf("id", 4, "id_parent", 5),  // 4 <-> 5
		RecordOf("id", 5, "id_parent", 4),
		RecordOf("id", 6, "id_parent", 6), // self reference
		RecordOf("id", 7, "id_parent", 4), // hangs off a cycle
	}
	b, _ := NewBuilder()
	_, report, err := b.BuildReport(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Dropped) != 6 {
		t.Fatalf("dropped = %d, want 6", len(report.Dropped))
	}

	diag := Diagnose(report.Dropped, b.FieldNames())
	if got := recordIDs(t, diag.Orphans); !equalIDs(got, []int64{2, 3, 7}) {
		t.Errorf("orphans = %v, want [2 3 7]", got)
	}
	if len(diag.Cycles) != 2 {
		t.Fatalf("cycles = %d, want 2", len(diag.Cycles))
	}
	if got := recordIDs(t, diag.Cycles[0]); !equalIDs(got, []int64{4, 5}) {
		t.Errorf("first cycle = %v", got)
	}
	if got := recordIDs(t, diag.Cycles[1]); !equalIDs(got, []int64{6}) {
		t.Errorf("second cycle = %v", got)
	}
}

// TestDiagnoseEmpty verifies nothing dropped means nothing to report
func TestDiagnoseEmpty(t *testing.T) {
	diag := Diagnose(nil, FieldNames{})
	if len(diag.Orphans) != 0 || len(diag.Cycles) != 0 {
		t.Errorf("diag = %+v", diag)
	}
}
