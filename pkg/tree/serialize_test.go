package tree

import (
	"bytes"
	"testing"
)

// TestSerializeFlatDepthFirst verifies children follow their parent as siblings
func TestSerializeFlatDepthFirst(t *testing.T) {
	forest, err := Build([]*Record{
		RecordOf("id", 1, "name", "A"),
		RecordOf("id", 2, "id_parent", 1, "name", "B", "expanded", 1),
		RecordOf("id", 3, "id_parent", 2, "name", "C"),
		RecordOf("id", 4, "name", "D", "is_group", true),
	}, FieldNames{})
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"id":1,"name":"A","is_group":1},` +
		`{"id":2,"name":"B","id_parent":1,"is_group":1,"expanded":1},` +
		`{"id":3,"name":"C","id_parent":2},` +
		`{"id":4,"name":"D","is_group":1}]`
	if got := forest.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	// The expanded flag tracks the current state, not the input.
	forest.FindByID(2).SetExpanded(false)
	forest.FindByID(1).SetExpanded(true)
	want = `[{"id":1,"name":"A","is_group":1,"expanded":1},` +
		`{"id":2,"name":"B","id_parent":1,"is_group":1},` +
		`{"id":3,"name":"C","id_parent":2},` +
		`{"id":4,"name":"D","is_group":1}]`
	var buf bytes.Buffer
	if _, err := forest.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != want {
		t.Errorf("got  %s\nwant %s", buf.String(), want)
	}
}

// TestSerializeCustomNames verifies emitted reserved keys use the configured names
func TestSerializeCustomNames(t *testing.T) {
	names := FieldNames{ParentID: "parent", IsGroup: "folder"}
	forest, err := Build([]*Record{
		RecordOf("id", 1),
		RecordOf("id", 2, "parent", 1),
	}, names)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":1,"folder":1},{"id":2,"parent":1}]`
	if got := forest.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestSerializeNodeSubtree verifies a single node serializes with its descendants
func TestSerializeNodeSubtree(t *testing.T) {
	forest := sampleForest(t)
	b, err := forest.FindByID(2).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":2,"name":"two","id_parent":1,"is_group":1},{"id":3,"name":"three","id_parent":2}]`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

// TestSerializeEmpty verifies an empty forest is an empty array
func TestSerializeEmpty(t *testing.T) {
	if got := (&Forest{}).String(); got != "[]" {
		t.Errorf("got %s", got)
	}
}

// TestSerializeDecodedValues verifies decoded numbers and nested objects are written back verbatim
func TestSerializeDecodedValues(t *testing.T) {
	records := decodeRecords(t, `[{"id":10,"meta":{"b":2,"a":[1,2.5,"x"]},"ratio":0.25}]`)
	forest, err := Build(records, FieldNames{})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":10,"meta":{"b":2,"a":[1,2.5,"x"]},"ratio":0.25}]`
	if got := forest.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
