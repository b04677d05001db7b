package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 16 * 1024 * 1024

// DecodeJSON reads a JSON array of objects. A single top-level object is
// accepted as a one-record input.
func DecodeJSON(r io.Reader) ([]*tree.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '{' {
		rec := tree.NewRecord()
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, fmt.Errorf("parsing JSON object: %w", err)
		}
		return []*tree.Record{rec}, nil
	}

	var records []*tree.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON array: %w", err)
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("parsing JSON array: element %d is null", i)
		}
	}
	return records, nil
}

// DecodeJSONL reads one JSON object per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) ([]*tree.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []*tree.Record
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		rec := tree.NewRecord()
		if err := json.Unmarshal(text, rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	return records, nil
}
