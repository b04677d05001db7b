package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// DecodeYAML reads a YAML sequence of mappings. Mapping order is kept by
// walking the node tree instead of decoding into Go maps.
func DecodeYAML(r io.Reader) ([]*tree.Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parsing YAML: line %d: expected a sequence of records", root.Line)
	}

	records := make([]*tree.Record, 0, len(root.Content))
	for _, item := range root.Content {
		v, err := yamlValue(item)
		if err != nil {
			return nil, err
		}
		rec, ok := v.(*tree.Record)
		if !ok {
			return nil, fmt.Errorf("parsing YAML: line %d: record is not a mapping", item.Line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		rec := tree.NewRecord()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("parsing YAML: line %d: non-scalar key", key.Line)
			}
			v, err := yamlValue(val)
			if err != nil {
				return nil, err
			}
			rec.Set(key.Value, v)
		}
		return rec, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("parsing YAML: line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("parsing YAML: line %d: unsupported node", n.Line)
}
