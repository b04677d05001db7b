package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BadID marks an absent or unresolvable identifier.
const BadID int64 = -1

// Default reserved field names.
const (
	DefaultIDField       = "id"
	DefaultParentIDField = "id_parent"
	DefaultIsGroupField  = "is_group"
	DefaultExpandedField = "expanded"
	DefaultChildrenField = "TreeViewChildren"
)

// FieldNames configures which record fields carry structure.
// Empty names fall back to the defaults.
type FieldNames struct {
	ID       string `yaml:"id,omitempty" json:"id,omitempty"`
	ParentID string `yaml:"id_parent,omitempty" json:"id_parent,omitempty"`
	IsGroup  string `yaml:"is_group,omitempty" json:"is_group,omitempty"`
	Expanded string `yaml:"expanded,omitempty" json:"expanded,omitempty"`
	Children string `yaml:"children,omitempty" json:"children,omitempty"`
}

// DefaultFieldNames returns the stock field names.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		ID:       DefaultIDField,
		ParentID: DefaultParentIDField,
		IsGroup:  DefaultIsGroupField,
		Expanded: DefaultExpandedField,
		Children: DefaultChildrenField,
	}
}

// WithDefaults fills every empty name with its default.
func (f FieldNames) WithDefaults() FieldNames {
	d := DefaultFieldNames()
	if f.ID == "" {
		f.ID = d.ID
	}
	if f.ParentID == "" {
		f.ParentID = d.ParentID
	}
	if f.IsGroup == "" {
		f.IsGroup = d.IsGroup
	}
	if f.Expanded == "" {
		f.Expanded = d.Expanded
	}
	if f.Children == "" {
		f.Children = d.Children
	}
	return f
}

// Validate checks that no two reserved names coincide once defaults are applied.
func (f FieldNames) Validate() error {
	f = f.WithDefaults()
	named := []struct{ role, name string }{
		{"id", f.ID},
		{"id_parent", f.ParentID},
		{"is_group", f.IsGroup},
		{"expanded", f.Expanded},
		{"children", f.Children},
	}
	seen := make(map[string]string, len(named))
	for _, n := range named {
		if other, ok := seen[n.name]; ok {
			return &ConfigurationError{
				Field:  n.name,
				Reason: fmt.Sprintf("used for both %s and %s", other, n.role),
			}
		}
		seen[n.name] = n.role
	}
	return nil
}

// ParseID coerces a field value into an identifier.
// Integers, integral floats, json.Number and numeric strings are accepted.
func ParseID(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			break
		}
		return int64(x), nil
	case float32:
		return floatID(float64(x))
	case float64:
		return floatID(x)
	case string:
		return stringID(x)
	case interface{ String() string }:
		// json.Number from either decoder
		return stringID(x.String())
	}
	return BadID, &MalformedFieldError{Value: v, Want: "integer"}
}

// floatID accepts integral values in [-2^63, 2^63).
func floatID(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f >= 1<<63 || f < -(1<<63) {
		return BadID, &MalformedFieldError{Value: f, Want: "integer"}
	}
	return int64(f), nil
}

func stringID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatID(f)
	}
	return BadID, &MalformedFieldError{Value: s, Want: "integer"}
}

// ParseFlag reports whether a field value is true-like: true, a nonzero
// number, or a string holding either.
func ParseFlag(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		s := strings.TrimSpace(x)
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return false
	case float32:
		return x != 0
	case float64:
		return x != 0
	case interface{ String() string }:
		return ParseFlag(x.String())
	}
	if id, err := ParseID(v); err == nil {
		return id != 0
	}
	return false
}
