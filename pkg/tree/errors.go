package tree

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a reserved field name that collides with
// another reserved name or with a field already present in a record.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: field %q %s", e.Field, e.Reason)
}

// MalformedFieldError reports a field value that cannot be coerced.
// Build never returns it; malformed ids degrade to BadID.
type MalformedFieldError struct {
	Field string
	Value any
	Want  string
}

func (e *MalformedFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed value %v (%T): want %s", e.Value, e.Value, e.Want)
	}
	return fmt.Sprintf("malformed field %q: value %v (%T): want %s", e.Field, e.Value, e.Value, e.Want)
}

// ValidateRecords checks records strictly: every record must carry a
// parseable id, a parent id that is absent, null or parseable, and no
// field named like the children container. All problems are returned
// joined; nil means the records are clean.
func ValidateRecords(records []*Record, names FieldNames) error {
	if err := names.Validate(); err != nil {
		return err
	}
	names = names.WithDefaults()

	var errs []error
	for i, rec := range records {
		if rec == nil {
			errs = append(errs, fmt.Errorf("record %d: nil", i))
			continue
		}
		if rec.Has(names.Children) {
			errs = append(errs, fmt.Errorf("record %d: %w", i, childrenCollision(names.Children)))
		}
		v, ok := rec.Get(names.ID)
		if !ok {
			errs = append(errs, fmt.Errorf("record %d: %w", i,
				&MalformedFieldError{Field: names.ID, Want: "integer"}))
		} else if _, err := ParseID(v); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, withField(err, names.ID)))
		}
		if pv, ok := rec.Get(names.ParentID); ok && pv != nil {
			if _, err := ParseID(pv); err != nil {
				errs = append(errs, fmt.Errorf("record %d: %w", i, withField(err, names.ParentID)))
			}
		}
	}
	return errors.Join(errs...)
}

func withField(err error, field string) error {
	var mf *MalformedFieldError
	if errors.As(err, &mf) {
		cp := *mf
		cp.Field = field
		return &cp
	}
	return err
}

func childrenCollision(name string) *ConfigurationError {
	return &ConfigurationError{Field: name, Reason: "is reserved for the children container"}
}
