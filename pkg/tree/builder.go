package tree

import (
	"log/slog"
)

// Builder resolves flat records into a Forest.
//
// Records may reference a parent that appears later in the input, so the
// build runs a first pass in input order and then retries the deferred
// records until a full pass attaches nothing. Whatever is still pending at
// that point (missing parents, cycles) is dropped without error.
type Builder struct {
	names  FieldNames
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithFieldNames overrides the reserved field names.
func WithFieldNames(names FieldNames) Option {
	return func(b *Builder) { b.names = names }
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder returns a Builder, or a *ConfigurationError when the field
// names collide.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		names:  DefaultFieldNames(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.names.Validate(); err != nil {
		return nil, err
	}
	b.names = b.names.WithDefaults()
	return b, nil
}

// FieldNames returns the effective field names.
func (b *Builder) FieldNames() FieldNames { return b.names }

// Report describes the outcome of a build.
type Report struct {
	Input    int       // non-nil records given
	Skipped  int       // nil records, ignored
	Attached int       // records that became nodes
	Passes   int       // passes over the input, the first included
	Dropped  []*Record // records whose parent never resolved, in input order
}

// Build converts records into a Forest using names, with empty entries
// taking the default field names.
func Build(records []*Record, names FieldNames) (*Forest, error) {
	b, err := NewBuilder(WithFieldNames(names))
	if err != nil {
		return nil, err
	}
	return b.Build(records)
}

// Build converts records into a Forest.
func (b *Builder) Build(records []*Record) (*Forest, error) {
	forest, _, err := b.BuildReport(records)
	return forest, err
}

// BuildReport converts records into a Forest and reports what was dropped.
// A *ConfigurationError from any record aborts the build.
func (b *Builder) BuildReport(records []*Record) (*Forest, *Report, error) {
	forest := &Forest{}
	report := &Report{}

	var pending []int
	for i, rec := range records {
		if rec == nil {
			report.Skipped++
			continue
		}
		report.Input++
		ok, err := b.tryAttach(forest, rec)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			report.Attached++
		} else {
			pending = append(pending, i)
		}
	}
	report.Passes = 1

	progressed := true
	for progressed && len(pending) > 0 {
		progressed = false
		report.Passes++
		remaining := pending[:0]
		for _, i := range pending {
			ok, err := b.tryAttach(forest, records[i])
			if err != nil {
				return nil, nil, err
			}
			if ok {
				report.Attached++
				progressed = true
			} else {
				remaining = append(remaining, i)
			}
		}
		pending = remaining
	}

	for _, i := range pending {
		report.Dropped = append(report.Dropped, records[i])
	}
	if len(report.Dropped) > 0 {
		b.logger.Debug("dropped records with unresolved parents",
			"dropped", len(report.Dropped),
			"attached", report.Attached,
			"passes", report.Passes)
	}
	return forest, report, nil
}

// tryAttach places rec as a root or under its parent. It returns false
// when the parent is not in the forest yet.
func (b *Builder) tryAttach(forest *Forest, rec *Record) (bool, error) {
	parentID := BadID
	if v, ok := rec.Get(b.names.ParentID); ok {
		if id, err := ParseID(v); err == nil {
			parentID = id
		}
	}
	if parentID == BadID {
		n, err := newNode(rec, &b.names)
		if err != nil {
			return false, err
		}
		forest.Append(n)
		return true, nil
	}

	parent := forest.FindByID(parentID)
	if parent == nil {
		return false, nil
	}
	n, err := newNode(rec, &b.names)
	if err != nil {
		return false, err
	}
	parent.AttachChild(n)
	return true, nil
}
