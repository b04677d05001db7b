// Package loader reads flat node records from files.
//
// Supported sources are a JSON array of objects, JSON Lines, a YAML
// sequence of mappings and a table in a SQLite database. Field order is
// preserved in every format so serialized output follows the input.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "nodes"

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatAuto, FormatJSON, FormatJSONL, FormatYAML, FormatSQLite, "":
		return true
	}
	return false
}

// Options controls how files are read.
type Options struct {
	Format Format       // FormatAuto (or empty) picks by extension
	Table  string       // SQLite table, default DefaultTable
	Logger *slog.Logger // nil means slog.Default()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) table() string {
	if o.Table != "" {
		return o.Table
	}
	return DefaultTable
}

// DetectFormat picks a format from the file extension. Unknown
// extensions are treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// Load reads all records from path.
func Load(path string, opts Options) ([]*tree.Record, error) {
	return LoadContext(context.Background(), path, opts)
}

// LoadContext reads all records from path; ctx bounds SQLite queries.
func LoadContext(ctx context.Context, path string, opts Options) ([]*tree.Record, error) {
	format := opts.Format
	if !format.IsValid() {
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}

	var (
		records []*tree.Record
		err     error
	)
	if format == FormatSQLite {
		records, err = LoadSQLite(ctx, path, opts.table())
	} else {
		records, err = loadFile(path, format)
	}
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("loaded records", "path", path, "format", string(format), "records", len(records))
	return records, nil
}

func loadFile(path string, format Format) ([]*tree.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*tree.Record
	switch format {
	case FormatJSONL:
		records, err = DecodeJSONL(f)
	case FormatYAML:
		records, err = DecodeYAML(f)
	default:
		records, err = DecodeJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadAll reads several files concurrently and concatenates their
// records in argument order.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*tree.Record, error) {
	results := make([][]*tree.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			records, err := LoadContext(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*tree.Record
	for _, records := range results {
		all = append(all, records...)
	}
	return all, nil
}
