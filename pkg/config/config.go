// Package config loads the per-project settings file (.treeview/config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

const (
	// Dir is the per-project directory holding config and state.
	Dir = ".treeview"
	// FileName is the config file inside Dir.
	FileName = "config.yaml"
	// StateFileName is the default tree state file inside Dir.
	StateFileName = "tree-state.json"

	DefaultIndent   = 4
	DefaultDebounce = 200 * time.Millisecond
)

// Config is the contents of .treeview/config.yaml.
type Config struct {
	// Fields renames the reserved record fields.
	Fields tree.FieldNames `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Label lists the fields rendered on each row (default: [name]).
	// The id is shown when none of them is present.
	Label []string `yaml:"label,omitempty" json:"label,omitempty"`

	// Indent is the number of columns per level (default: 4)
	Indent int `yaml:"indent,omitempty" json:"indent,omitempty"`

	// StateFile stores expansion state, relative to the project root.
	StateFile string `yaml:"state_file,omitempty" json:"state_file,omitempty"`

	// Watch rebuilds the tree when an input file changes.
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`

	// Debounce coalesces bursts of file events (default: 200ms)
	Debounce Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Fields = c.Fields.WithDefaults()
	if len(c.Label) == 0 {
		c.Label = []string{"name"}
	}
	if c.Indent <= 0 {
		c.Indent = DefaultIndent
	}
	if c.StateFile == "" {
		c.StateFile = filepath.Join(Dir, StateFileName)
	}
	if c.Debounce <= 0 {
		c.Debounce = Duration(DefaultDebounce)
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := c.Fields.Validate(); err != nil {
		return err
	}
	if c.Indent < 1 || c.Indent > 16 {
		return fmt.Errorf("indent must be between 1 and 16, got %d", c.Indent)
	}
	for i, name := range c.Label {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("label[%d]: field name is empty", i)
		}
	}
	return nil
}

// Load reads and validates the config file at path, applying defaults for
// anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFrom finds the nearest config file above dir and loads it. It
// returns the defaults and an empty root when there is none.
func LoadFrom(dir string) (*Config, string, error) {
	path, err := Find(dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		return &cfg, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, filepath.Dir(filepath.Dir(path)), nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// StatePath resolves the state file against the project root.
func (c *Config) StatePath(root string) string {
	if filepath.IsAbs(c.StateFile) || root == "" {
		return c.StateFile
	}
	return filepath.Join(root, c.StateFile)
}
