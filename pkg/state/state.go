// Package state persists which groups of a tree are expanded, keyed by
// node id, so a rebuilt or reopened tree comes back the way it was left.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Version is the current schema version of the state file.
const Version = 1

// TreeState is the persisted expansion state of a tree.
type TreeState struct {
	Version  int             `json:"version"`  // schema version
	Expanded map[string]bool `json:"expanded"` // node id -> expanded
}

// New returns an empty state.
func New() *TreeState {
	return &TreeState{
		Version:  Version,
		Expanded: make(map[string]bool),
	}
}

func key(id int64) string { return strconv.FormatInt(id, 10) }

// Capture records the expansion of every group that has an id.
func Capture(forest *tree.Forest) *TreeState {
	s := New()
	forest.Walk(func(n *tree.Node) bool {
		if n.IsGroup() && n.ID() != tree.BadID {
			s.Expanded[key(n.ID())] = n.IsExpanded()
		}
		return true
	})
	return s
}

// Apply restores recorded expansion onto forest. Ids that no longer exist
// are ignored. It returns how many nodes changed.
func (s *TreeState) Apply(forest *tree.Forest) int {
	if s == nil || len(s.Expanded) == 0 {
		return 0
	}
	changed := 0
	forest.Walk(func(n *tree.Node) bool {
		if n.ID() == tree.BadID {
			return true
		}
		if expanded, ok := s.Expanded[key(n.ID())]; ok && n.SetExpanded(expanded) {
			changed++
		}
		return true
	})
	return changed
}

// Save writes the state to path, creating its directory.
func (s *TreeState) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tree state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write tree state: %w", err)
	}
	return nil
}

// Load reads the state at path. A missing file means first run; a file
// that cannot be parsed is logged and replaced by an empty state.
func Load(path string, logger *slog.Logger) *TreeState {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cannot read tree state, using defaults", "path", path, "err", err)
		}
		return New()
	}

	var s TreeState
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("invalid tree state file, using defaults", "path", path, "err", err)
		return New()
	}
	if s.Version > Version {
		logger.Warn("tree state written by a newer version, using defaults", "path", path, "version", s.Version)
		return New()
	}
	if s.Expanded == nil {
		s.Expanded = make(map[string]bool)
	}
	return &s
}
