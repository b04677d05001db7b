package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

func writeConfig(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, tree.DefaultFieldNames(), cfg.Fields)
	assert.Equal(t, []string{"name"}, cfg.Label)
	assert.Equal(t, DefaultIndent, cfg.Indent)
	assert.Equal(t, filepath.Join(".treeview", "tree-state.json"), cfg.StateFile)
	assert.Equal(t, Duration(DefaultDebounce), cfg.Debounce)
	assert.NoError(t, cfg.Validate())
}

// TestLoadAppliesDefaults verifies partially filled files get defaults for the rest
func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
fields:
  id: key
  id_parent: parent
label: [title, kind]
debounce: 1s
watch: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.Fields.ID)
	assert.Equal(t, "parent", cfg.Fields.ParentID)
	assert.Equal(t, "is_group", cfg.Fields.IsGroup)
	assert.Equal(t, []string{"title", "kind"}, cfg.Label)
	assert.Equal(t, Duration(time.Second), cfg.Debounce)
	assert.True(t, cfg.Watch)
	assert.Equal(t, DefaultIndent, cfg.Indent)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"field collision", "fields:\n  id: x\n  expanded: x\n", "configuration error"},
		{"indent too wide", "indent: 40\n", "indent"},
		{"empty label", "label: [name, \" \"]\n", "label[1]"},
		{"bad duration", "debounce: soon\n", "invalid duration"},
		{"not yaml", "fields: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadCollisionIsConfigurationError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "fields:\n  id_parent: children\n  children: children\n")
	_, err := Load(path)
	var cfgErr *tree.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

// TestFindWalksUp verifies the nearest config above a nested directory is found
func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "indent: 2\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg, projectRoot, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, root, projectRoot)
	assert.Equal(t, root, ProjectRoot(nested))
	assert.Equal(t, filepath.Join(root, ".treeview", "tree-state.json"), cfg.StatePath(projectRoot))
}

func TestLoadFromWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err == nil {
		t.Skip("a config file exists above the temp dir")
	}
	cfg, root, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Empty(t, root)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, dir, ProjectRoot(dir))
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Label = []string{"title"}
	cfg.Debounce = Duration(750 * time.Millisecond)
	path := filepath.Join(t.TempDir(), Dir, FileName)

	require.NoError(t, Save(path, &cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestStatePathAbsolute(t *testing.T) {
	cfg := Default()
	cfg.StateFile = filepath.Join(string(filepath.Separator), "tmp", "state.json")
	assert.Equal(t, cfg.StateFile, cfg.StatePath("/project"))
}
