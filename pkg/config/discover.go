package config

import (
	"os"
	"path/filepath"
)

// Find walks up from dir looking for .treeview/config.yaml and returns its
// path. The search stops at the home directory and the filesystem root;
// os.ErrNotExist is returned when nothing is found.
func Find(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	home, _ := os.UserHomeDir()
	for {
		candidate := filepath.Join(dir, Dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // filesystem root
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// ProjectRoot returns the directory that owns the nearest .treeview
// directory, or dir itself when there is none.
func ProjectRoot(dir string) string {
	path, err := Find(dir)
	if err != nil {
		return dir
	}
	return filepath.Dir(filepath.Dir(path))
}
