package state

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ignoreEntry is the pattern added for the per-project directory.
const ignoreEntry = ".treeview/"

// EnsureIgnored makes sure .treeview/ is listed in dir/.gitignore so
// local state never ends up in the repository. It creates the file when
// needed and leaves existing content alone. Calling it again is a no-op.
func EnsureIgnored(dir string) error {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	path := filepath.Join(dir, ".gitignore")

	present, err := isIgnored(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if present {
		return nil
	}
	return appendEntry(path, ignoreEntry)
}

func isIgnored(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if coversDir(line) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// coversDir reports whether a .gitignore line ignores the whole .treeview directory.
func coversDir(line string) bool {
	switch strings.TrimPrefix(line, "/") {
	case ".treeview", ".treeview/", ".treeview/*", ".treeview/**", ".treeview/**/*":
		return true
	}
	return false
}

func appendEntry(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	if len(content) > 0 {
		if content[len(content)-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString("# treeview local state\n")
	b.WriteString(pattern)
	b.WriteByte('\n')

	_, err = f.WriteString(b.String())
	return err
}
