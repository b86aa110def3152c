package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const dbFile = "coursewalk.db"

// DefaultDBPath returns $COURSEWALK_DB when set, otherwise coursewalk.db
// under the XDG data directory. The parent directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("COURSEWALK_DB")
	if p == "" {
		dir, err := dataHome()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "coursewalk", dbFile)
	}
	return p, EnsureDir(p)
}

func dataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate data directory: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// EnsureDir makes sure the directory holding path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
