package paths

import (
	"os"
	"path/filepath"

	"github.com/rindeal/repokeeper/pkg/errors"
)

// FindGitRoot walks up from startDir looking for a directory containing
// .git. Returns the absolute path of the repository root.
func FindGitRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot resolve start directory")
	}

	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.ErrGitRootNotFound, "root directory with .git directory not found")
		}
		dir = parent
	}
}

// ValidatePath performs basic validation on a path
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	for i := 0; i < len(path); i++ {
		if path[i] == 0 {
			return errors.New(errors.ErrInvalidInput, "path contains null bytes")
		}
	}
	return nil
}
