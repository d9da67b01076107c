package workflows

import (
	"path/filepath"
	"sort"

	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/types"
)

// walkLinks recursively walks sourceDir below root and returns the
// root-relative paths of every entry named linkName, sorted for
// deterministic processing. Directory symlinks are followed; a dangling
// directory entry is skipped.
func walkLinks(fsys types.FS, root, sourceDir, linkName string) ([]string, error) {
	var links []string

	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := fsys.ReadDir(filepath.Join(root, rel))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %q", rel)
		}
		for _, entry := range entries {
			childRel := filepath.Join(rel, entry.Name())
			if entry.Name() == linkName && !entry.IsDir() {
				links = append(links, childRel)
				continue
			}
			// Stat follows symlinks, so linked subtrees are descended into
			info, err := fsys.Stat(filepath.Join(root, childRel))
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := walk(childRel); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(sourceDir); err != nil {
		return nil, err
	}
	sort.Strings(links)
	return links, nil
}
