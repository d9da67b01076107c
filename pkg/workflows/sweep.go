package workflows

import (
	"path/filepath"

	"github.com/rindeal/repokeeper/pkg/errors"
)

// sweep removes every entry of the destination directory whose name is
// not on the whitelist. The destination directory is assumed to contain
// nothing but generated workflow files.
func (f *Fixer) sweep(whitelist map[string]bool) ([]string, error) {
	destDir := f.cfg.Workflows.DestDir
	entries, err := f.fs.ReadDir(f.abs(destDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read destination directory %q", destDir)
	}

	var swept []string
	for _, entry := range entries {
		if whitelist[entry.Name()] {
			continue
		}
		path := filepath.Join(destDir, entry.Name())
		f.logger.Warn().Str("file", path).Msg("Unlinking file since it's not on the whitelist")
		if f.cfg.DryRun.Sweep {
			f.logger.Warn().Msg("Dry-run: sweep delete skipped")
			swept = append(swept, entry.Name())
			continue
		}
		if err := f.fs.Remove(f.abs(path)); err != nil {
			return swept, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %q", path)
		}
		swept = append(swept, entry.Name())
	}
	return swept, nil
}
