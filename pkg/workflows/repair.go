package workflows

import (
	"os"
	"path/filepath"

	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/worklink"
)

// renameToCanonical renames the current target file in the destination
// directory to the link's canonical filename. Fails with RenameConflict
// when the canonical filename is already taken by another file.
func (f *Fixer) renameToCanonical(link worklink.Link, currentFilename string) error {
	oldPath := filepath.Join(f.cfg.Workflows.DestDir, currentFilename)
	newPath := link.DestPath()

	if _, err := f.fs.Lstat(f.abs(newPath)); err == nil {
		return errors.Newf(errors.ErrRenameConflict,
			"cannot rename %q to %q: destination already exists", oldPath, newPath)
	}

	f.logger.Warn().Str("from", currentFilename).Str("to", link.Filename()).Msg("Renaming workflow file")
	if f.cfg.DryRun.Rename {
		f.logger.Warn().Msg("Dry-run: rename skipped")
		return nil
	}
	if err := f.fs.Rename(f.abs(oldPath), f.abs(newPath)); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "rename %q -> %q failed", oldPath, newPath)
	}
	f.logger.Warn().Msg("File renamed successfully")
	return nil
}

// relink rewrites the symlink to hold the canonical target text
func (f *Fixer) relink(link worklink.Link, currentTarget string) error {
	linkPath := f.abs(link.Path())

	f.logger.Warn().Str("link", link.Path()).Str("from", currentTarget).Msg("Unlinking from target")
	if f.cfg.DryRun.Relink {
		f.logger.Warn().Str("to", link.CanonicalTarget()).Msg("Dry-run: relink skipped")
		return nil
	}

	if err := f.fs.Remove(linkPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrNotFound, "link %q vanished before unlink", link.Path())
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "unlink %q failed", link.Path())
	}

	f.logger.Warn().Str("to", link.CanonicalTarget()).Msg("Relinking to canonical target")
	if err := f.fs.Symlink(link.CanonicalTarget(), linkPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "symlink %q failed", link.Path())
	}
	f.logger.Warn().Msg("Relinked successfully")
	return nil
}
