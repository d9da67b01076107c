package workflows

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rindeal/repokeeper/pkg/config"
	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/logging"
	"github.com/rindeal/repokeeper/pkg/types"
	"github.com/rindeal/repokeeper/pkg/worklink"
)

// Refresher runs the inverse-layout generation pass: the workflow files
// are the real files under the source tree, and the destination
// directory holds normalized symlinks pointing back at them.
type Refresher struct {
	fs     types.FS
	cfg    *config.Config
	root   string
	logger zerolog.Logger
}

// NewRefresher creates a Refresher rooted at the absolute repository root
func NewRefresher(fs types.FS, cfg *config.Config, root string) *Refresher {
	return &Refresher{
		fs:     fs,
		cfg:    cfg,
		root:   root,
		logger: logging.GetLogger("workflows.refresh"),
	}
}

func (r *Refresher) abs(rel string) string {
	return filepath.Join(r.root, rel)
}

// Run removes dead symlinks from the destination directory, then creates
// a normalized symlink for every workflow file under the source tree
// that has none yet.
func (r *Refresher) Run() (*types.RefreshResult, error) {
	result := &types.RefreshResult{}

	if err := r.removeDead(result); err != nil {
		return result, err
	}
	if err := r.createMissing(result); err != nil {
		return result, err
	}
	return result, nil
}

// removeDead unlinks destination entries that are symlinks whose target
// no longer exists
func (r *Refresher) removeDead(result *types.RefreshResult) error {
	destDir := r.cfg.Workflows.DestDir
	entries, err := r.fs.ReadDir(r.abs(destDir))
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read destination directory %q", destDir)
	}

	for _, entry := range entries {
		rel := filepath.Join(destDir, entry.Name())
		info, err := r.fs.Lstat(r.abs(rel))
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if _, err := r.fs.Stat(r.abs(rel)); err == nil {
			continue
		}
		r.logger.Info().Str("link", rel).Msg("Removing dead symlink")
		if r.cfg.DryRun.Sweep {
			r.logger.Warn().Msg("Dry-run: dead link removal skipped")
			result.RemovedDead = append(result.RemovedDead, entry.Name())
			continue
		}
		if err := r.fs.Remove(r.abs(rel)); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove dead symlink %q", rel)
		}
		result.RemovedDead = append(result.RemovedDead, entry.Name())
	}
	return nil
}

// createMissing creates a relative destination symlink for every
// workflow file under the source tree whose normalized link is absent
func (r *Refresher) createMissing(result *types.RefreshResult) error {
	layout := worklink.Layout{
		SourceDir: r.cfg.Workflows.SourceDir,
		DestDir:   r.cfg.Workflows.DestDir,
		LinkName:  r.cfg.Workflows.LinkName,
		Separator: r.cfg.Workflows.Separator,
		Extension: r.cfg.Workflows.Extension,
	}

	files, err := walkLinks(r.fs, r.root, layout.SourceDir, layout.LinkName)
	if err != nil {
		return err
	}

	for _, fileRel := range files {
		link, err := worklink.New(layout, fileRel)
		if err != nil {
			r.logger.Error().Str("file", fileRel).Err(err).Msg("Skipping workflow file with invalid path")
			continue
		}

		linkRel := link.DestPath()
		if _, err := r.fs.Lstat(r.abs(linkRel)); err == nil {
			continue
		}

		target, err := filepath.Rel(layout.DestDir, fileRel)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot relativize %q", fileRel)
		}

		r.logger.Info().Str("link", linkRel).Str("target", target).Msg("Creating new symlink")
		if r.cfg.DryRun.Relink {
			r.logger.Warn().Msg("Dry-run: symlink creation skipped")
			result.Created = append(result.Created, link.Filename())
			continue
		}
		if err := r.fs.Symlink(target, r.abs(linkRel)); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create symlink %q", linkRel)
		}
		result.Created = append(result.Created, link.Filename())
	}
	return nil
}
