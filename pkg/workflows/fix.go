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

// Fixer runs the link repair pass over one repository
type Fixer struct {
	fs     types.FS
	cfg    *config.Config
	root   string
	logger zerolog.Logger
}

// NewFixer creates a Fixer rooted at the absolute repository root
func NewFixer(fs types.FS, cfg *config.Config, root string) *Fixer {
	return &Fixer{
		fs:     fs,
		cfg:    cfg,
		root:   root,
		logger: logging.GetLogger("workflows.fix"),
	}
}

func (f *Fixer) abs(rel string) string {
	return filepath.Join(f.root, rel)
}

func (f *Fixer) layout() worklink.Layout {
	return worklink.Layout{
		SourceDir: f.cfg.Workflows.SourceDir,
		DestDir:   f.cfg.Workflows.DestDir,
		LinkName:  f.cfg.Workflows.LinkName,
		Separator: f.cfg.Workflows.Separator,
		Extension: f.cfg.Workflows.Extension,
	}
}

// Run walks the source tree, processes every workflow link, and sweeps
// the destination directory against the whitelist of canonical filenames
// the processed links produced. Per-link failures are recorded in the
// result; only failures outside the per-link boundary return an error.
func (f *Fixer) Run() (*types.FixResult, error) {
	links, err := walkLinks(f.fs, f.root, f.cfg.Workflows.SourceDir, f.cfg.Workflows.LinkName)
	if err != nil {
		return nil, err
	}

	result := &types.FixResult{}
	for _, linkPath := range links {
		result.Links = append(result.Links, f.processLink(linkPath))
	}

	// A failed link keeps its target file off the whitelist, so sweeping
	// now would delete files the operator still needs for remediation.
	if failed := result.Failed(); len(failed) > 0 {
		f.logger.Warn().Int("failed", len(failed)).Msg("Skipping whitelist sweep because some links failed")
		return result, nil
	}

	whitelist := result.Whitelist()
	f.logger.Debug().Msg("Destination filename whitelist:")
	for name := range whitelist {
		f.logger.Debug().Str("filename", name).Msg("  whitelisted")
	}

	swept, err := f.sweep(whitelist)
	result.Swept = swept
	if err != nil {
		return result, err
	}

	return result, nil
}

// processLink takes one link through inspection, repair and the name
// patch. Any failure is recorded on the result and isolates the link
// from the whitelist; the walk continues.
func (f *Fixer) processLink(linkPath string) types.LinkResult {
	res := types.LinkResult{LinkPath: linkPath}
	f.logger.Info().Str("link", linkPath).Msg("Processing link")

	info, err := f.fs.Lstat(f.abs(linkPath))
	if err != nil {
		res.Err = errors.Wrapf(err, errors.ErrFileAccess, "cannot lstat %q", linkPath)
		return res
	}
	if info.Mode()&os.ModeSymlink == 0 {
		f.logNotSymlink(linkPath)
		res.Err = errors.Newf(errors.ErrNotASymlink, "%q is not a symlink", linkPath)
		return res
	}

	link, err := worklink.New(f.layout(), linkPath)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrInvalidPathSegment) {
			f.logInvalidSegment(linkPath, err)
		}
		res.Err = err
		return res
	}

	insp, err := f.inspect(link)
	if err != nil {
		res.Err = err
		return res
	}
	res.State = insp.State

	switch insp.State {
	case types.LinkStateUnrecoverable:
		f.logUnrecoverable(link)
		res.Err = errors.Newf(errors.ErrUnrecoverableLink,
			"link %q points to no existing file and no canonical file exists", linkPath)
		return res

	case types.LinkStateDangling:
		f.logger.Warn().
			Str("current", insp.CurrentFilename).
			Str("canonical", link.Filename()).
			Msg("Link target missing, canonical file exists. Relinking.")
		if err := f.relink(link, insp.CurrentTarget); err != nil {
			res.Err = err
			return res
		}
		res.Repaired = true

	case types.LinkStateWrongName:
		f.logger.Warn().
			Str("dir", f.cfg.Workflows.DestDir).
			Str("current", insp.CurrentFilename).
			Msg("Target file exists but has wrong format. Renaming, then relinking.")
		if err := f.renameToCanonical(link, insp.CurrentFilename); err != nil {
			res.Err = err
			return res
		}
		if err := f.relink(link, insp.CurrentTarget); err != nil {
			res.Err = err
			return res
		}
		res.Repaired = true

	case types.LinkStateWrongDepth:
		f.logger.Warn().
			Str("current", insp.CurrentTarget).
			Str("canonical", link.CanonicalTarget()).
			Msg("Link's parent levels seem to be wrong. Relinking.")
		if err := f.relink(link, insp.CurrentTarget); err != nil {
			res.Err = err
			return res
		}
		res.Repaired = true

	case types.LinkStateCorrect:
		// nothing to do
	}

	patched, err := f.ensureName(link, insp.CurrentFilename)
	if err != nil {
		res.Err = err
		return res
	}
	res.Patched = patched
	res.CanonicalFilename = link.Filename()
	return res
}

func (f *Fixer) logNotSymlink(linkPath string) {
	f.logger.Error().
		Str("link", linkPath).
		Msgf("Not a symlink!\n"+
			"'%[1]s' isn't a symlink.\n"+
			"Each file under '%[2]s' must be a symlink to a file in '%[3]s'.\n\n"+
			"Fix this by running:\n"+
			"1. cp -v '%[1]s' '%[3]s/foo%[4]s'\n"+
			"2. ln -vfs --no-target-directory '%[3]s/foo%[4]s' '%[1]s'\n\n"+
			"'foo%[4]s' is a temporary filename. After running these commands, re-run this tool.\n"+
			"It will adjust the filename and make the necessary fixes.",
			linkPath, f.cfg.Workflows.SourceDir, f.cfg.Workflows.DestDir, f.cfg.Workflows.Extension)
}

func (f *Fixer) logUnrecoverable(link worklink.Link) {
	f.logger.Error().
		Str("link", link.Path()).
		Msgf("Missing workflow file!\n"+
			"The link '%[1]s' doesn't point to an existing file.\n"+
			"The link must target a valid file in '%[2]s'.\n\n"+
			"Fix this by running:\n"+
			"1. touch '%[2]s/foo%[3]s'\n"+
			"2. ln -vfs '%[2]s/foo%[3]s' '%[1]s'\n\n"+
			"'foo%[3]s' is a temporary filename. After running these commands, re-run this tool.\n"+
			"It will adjust the filename and make the necessary fixes.",
			link.Path(), f.cfg.Workflows.DestDir, f.cfg.Workflows.Extension)
}

func (f *Fixer) logInvalidSegment(linkPath string, err error) {
	f.logger.Error().
		Str("link", linkPath).
		Err(err).
		Msg("Invalid path!\n" +
			"Ensure each path part adheres to the following conventions:\n" +
			"- Contains only:\n" +
			"  - Alphanumeric characters: A-Z, a-z, 0-9\n" +
			"  - Underscores (_)\n" +
			"  - Hyphens (-)\n" +
			"  - Periods (.)\n" +
			"- Does not start or end with:\n" +
			"  - Hyphen (-)\n" +
			"  - Period (.)\n\n" +
			"Example of a valid path part: 'example_part-1.2_three'")
}
