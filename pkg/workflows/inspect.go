package workflows

import (
	"path/filepath"

	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/types"
	"github.com/rindeal/repokeeper/pkg/worklink"
)

// Inspection captures the classification of one link against its
// canonical form
type Inspection struct {
	// State is the repair category the link falls into
	State types.LinkState
	// CurrentTarget is the literal text the symlink holds
	CurrentTarget string
	// CurrentFilename is the basename the link currently points at,
	// interpreted as a file in the destination directory
	CurrentFilename string
}

// inspect reads the link and the filesystem state of both the current
// and canonical target files, and classifies the link. States are
// checked in a fixed order; the first that applies wins.
func (f *Fixer) inspect(link worklink.Link) (Inspection, error) {
	target, err := f.fs.Readlink(f.abs(link.Path()))
	if err != nil {
		return Inspection{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %q", link.Path())
	}

	insp := Inspection{
		CurrentTarget:   target,
		CurrentFilename: filepath.Base(target),
	}

	currentExists := f.fileExists(filepath.Join(f.cfg.Workflows.DestDir, insp.CurrentFilename))
	canonicalExists := f.fileExists(link.DestPath())

	switch {
	case !currentExists && !canonicalExists:
		insp.State = types.LinkStateUnrecoverable
	case !currentExists:
		insp.State = types.LinkStateDangling
	case insp.CurrentFilename != link.Filename():
		insp.State = types.LinkStateWrongName
	case target != link.CanonicalTarget():
		insp.State = types.LinkStateWrongDepth
	default:
		insp.State = types.LinkStateCorrect
	}

	return insp, nil
}

// fileExists reports whether rel names an existing regular file,
// following symlinks.
func (f *Fixer) fileExists(rel string) bool {
	info, err := f.fs.Stat(f.abs(rel))
	return err == nil && info.Mode().IsRegular()
}
