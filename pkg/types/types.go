package types

import "io/fs"

// FS provides filesystem operations that can be mocked for testing
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// LinkState classifies a workflow link against its canonical form
type LinkState int

const (
	// LinkStateUnrecoverable means neither the current nor the canonical
	// target file exists; the link cannot be repaired automatically.
	LinkStateUnrecoverable LinkState = iota
	// LinkStateDangling means the current target file is missing but the
	// canonical file exists; only the link needs rewriting.
	LinkStateDangling
	// LinkStateWrongName means the current target file exists under a
	// non-canonical name; it must be renamed, then the link rewritten.
	LinkStateWrongName
	// LinkStateWrongDepth means the canonical file exists and the link
	// points at it by name, but the literal link text is stale (the link
	// moved to a different depth in the tree).
	LinkStateWrongDepth
	// LinkStateCorrect means no action is needed.
	LinkStateCorrect
)

// String returns a short human-readable name for the state
func (s LinkState) String() string {
	switch s {
	case LinkStateUnrecoverable:
		return "unrecoverable"
	case LinkStateDangling:
		return "dangling"
	case LinkStateWrongName:
		return "wrong-name"
	case LinkStateWrongDepth:
		return "wrong-depth"
	case LinkStateCorrect:
		return "correct"
	default:
		return "unknown"
	}
}

// LinkResult records the outcome of processing one workflow link
type LinkResult struct {
	// LinkPath is the path of the symlink relative to the repository root
	LinkPath string
	// State is the classification the inspector assigned before repair
	State LinkState
	// CanonicalFilename is the destination filename the link settled on;
	// empty when the link failed
	CanonicalFilename string
	// Repaired is true when any filesystem mutation was performed (or
	// would have been, under dry-run)
	Repaired bool
	// Patched is true when the embedded name line was rewritten
	Patched bool
	// Err is set when the link could not be processed
	Err error
}

// FixResult aggregates one full run of the repair driver
type FixResult struct {
	Links []LinkResult
	// Swept lists destination files removed by the whitelist sweep
	Swept []string
}

// Failed returns the results for links that could not be repaired
func (r *FixResult) Failed() []LinkResult {
	var failed []LinkResult
	for _, l := range r.Links {
		if l.Err != nil {
			failed = append(failed, l)
		}
	}
	return failed
}

// Whitelist returns the set of canonical filenames produced by
// successfully processed links
func (r *FixResult) Whitelist() map[string]bool {
	wl := make(map[string]bool, len(r.Links))
	for _, l := range r.Links {
		if l.Err == nil && l.CanonicalFilename != "" {
			wl[l.CanonicalFilename] = true
		}
	}
	return wl
}

// RefreshResult aggregates one run of the refresh pass
type RefreshResult struct {
	// RemovedDead lists destination symlinks removed because their target
	// no longer exists
	RemovedDead []string
	// Created lists destination symlinks newly created for workflow files
	// that had none
	Created []string
}

// ForkResult records the outcome of enforcing policy on one fork
type ForkResult struct {
	Name        string
	Renamed     bool
	NewName     string
	Retagged    bool
	Description string
	Err         error
}
