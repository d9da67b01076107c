// Package worklink models workflow indirection links: symbolic links
// living in a nested source tree that point at flat, canonically named
// workflow files in a destination directory. The canonical identity of a
// link is derived purely from its directory path below the source root.
package worklink

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rindeal/repokeeper/pkg/errors"
)

// Layout describes the directory convention links live in
type Layout struct {
	// SourceDir is the nested tree holding one link per leaf directory,
	// relative to the repository root
	SourceDir string
	// DestDir is the flat directory holding the real workflow files,
	// relative to the repository root
	DestDir string
	// LinkName is the fixed filename of every indirection link
	LinkName string
	// Separator joins path segments into the canonical filename
	Separator string
	// Extension is the canonical filename suffix
	Extension string
}

// segmentPattern allows alphanumerics, underscore, hyphen and period,
// and forbids leading or trailing hyphen or period.
var segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_](?:[a-zA-Z0-9_.-]*[a-zA-Z0-9_])?$`)

// Link is an immutable value for one workflow indirection symlink. All
// canonical properties are derived from the path segments between the
// source root and the link's fixed filename.
type Link struct {
	layout   Layout
	path     string
	segments []string
}

// New builds a Link from the link's path relative to the repository
// root. The path must end in the layout's link filename, must lie below
// the source directory, and every directory segment in between must pass
// the allowed-character rule. No filesystem access happens here.
func New(layout Layout, linkPath string) (Link, error) {
	linkPath = filepath.Clean(linkPath)

	if filepath.Base(linkPath) != layout.LinkName {
		return Link{}, errors.Newf(errors.ErrInvalidInput,
			"invalid file name: %q, expected %q", filepath.Base(linkPath), layout.LinkName)
	}

	rel, err := filepath.Rel(layout.SourceDir, filepath.Dir(linkPath))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Link{}, errors.Newf(errors.ErrInvalidInput,
			"link %q is not nested below %q", linkPath, layout.SourceDir)
	}

	segments := strings.Split(rel, string(filepath.Separator))
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return Link{}, errors.Newf(errors.ErrInvalidPathSegment,
				"invalid path segment %q in link %q", seg, linkPath).
				WithDetail("segment", seg)
		}
	}

	return Link{layout: layout, path: linkPath, segments: segments}, nil
}

// Path returns the link's path relative to the repository root
func (l Link) Path() string {
	return l.path
}

// Dir returns the link's directory relative to the repository root
func (l Link) Dir() string {
	return filepath.Dir(l.path)
}

// Segments returns the directory segments between the source root and
// the link filename
func (l Link) Segments() []string {
	return l.segments
}

// DisplayName is the canonical embedded workflow name: the segments
// joined with "/".
func (l Link) DisplayName() string {
	return strings.Join(l.segments, "/")
}

// Filename is the canonical destination filename: the segments joined
// with the layout separator plus the extension.
func (l Link) Filename() string {
	return strings.Join(l.segments, l.layout.Separator) + l.layout.Extension
}

// DestPath returns the canonical workflow file path relative to the
// repository root.
func (l Link) DestPath() string {
	return filepath.Join(l.layout.DestDir, l.Filename())
}

// CanonicalTarget is the literal relative path the symlink should hold:
// from the link's own directory to the canonical file in the destination
// directory.
func (l Link) CanonicalTarget() string {
	// Both paths are root-relative, so the lexical computation cannot
	// fail; filepath.Rel only errors when it would need a working
	// directory to resolve mixed absolute/relative inputs.
	target, err := filepath.Rel(l.Dir(), l.DestPath())
	if err != nil {
		return ""
	}
	return target
}
