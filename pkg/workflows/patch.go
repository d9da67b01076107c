package workflows

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/worklink"
)

// namePattern matches the first embedded workflow name line. The key
// token and its trailing whitespace are captured so the patch can
// preserve them byte-for-byte.
var namePattern = regexp.MustCompile(`(?m)^(name:[ \t]*)(.*)$`)

// PatchNameLine rewrites the value of the first name line in content to
// the quoted display name, leaving every other byte untouched. When no
// name line exists and insertMissing is set, a new line is prepended;
// missing reports that case either way.
func PatchNameLine(content []byte, displayName string, insertMissing bool) (out []byte, changed bool, missing bool) {
	quoted := fmt.Sprintf("%q", displayName)

	loc := namePattern.FindSubmatchIndex(content)
	if loc == nil {
		if !insertMissing {
			return content, false, true
		}
		out = append([]byte("name: "+quoted+"\n"), content...)
		return out, true, true
	}

	// loc[4:6] bounds the captured value
	if string(content[loc[4]:loc[5]]) == quoted {
		return content, false, false
	}

	out = make([]byte, 0, len(content)+len(quoted))
	out = append(out, content[:loc[4]]...)
	out = append(out, quoted...)
	out = append(out, content[loc[5]:]...)
	return out, true, false
}

// ensureName makes the workflow file's embedded name line equal the
// link's canonical display name, writing the file back only when the
// content actually changes. A unified diff is logged before the write.
func (f *Fixer) ensureName(link worklink.Link, currentFilename string) (bool, error) {
	// After repair the file lives under the canonical name; under a
	// dry-run rename it is still at the old one.
	patchRel := link.DestPath()
	if !f.fileExists(patchRel) {
		patchRel = filepath.Join(f.cfg.Workflows.DestDir, currentFilename)
	}

	oldContent, err := f.fs.ReadFile(f.abs(patchRel))
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %q", patchRel)
	}

	newContent, changed, missing := PatchNameLine(oldContent, link.DisplayName(), f.cfg.Patch.InsertMissing)
	if missing {
		if !f.cfg.Patch.InsertMissing {
			f.logger.Warn().Str("file", patchRel).Msg("No workflow name line found; insertion disabled, leaving file untouched")
			return false, nil
		}
		f.logger.Warn().Str("file", patchRel).Str("name", link.DisplayName()).Msg("No workflow name line found. Prepending one.")
	}
	if !changed {
		return false, nil
	}

	diff := unifiedDiff(oldContent, newContent, link.Filename())
	f.logger.Warn().Str("file", patchRel).Str("name", link.DisplayName()).Msg("Updating workflow name")
	f.logger.Debug().Msgf("Diff:\n%s", diff)

	// The patch is byte-preserving outside the name line, so a parse
	// failure here means the file was already malformed.
	var parsed interface{}
	if err := yaml.Unmarshal(newContent, &parsed); err != nil {
		f.logger.Warn().Str("file", patchRel).Err(err).Msg("Patched content does not parse as YAML")
	}

	if f.cfg.DryRun.Edit {
		f.logger.Warn().Msg("Dry-run: content edit skipped")
		return true, nil
	}

	if err := f.fs.WriteFile(f.abs(patchRel), newContent, 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", patchRel)
	}
	f.logger.Warn().Msg("File's content updated successfully")
	return true, nil
}

// unifiedDiff renders an audit diff between old and new file content
func unifiedDiff(oldContent, newContent []byte, filename string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContent)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: fmt.Sprintf("Old '%s'", filename),
		ToFile:   fmt.Sprintf("New '%s'", filename),
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(diff)
}
