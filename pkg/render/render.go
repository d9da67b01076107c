// Package render is a one-shot template filter: it reads a template from
// an input stream, renders it against an empty context, and writes the
// result to an output stream.
package render

import (
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/rindeal/repokeeper/pkg/errors"
)

// Render reads all of in as a template, renders it with no data, and
// writes the output plus a trailing newline to out.
func Render(in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read template input")
	}

	tmpl, err := template.New("stdin").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(string(src))
	if err != nil {
		return errors.Wrap(err, errors.ErrTemplateParse, "cannot parse template")
	}

	if err := tmpl.Execute(out, nil); err != nil {
		return errors.Wrap(err, errors.ErrTemplateRender, "cannot render template")
	}

	if _, err := io.WriteString(out, "\n"); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write rendered output")
	}
	return nil
}
