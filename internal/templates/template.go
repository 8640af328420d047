package templates

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"text/template"
)

// templateFuncs are the helper functions available inside template
// expressions. The set is deliberately small: templates are configuration,
// not a programming surface.
var templateFuncs = template.FuncMap{
	"urlencode":     url.QueryEscape,
	"cleanFileName": CleanFileName,
	"join":          func(elems []string, sep string) string { return strings.Join(elems, sep) },
}

// FileTemplate renders one entity kind to its file name, cross-reference
// link, and body. It is built from a template document with a fixed line
// grammar:
//
//	line 1    file-name template
//	line 2    link template; empty means "link is the file-name stem"
//	line 3    blank separator
//	line 4..  body template
//
// All three parts are evaluated against a context map.
type FileTemplate struct {
	name     string
	fileName *template.Template
	fileLink *template.Template // nil: link derives from the file name
	body     *template.Template
}

// newFileTemplate splits doc per the line grammar and compiles each part.
func newFileTemplate(name, doc string) (*FileTemplate, error) {
	parts := strings.SplitN(doc, "\n", 4)

	const minParts = 4
	if len(parts) < minParts {
		return nil, fmt.Errorf(
			"%w: template %q needs a file-name line, a link line, a blank separator and a body",
			ErrConfiguration, name,
		)
	}

	if strings.TrimSpace(parts[2]) != "" {
		return nil, fmt.Errorf("%w: template %q: line 3 must be blank, got %q", ErrConfiguration, name, parts[2])
	}

	fileName, err := parsePart(name+"/file-name", parts[0])
	if err != nil {
		return nil, err
	}

	var fileLink *template.Template

	if strings.TrimSpace(parts[1]) != "" {
		fileLink, err = parsePart(name+"/file-link", parts[1])
		if err != nil {
			return nil, err
		}
	}

	body, err := parsePart(name+"/body", parts[3])
	if err != nil {
		return nil, err
	}

	return &FileTemplate{
		name:     name,
		fileName: fileName,
		fileLink: fileLink,
		body:     body,
	}, nil
}

func parsePart(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template %s: %v", ErrConfiguration, name, err)
	}

	return tmpl, nil
}

// RenderFileName renders the file-name template and sanitizes the result.
// The sanitizer always runs: target filesystems reject characters like
// `: / \ * ? " < > |` no matter what the template produced.
func (t *FileTemplate) RenderFileName(ctx map[string]any) (string, error) {
	name, err := render(t.fileName, ctx)
	if err != nil {
		return "", err
	}

	return CleanFileName(name), nil
}

// RenderFileLink renders the link template. Without a link template the link
// is the file-name stem.
func (t *FileTemplate) RenderFileLink(ctx map[string]any) (string, error) {
	if t.fileLink == nil {
		name, err := t.RenderFileName(ctx)
		if err != nil {
			return "", err
		}

		return strings.TrimSuffix(name, filepath.Ext(name)), nil
	}

	return render(t.fileLink, ctx)
}

// RenderBody renders the body template.
func (t *FileTemplate) RenderBody(ctx map[string]any) (string, error) {
	return render(t.body, ctx)
}

func render(tmpl *template.Template, ctx map[string]any) (string, error) {
	var builder strings.Builder

	if err := tmpl.Execute(&builder, ctx); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}

	return builder.String(), nil
}
