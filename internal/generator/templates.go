package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	templateIndex  = "index"
	templatePost   = "post"
	templateLayout = "layout"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// HTMLTemplates renders page templates with html/template. Every page file
// is parsed together with layout.html and executed through the "layout"
// template.
type HTMLTemplates struct {
	pages map[string]*template.Template
	base  *template.Template
	funcs template.FuncMap
}

var _ interfaces.TemplateRenderer = (*HTMLTemplates)(nil)

// NewHTMLTemplates parses the embedded default templates.
func NewHTMLTemplates(site SiteMetadata) (*HTMLTemplates, error) {
	return NewHTMLTemplatesFS(defaultTemplates, "templates", site)
}

// NewHTMLTemplatesFS parses templates from dir in fsys. dir must contain
// layout.html plus one file per page template.
func NewHTMLTemplatesFS(fsys fs.FS, dir string, site SiteMetadata) (*HTMLTemplates, error) {
	funcs := newTemplateHelpers(site).funcMap()
	layoutPath := path.Join(dir, templateLayout+".html")

	base, err := template.New(templateLayout).Funcs(funcs).ParseFS(fsys, layoutPath)
	if err != nil {
		return nil, fmt.Errorf("generator: parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("generator: list templates: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == templateLayout {
			continue
		}
		tmpl, err := template.Must(base.Clone()).ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("generator: parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	for _, required := range []string{templateIndex, templatePost} {
		if _, ok := pages[required]; !ok {
			return nil, fmt.Errorf("generator: template %q not found in %s", required, dir)
		}
	}

	return &HTMLTemplates{pages: pages, base: base, funcs: funcs}, nil
}

// Render executes the named page template.
func (t *HTMLTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	tmpl, ok := t.pages[name]
	if !ok {
		return "", fmt.Errorf("generator: unknown template %q", name)
	}
	return execute(tmpl, templateLayout, data, out...)
}

// RenderString parses templateContent as a standalone template sharing the
// layout and helpers, then executes it.
func (t *HTMLTemplates) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tmpl, err := template.Must(t.base.Clone()).New("inline").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("generator: parse inline template: %w", err)
	}
	return execute(tmpl, "inline", data, out...)
}

func execute(tmpl *template.Template, name string, data any, out ...io.Writer) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("generator: execute template %s: %w", tmpl.Name(), err)
	}
	if len(out) > 0 && out[0] != nil {
		if _, err := buf.WriteTo(out[0]); err != nil {
			return "", err
		}
		return "", nil
	}
	return buf.String(), nil
}
