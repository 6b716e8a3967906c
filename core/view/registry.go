package view

import (
	"bytes"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const templateExt = ".gohtml"

var ErrTemplateNotFound = errors.New("template not found")

type (
	Options struct {
		Funcs template.FuncMap
		// Strict makes templates fail on missing map keys (DEV & TEST).
		Strict bool
	}

	// Registry holds parsed templates by name. It is safe for concurrent use.
	Registry struct {
		templates map[string]*template.Template
	}
)

// NewRegistry parses every named source once.
// Sources whose name starts with "_" are partials: they are not renderable on their own
// but every other template can call them with {{template "_name" .}}.
func NewRegistry(sources map[string]string, opts Options) (*Registry, error) {
	partials := make([]string, 0)
	for name := range sources {
		if strings.HasPrefix(name, "_") {
			partials = append(partials, name)
		}
	}
	sort.Strings(partials)

	reg := &Registry{templates: make(map[string]*template.Template, len(sources))}
	for name, src := range sources {
		if strings.HasPrefix(name, "_") {
			continue
		}
		tmpl := template.New(name)
		if opts.Funcs != nil {
			tmpl = tmpl.Funcs(opts.Funcs)
		}
		if opts.Strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		if _, err := tmpl.Parse(src); err != nil {
			return nil, errors.Wrapf(err, "parsing template %q", name)
		}
		for _, pName := range partials {
			if _, err := tmpl.New(pName).Parse(sources[pName]); err != nil {
				return nil, errors.Wrapf(err, "parsing partial %q for %q", pName, name)
			}
		}
		reg.templates[name] = tmpl
	}
	return reg, nil
}

// LoadFS reads every *.gohtml file of dir; a template is named after its file, without extension.
func LoadFS(fsys fs.FS, dir string, opts Options) (*Registry, error) {
	fps, err := fs.Glob(fsys, path.Join(dir, "*"+templateExt))
	if err != nil {
		return nil, errors.Wrapf(err, "listing templates in %q", dir)
	}

	sources := make(map[string]string, len(fps))
	for _, fp := range fps {
		content, err := fs.ReadFile(fsys, fp)
		if err != nil {
			return nil, errors.Wrapf(err, "reading template %q", fp)
		}
		fname := path.Base(fp)
		sources[strings.TrimSuffix(fname, templateExt)] = string(content)
	}
	return NewRegistry(sources, opts)
}

// Names returns the renderable template names, sorted.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.templates))
	for name := range reg.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render interpolates ctx into the named template.
func (reg *Registry) Render(name string, ctx interface{}) (string, error) {
	tmpl, ok := reg.templates[name]
	if !ok {
		return "", errors.WithMessagef(ErrTemplateNotFound, "%q", name)
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, ctx); err != nil {
		return "", errors.Wrapf(err, "rendering template %q", name)
	}
	return buff.String(), nil
}
