// Package prompts holds the prompt templates used by the coordinators.
//
// Templates are loaded once into a Library at startup and are read-only
// afterwards; the Library is passed into coordinators rather than held as
// ambient state. The embedded defaults can be overridden from a directory of
// .tmpl files, keyed by file base name.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Template names used by the coordinators.
const (
	ReactSystem  = "react_system"
	TaskAnalyzer = "task_analyzer"
	TaskAnswer   = "task_answer"
	TaskReview   = "task_review"
)

// Library is an immutable collection of named prompt templates. Populated at
// construction, read-only thereafter, invalidated only by restart — safe to
// share across concurrently running tasks.
type Library struct {
	templates map[string]*template.Template
}

// NewLibrary loads the embedded default templates.
func NewLibrary() (*Library, error) {
	lib := &Library{templates: make(map[string]*template.Template)}
	if err := lib.loadFS(defaultTemplates, "templates"); err != nil {
		return nil, err
	}
	return lib, nil
}

// NewLibraryFromDir loads the embedded defaults, then overrides any template
// that has a matching .tmpl file in dir.
func NewLibraryFromDir(dir string) (*Library, error) {
	lib, err := NewLibrary()
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("scanning prompt dir %s: %w", dir, err)
	}
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".tmpl")
		tmpl, err := template.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt template %s: %w", path, err)
		}
		lib.templates[name] = tmpl
	}
	return lib, nil
}

func (l *Library) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("reading embedded templates: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		data, err := fs.ReadFile(fsys, root+"/"+entry.Name())
		if err != nil {
			return fmt.Errorf("reading embedded template %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Parse(string(data))
		if err != nil {
			return fmt.Errorf("parsing embedded template %s: %w", entry.Name(), err)
		}
		l.templates[name] = tmpl
	}
	return nil
}

// Render executes the named template with data. Unknown names are an error;
// the template set is fixed at construction.
func (l *Library) Render(name string, data any) (string, error) {
	tmpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering prompt template %q: %w", name, err)
	}
	return sb.String(), nil
}

// Names returns the loaded template names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
