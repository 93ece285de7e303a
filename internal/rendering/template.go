package rendering

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
	embedded "github.com/jonathan/resume-analyzer/schemas"
)

//go:embed templates/*.json
var builtinTemplates embed.FS

// DefaultSlug is the template used when a project names none.
const DefaultSlug = "classic"

// Template is a data-only resume template. HTML is a skeleton with named
// placeholders; CSS may reference style values as {{config.key}}.
type Template struct {
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	DefaultConfig types.StyleConfig `json:"defaultConfig,omitempty"`
	HTML          string            `json:"html"`
	CSS           string            `json:"css"`
}

// Summary is the gallery view of a template.
type Summary struct {
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	DefaultConfig types.StyleConfig `json:"defaultConfig,omitempty"`
}

// ParseTemplate validates raw against the template schema and decodes it.
func ParseTemplate(raw []byte) (*Template, error) {
	if err := schemas.Validate(embedded.Template, raw); err != nil {
		return nil, &TemplateError{Reason: "does not match template schema", Err: err}
	}
	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, &TemplateError{Reason: "failed to decode", Err: err}
	}
	if t.DefaultConfig == nil {
		t.DefaultConfig = types.StyleConfig{}
	}
	return &t, nil
}

// Registry holds the available templates by slug.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry loads the built-in templates, then every *.json file in dir
// when dir is non-empty. A file in dir replaces a built-in with the same slug.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template)}
	if err := r.loadFS(builtinTemplates, "templates"); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := r.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) loadFS(fsys fs.FS, root string) error {
	matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(root, "*.json")))
	if err != nil {
		return &TemplateError{Reason: "failed to list templates", Err: err}
	}
	for _, name := range matches {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return &TemplateError{Reason: fmt.Sprintf("failed to read %s", name), Err: err}
		}
		t, err := ParseTemplate(raw)
		if err != nil {
			return &TemplateError{Slug: strings.TrimSuffix(filepath.Base(name), ".json"), Reason: "invalid template file", Err: err}
		}
		r.Add(t)
	}
	return nil
}

// Add registers t, replacing any template with the same slug.
func (r *Registry) Add(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Slug] = t
}

// Get returns the template for slug. An empty slug means DefaultSlug.
func (r *Registry) Get(slug string) (*Template, bool) {
	if slug == "" {
		slug = DefaultSlug
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[slug]
	return t, ok
}

// List returns every template sorted by slug.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Summary, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, Summary{
			Slug:          t.Slug,
			Name:          t.Name,
			Category:      t.Category,
			Description:   t.Description,
			DefaultConfig: t.DefaultConfig,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
