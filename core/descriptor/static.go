package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artpar/modeladmin/core/convention"
	"github.com/artpar/modeladmin/core/schema"
	"gopkg.in/yaml.v3"
)

// Static is a ModelDescriptor declared as data, typically in YAML:
//
//	model: Article
//	plural: Articles          # optional, derived from model
//	url_path: articles        # optional, derived from plural
//	list: [title, status, createdAt]
//	search: [title, body]
//	sort: title
//	ascending: true
//	per_page: 50
//	headers: { createdAt: Created }
//	edit:
//	  - { name: title, label: Title, kind: text, required: true }
//	  - { name: slug, label: Slug, kind: slug, slug_source: title }
type Static struct {
	Name      string            `yaml:"model"`
	Plural    string            `yaml:"plural,omitempty"`
	Path      string            `yaml:"url_path,omitempty"`
	List      []string          `yaml:"list,omitempty"`
	Edit      []schema.Field    `yaml:"edit,omitempty"`
	Search    []string          `yaml:"search,omitempty"`
	SortField string            `yaml:"sort,omitempty"`
	Ascending bool              `yaml:"ascending,omitempty"`
	PerPage   int               `yaml:"per_page,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

var _ ModelDescriptor = (*Static)(nil)

func (s *Static) ModelName() string { return s.Name }

// ModelNamePlural returns Plural, or the pluralized Name when Plural is empty.
func (s *Static) ModelNamePlural() string {
	if s.Plural != "" {
		return s.Plural
	}
	return convention.Pluralize(s.Name)
}

func (s *Static) URLPath() string                { return s.Path }
func (s *Static) ListFields() []string           { return s.List }
func (s *Static) EditFields() []schema.Field     { return s.Edit }
func (s *Static) SearchFields() []string         { return s.Search }
func (s *Static) DefaultSortField() string       { return s.SortField }
func (s *Static) DefaultSortAscending() bool     { return s.Ascending }
func (s *Static) ItemsPerPage() int              { return s.PerPage }
func (s *Static) ListHeaders() map[string]string { return s.Headers }

// Parse decodes a Static descriptor from YAML and validates it.
func Parse(data []byte) (*Static, error) {
	var s Static
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("%w: model name is required", ErrInvalidDescriptor)
	}
	if _, err := Erase(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// ParseFile parses a Static descriptor from a YAML file.
func ParseFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseDir parses every .yaml/.yml file under dir, including
// subdirectories, in lexical order.
func ParseDir(dir string) ([]*Static, error) {
	var out []*Static

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		s, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}
