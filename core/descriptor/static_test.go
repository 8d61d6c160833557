package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/modeladmin/core/schema"
)

const articleYAML = `
model: Article
list: [title, status, createdAt]
search: [title, body]
sort: title
ascending: true
per_page: 50
headers:
  createdAt: Created
edit:
  - { name: title, label: Title, kind: text, required: true }
  - { name: slug, label: Slug, kind: slug, slug_source: title }
  - { name: body, label: Body, kind: rich-text }
  - name: status
    label: Status
    kind: single-select
    options:
      - { value: draft, label: Draft }
      - { value: published, label: Published }
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(articleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	e := MustErase(s)
	if e.ModelNamePlural() != "Articles" {
		t.Errorf("ModelNamePlural() = %q, want derived Articles", e.ModelNamePlural())
	}
	if e.URLPath() != "articles" {
		t.Errorf("URLPath() = %q", e.URLPath())
	}
	if e.ItemsPerPage() != 50 || e.DefaultSortField() != "title" || !e.DefaultSortAscending() {
		t.Errorf("unexpected list settings: %d %q %v", e.ItemsPerPage(), e.DefaultSortField(), e.DefaultSortAscending())
	}
	if e.Header("createdAt") != "Created" || e.Header("status") != "Status" {
		t.Errorf("headers = %v", e.ListHeaders())
	}

	status, ok := e.Field("status")
	if !ok || status.Kind != schema.KindSelect || len(status.Options) != 2 {
		t.Errorf("status field = %+v", status)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "model: [", "parse yaml"},
		{"missing model", "plural: Things", "model name is required"},
		{"slug without source", "model: A\nedit:\n  - { name: s, kind: slug }", "slug requires slug_source"},
		{"select without options", "model: A\nedit:\n  - { name: s, kind: single-select }", "requires at least one option"},
		{"unknown kind", "model: A\nedit:\n  - { name: s, kind: colour }", "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		filepath.Join(dir, "article.yaml"): articleYAML,
		filepath.Join(sub, "category.yml"): "model: Category\nlist: [name]\nedit:\n  - { name: name, label: Name, kind: text }\n",
		filepath.Join(dir, "README.md"):    "ignored",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("ParseDir() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ParseDir() returned %d descriptors, want 2", len(got))
	}

	plurals := map[string]bool{}
	for _, s := range got {
		plurals[s.ModelNamePlural()] = true
	}
	if !plurals["Articles"] || !plurals["Categories"] {
		t.Errorf("plurals = %v", plurals)
	}
}

func TestParseDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("model: A\nedit:\n  - { name: '', kind: text }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseDir(dir)
	if err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("ParseDir() error = %v, want it to name the file", err)
	}
}

func TestParseDir_Missing(t *testing.T) {
	if _, err := ParseDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("ParseDir() on a missing directory should fail")
	}
}
