// Package blog declares the administrable models of a blog.
// Articles override most of the optional descriptor methods.
package blog

import (
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/schema"
)

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Statuses lists the article statuses in display order.
func Statuses() []schema.Option {
	return schema.Options(
		StatusDraft, "Draft",
		StatusPublished, "Published",
		StatusArchived, "Archived",
	)
}

// Articles is the descriptor of blog articles.
type Articles struct {
	descriptor.Defaults
}

var _ descriptor.ModelDescriptor = Articles{}

func (Articles) ModelName() string       { return "Article" }
func (Articles) ModelNamePlural() string { return "Articles" }

func (Articles) ListFields() []string {
	return []string{"title", "slug", "status", "published", "createdAt"}
}

func (Articles) EditFields() []schema.Field {
	return []schema.Field{
		schema.Text("title", "Title", schema.Required(), schema.Placeholder("A short headline")),
		schema.Slug("slug", "Slug", "title", schema.Help("Leave empty to derive it from the title")),
		schema.Select("status", "Status", Statuses(), schema.Default(StatusDraft)),
		schema.Checkbox("published", "Published"),
		schema.TagList("tags", "Tags", schema.Placeholder("go, web, admin")),
		schema.Multiline("summary", "Summary"),
		schema.RichText("body", "Body"),
	}
}

func (Articles) SearchFields() []string     { return []string{"title", "summary", "body"} }
func (Articles) DefaultSortField() string   { return "title" }
func (Articles) DefaultSortAscending() bool { return true }
func (Articles) ItemsPerPage() int          { return 20 }

func (Articles) ListHeaders() map[string]string {
	return map[string]string{
		"title":     "Title",
		"slug":      "Slug",
		"status":    "Status",
		"published": "Published",
		"createdAt": "Created",
	}
}
