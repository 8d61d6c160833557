// Package media declares the uploaded media model. It implements only the
// required descriptor methods and takes every default.
package media

import (
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/schema"
)

// Media is the descriptor of uploaded files.
type Media struct {
	descriptor.Defaults
}

var _ descriptor.ModelDescriptor = Media{}

func (Media) ModelName() string       { return "Media" }
func (Media) ModelNamePlural() string { return "Media" }
func (Media) ListFields() []string    { return []string{"filename", "url"} }

func (Media) EditFields() []schema.Field {
	return []schema.Field{
		schema.Text("filename", "File name", schema.Required()),
		schema.Input(schema.KindURL, "url", "URL", schema.Required()),
		schema.Text("alt", "Alternative text"),
	}
}
