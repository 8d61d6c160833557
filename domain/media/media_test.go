package media_test

import (
	"testing"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/domain/media"
)

func TestMedia_Defaults(t *testing.T) {
	d, err := descriptor.Erase(media.Media{})
	if err != nil {
		t.Fatalf("Erase() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"url path", d.URLPath(), "media"},
		{"sort field", d.DefaultSortField(), "id"},
		{"ascending", d.DefaultSortAscending(), false},
		{"items per page", d.ItemsPerPage(), 25},
		{"searchable", d.Searchable(), false},
		{"url header", d.Header("url"), "Url"},
		{"filename header", d.Header("filename"), "Filename"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
