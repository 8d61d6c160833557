package web

import (
	"net/url"
	"strings"
	"testing"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/artpar/modeladmin/ports"
	"github.com/google/go-cmp/cmp"
)

func formModel() descriptor.Erased {
	return descriptor.MustErase(&descriptor.Static{
		Name: "Article",
		List: []string{"title"},
		Edit: []schema.Field{
			schema.Text("title", "Title", schema.Required()),
			schema.Slug("slug", "Slug", "title"),
			schema.TagList("tags", "Tags"),
			schema.Checkbox("published", "Published"),
			schema.Select("status", "Status", schema.Options("draft", "Draft", "live", "Live")),
			schema.MultiSelect("channels", "Channels", schema.Options("web", "Web", "rss", "RSS")),
			schema.RichText("body", "Body"),
			schema.Hidden("source", "admin"),
			schema.Input(schema.KindPassword, "secret", "Secret"),
			schema.Text("author", "Author", schema.ReadOnly()),
		},
	})
}

func TestParseForm_Create(t *testing.T) {
	form := url.Values{
		"title":     {"  Hello World  "},
		"tags":      {"go, web ,, admin"},
		"published": {"false", "true"},
		"status":    {"live"},
		"channels":  {"web", "rss"},
		"body":      {`<p onclick="x()">Hi<script>alert(1)</script></p>`},
		"secret":    {"s3cret"},
		"author":    {"ann"},
	}

	values, errs := ParseForm(formModel(), form, false)
	if errs != nil {
		t.Fatalf("ParseForm() errors = %v", errs)
	}

	want := ports.Values{
		"title":     {"Hello World"},
		"slug":      {"hello-world"},
		"tags":      {"go", "web", "admin"},
		"published": {"true"},
		"status":    {"live"},
		"channels":  {"web", "rss"},
		"body":      {"<p>Hi</p>"},
		"source":    {"admin"},
		"secret":    {"s3cret"},
		"author":    {"ann"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("ParseForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForm_Update(t *testing.T) {
	form := url.Values{
		"title":  {"Title"},
		"slug":   {"Custom Slug!"},
		"author": {"mallory"},
		"secret": {""},
	}

	values, errs := ParseForm(formModel(), form, true)
	if errs != nil {
		t.Fatalf("ParseForm() errors = %v", errs)
	}
	if values.Has("author") {
		t.Error("read-only field was accepted on update")
	}
	if values.Has("secret") {
		t.Error("empty password should keep the stored value")
	}
	if got := values.Get("slug"); got != "custom-slug" {
		t.Errorf("slug = %q, want custom-slug", got)
	}
	if got := values.Get("published"); got != "false" {
		t.Errorf("unchecked boolean = %q, want false", got)
	}
	if got := values["channels"]; got == nil || len(got) != 0 {
		t.Errorf("channels = %#v, want empty list", got)
	}
}

func TestParseForm_Errors(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		field string
		msg   string
	}{
		{
			name:  "required missing",
			form:  url.Values{"title": {"   "}},
			field: "title",
			msg:   "Title is required",
		},
		{
			name:  "unknown select option",
			form:  url.Values{"title": {"x"}, "status": {"archived"}},
			field: "status",
			msg:   "not a valid choice",
		},
		{
			name:  "unknown multi-select option",
			form:  url.Values{"title": {"x"}, "channels": {"web", "fax"}},
			field: "channels",
			msg:   "unknown option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseForm(formModel(), tt.form, false)
			if errs == nil {
				t.Fatal("ParseForm() errors = nil")
			}
			if !strings.Contains(errs[tt.field], tt.msg) {
				t.Errorf("errs[%q] = %q, want it to contain %q", tt.field, errs[tt.field], tt.msg)
			}
		})
	}
}

func TestFieldErrors_Messages(t *testing.T) {
	errs := FieldErrors{"b": "second", "a": "first"}
	if diff := cmp.Diff([]string{"first", "second"}, errs.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
	var none FieldErrors
	if len(none.Messages()) != 0 {
		t.Error("nil FieldErrors should have no messages")
	}
}

func TestBuildFields(t *testing.T) {
	d := formModel()

	fresh := buildFields(d, nil, nil, false)
	byName := make(map[string]FieldView)
	for _, f := range fresh {
		byName[f.Name] = f
	}
	if byName["source"].Value != "admin" || byName["source"].Control() != "hidden" {
		t.Errorf("hidden field = %+v", byName["source"])
	}
	if byName["author"].Disabled {
		t.Error("read-only field disabled on a new record")
	}

	stored := ports.Values{
		"tags":      {"a", "b"},
		"published": {"true"},
		"secret":    {"hash"},
		"channels":  {"rss"},
	}
	edit := buildFields(d, stored, FieldErrors{"title": "Title is required"}, true)
	for _, f := range edit {
		switch f.Name {
		case "tags":
			if f.Value != "a, b" {
				t.Errorf("tags value = %q", f.Value)
			}
		case "published":
			if !f.Checked || f.Control() != "checkbox" {
				t.Errorf("published = %+v", f)
			}
		case "secret":
			if f.Value != "" || f.InputType != "password" {
				t.Errorf("password echoed back: %+v", f)
			}
		case "channels":
			if !f.Selected("rss") || f.Selected("web") {
				t.Errorf("channels selection = %v", f.Values)
			}
		case "author":
			if !f.Disabled {
				t.Error("read-only field not disabled on edit")
			}
		case "title":
			if f.Error == "" {
				t.Error("field error not attached")
			}
		}
	}
}
