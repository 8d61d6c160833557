package web

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/artpar/modeladmin/ports"
	"github.com/microcosm-cc/bluemonday"
)

// richText is applied to rich-text values on the way in. Policies are safe
// for concurrent use once built.
var richText = bluemonday.UGCPolicy()

// plainText strips every tag; used for list cells.
var plainText = bluemonday.StrictPolicy()

// FieldErrors maps a field name to a message for the user.
type FieldErrors map[string]string

// Messages returns the messages ordered by field name.
func (e FieldErrors) Messages() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, e[name])
	}
	return out
}

// ParseForm maps submitted values onto the edit fields of d, one form key
// per field name. On update (existing == true) read-only fields are skipped
// and an empty password keeps the stored one. The returned errors are nil
// when every field was accepted.
func ParseForm(d descriptor.Erased, form url.Values, existing bool) (ports.Values, FieldErrors) {
	values := make(ports.Values)
	errs := make(FieldErrors)

	fields := d.EditFields()
	for _, f := range fields {
		if existing && f.ReadOnly {
			continue
		}

		switch f.Kind {
		case schema.KindBoolean:
			values.Set(f.Name, boolValue(form[f.Name]))
			continue

		case schema.KindTagList:
			values[f.Name] = splitTags(form[f.Name])

		case schema.KindMultiSelect:
			var picked []string
			for _, v := range form[f.Name] {
				if !f.HasOption(v) {
					errs[f.Name] = fmt.Sprintf("%s contains an unknown option %q", f.Label, v)
					continue
				}
				picked = append(picked, v)
			}
			if picked == nil {
				picked = []string{}
			}
			values[f.Name] = picked

		case schema.KindSelect:
			v := strings.TrimSpace(form.Get(f.Name))
			if v != "" && !f.HasOption(v) {
				errs[f.Name] = fmt.Sprintf("%s: %q is not a valid choice", f.Label, v)
			}
			values.Set(f.Name, v)

		case schema.KindSlug:
			v := strings.TrimSpace(form.Get(f.Name))
			if v == "" {
				v = form.Get(f.SlugSource)
			}
			values.Set(f.Name, schema.Slugify(v))

		case schema.KindRichText:
			values.Set(f.Name, richText.Sanitize(form.Get(f.Name)))

		case schema.KindHidden:
			// A fixed value wins over whatever was submitted.
			v := f.DefaultValue
			if v == "" {
				v = form.Get(f.Name)
			}
			values.Set(f.Name, v)

		case schema.KindPassword:
			v := form.Get(f.Name)
			if existing && v == "" {
				continue
			}
			values.Set(f.Name, v)

		default:
			values.Set(f.Name, strings.TrimSpace(form.Get(f.Name)))
		}

		if f.Required && isBlank(values[f.Name]) {
			if _, ok := errs[f.Name]; !ok {
				errs[f.Name] = f.Label + " is required"
			}
		}
	}

	if len(errs) == 0 {
		return values, nil
	}
	return values, errs
}

func boolValue(submitted []string) string {
	for _, v := range submitted {
		switch strings.ToLower(v) {
		case "on", "true", "1", "yes":
			return "true"
		}
	}
	return "false"
}

func splitTags(submitted []string) []string {
	tags := []string{}
	for _, raw := range submitted {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func isBlank(vs []string) bool {
	for _, v := range vs {
		if v != "" {
			return false
		}
	}
	return true
}
