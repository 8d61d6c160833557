/*
Package schema defines the field schema of administrable models.

A Field describes one editable attribute: its input kind, label, whether it
is required, and kind-specific data such as select options or the source of
a slug. The set of kinds is closed:

  - text, multiline-text, email, url, password, number, date, datetime
  - boolean
  - single-select, multi-select (require options)
  - hidden (fixed value, no label)
  - slug (requires slug_source naming another field)
  - tag-list, rich-text

# Building Fields

Constructors cover the common kinds and apply their fixed defaults:

	fields := []schema.Field{
	    schema.Text("title", "Title", schema.Required()),
	    schema.Slug("slug", "Slug", "title"),
	    schema.Select("status", "Status", schema.Options("draft", "Draft", "published", "Published")),
	    schema.Checkbox("featured", "Featured"),
	    schema.Hidden("source", "admin"),
	}

Constructors do not fail. Use New to build and validate in one step, or
ValidateFields to check a whole list, including slug source references.

# YAML

Fields decode from YAML with the same names used in Go:

	- name: status
	  label: Status
	  kind: single-select
	  required: true
	  options:
	    - { value: draft, label: Draft }
	    - { value: published, label: Published }
*/
package schema
