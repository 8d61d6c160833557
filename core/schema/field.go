package schema

import "strings"

// Field describes one editable attribute of an administrable model.
// Fields are plain values: copy them freely, but treat a Field as immutable
// once it has been handed to a descriptor.
type Field struct {
	// Name matches the model attribute and the submitted form field name.
	Name string `yaml:"name" json:"name"`

	// Label is the display text. Hidden fields always have an empty label.
	Label string `yaml:"label,omitempty" json:"label"`

	// Kind selects the input control. See the Kind constants.
	Kind Kind `yaml:"kind" json:"kind"`

	// Required marks the field as mandatory on create and update.
	Required bool `yaml:"required,omitempty" json:"required"`

	HelpText    string `yaml:"help,omitempty" json:"helpText,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`

	// Options lists the choices of a select or multi-select field, in display order.
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`

	// SlugSource names the field a slug is derived from. Slug fields only.
	SlugSource string `yaml:"slug_source,omitempty" json:"slugSource,omitempty"`

	// DefaultValue is the string-encoded initial value for new records.
	DefaultValue string `yaml:"default,omitempty" json:"defaultValue,omitempty"`

	ReadOnly bool `yaml:"readonly,omitempty" json:"readOnly"`
}

// Option is one (value, label) choice of a select field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Kind is the input kind of a field. The set is closed: adding a kind
// requires changes here and in the renderer.
type Kind string

const (
	KindText        Kind = "text"
	KindMultiline   Kind = "multiline-text"
	KindEmail       Kind = "email"
	KindURL         Kind = "url"
	KindPassword    Kind = "password"
	KindNumber      Kind = "number"
	KindDate        Kind = "date"
	KindDateTime    Kind = "datetime"
	KindBoolean     Kind = "boolean"
	KindSelect      Kind = "single-select"
	KindMultiSelect Kind = "multi-select"
	KindHidden      Kind = "hidden"
	KindSlug        Kind = "slug"
	KindTagList     Kind = "tag-list"
	KindRichText    Kind = "rich-text"
)

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindText, KindMultiline, KindEmail, KindURL, KindPassword,
		KindNumber, KindDate, KindDateTime, KindBoolean, KindSelect,
		KindMultiSelect, KindHidden, KindSlug, KindTagList, KindRichText,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsSelect reports whether the kind takes its value from Options.
func (k Kind) IsSelect() bool {
	return k == KindSelect || k == KindMultiSelect
}

// IsMulti reports whether the kind holds more than one value.
func (k Kind) IsMulti() bool {
	return k == KindMultiSelect || k == KindTagList
}

// HasOption reports whether value is one of the field's option values.
func (f Field) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for an option value, or the value itself
// when it is not a declared option.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Clone returns a copy of f that shares no memory with it.
func (f Field) Clone() Field {
	if f.Options != nil {
		opts := make([]Option, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}

// CloneFields deep-copies a field list. A nil list stays nil.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

// Slugify lower-cases s and collapses every run of characters outside
// [a-z0-9] into a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Equal reports whether f and other describe the same field.
func (f Field) Equal(other Field) bool {
	if f.Name != other.Name ||
		f.Label != other.Label ||
		f.Kind != other.Kind ||
		f.Required != other.Required ||
		f.HelpText != other.HelpText ||
		f.Placeholder != other.Placeholder ||
		f.SlugSource != other.SlugSource ||
		f.DefaultValue != other.DefaultValue ||
		f.ReadOnly != other.ReadOnly ||
		len(f.Options) != len(other.Options) {
		return false
	}
	for i := range f.Options {
		if f.Options[i] != other.Options[i] {
			return false
		}
	}
	return true
}
