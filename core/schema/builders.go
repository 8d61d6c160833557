package schema

import "strconv"

// FieldOption customises a field built by one of the constructors below.
type FieldOption func(*Field)

// Required marks the field as mandatory.
func Required() FieldOption {
	return func(f *Field) { f.Required = true }
}

// Optional clears Required, including the required default of Slug.
func Optional() FieldOption {
	return func(f *Field) { f.Required = false }
}

// ReadOnly renders the field but ignores it on update.
func ReadOnly() FieldOption {
	return func(f *Field) { f.ReadOnly = true }
}

// Help sets the help text shown under the control.
func Help(text string) FieldOption {
	return func(f *Field) { f.HelpText = text }
}

// Placeholder sets the placeholder text of the control.
func Placeholder(text string) FieldOption {
	return func(f *Field) { f.Placeholder = text }
}

// Default sets the string-encoded default value.
func Default(value string) FieldOption {
	return func(f *Field) { f.DefaultValue = value }
}

// New builds a field of any kind and validates it.
func New(kind Kind, name, label string, opts ...FieldOption) (Field, error) {
	f := build(kind, name, label, opts)
	if err := f.Validate(); err != nil {
		return Field{}, err
	}
	return f, nil
}

// Input builds a single-line field of the given kind (text, email, url,
// password, number, date, datetime). It is not validated; see Validate.
func Input(kind Kind, name, label string, opts ...FieldOption) Field {
	return build(kind, name, label, opts)
}

// Text builds a plain single-line text field.
func Text(name, label string, opts ...FieldOption) Field {
	return build(KindText, name, label, opts)
}

// Multiline builds a textarea field.
func Multiline(name, label string, opts ...FieldOption) Field {
	return build(KindMultiline, name, label, opts)
}

// Checkbox builds a boolean field. Boolean fields are never required,
// whatever options are passed, and always carry a default of "false" or
// "true".
func Checkbox(name, label string, opts ...FieldOption) Field {
	f := build(KindBoolean, name, label, opts)
	f.Required = false
	if on, _ := strconv.ParseBool(f.DefaultValue); on {
		f.DefaultValue = "true"
	} else {
		f.DefaultValue = "false"
	}
	return f
}

// Select builds a single-select field with the given options.
func Select(name, label string, options []Option, opts ...FieldOption) Field {
	f := build(KindSelect, name, label, opts)
	f.Options = append([]Option(nil), options...)
	return f
}

// MultiSelect builds a multi-select field with the given options.
func MultiSelect(name, label string, options []Option, opts ...FieldOption) Field {
	f := build(KindMultiSelect, name, label, opts)
	f.Options = append([]Option(nil), options...)
	return f
}

// Slug builds a slug field derived from the field named source. Slugs are
// required unless Optional is passed; an empty label becomes "Slug".
func Slug(name, label, source string, opts ...FieldOption) Field {
	if label == "" {
		label = "Slug"
	}
	opts = append([]FieldOption{Required()}, opts...)
	f := build(KindSlug, name, label, opts)
	f.SlugSource = source
	return f
}

// TagList builds a comma-separated tag list field.
func TagList(name, label string, opts ...FieldOption) Field {
	return build(KindTagList, name, label, opts)
}

// RichText builds a rich-text (HTML) field.
func RichText(name, label string, opts ...FieldOption) Field {
	return build(KindRichText, name, label, opts)
}

// Hidden builds a hidden field that always carries value and has no label.
func Hidden(name, value string) Field {
	return Field{
		Name:         name,
		Kind:         KindHidden,
		DefaultValue: value,
	}
}

// Options builds an option list from value/label pairs:
// Options("draft", "Draft", "published", "Published").
// A trailing value without a label uses the value as its label.
func Options(pairs ...string) []Option {
	out := make([]Option, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		o := Option{Value: pairs[i], Label: pairs[i]}
		if i+1 < len(pairs) {
			o.Label = pairs[i+1]
		}
		out = append(out, o)
	}
	return out
}

func build(kind Kind, name, label string, opts []FieldOption) Field {
	f := Field{Name: name, Label: label, Kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}
