package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidField is wrapped by every schema validation failure.
var ErrInvalidField = errors.New("invalid field")

// Validate checks the invariants of a single field:
//   - the name is non-empty and the kind is known
//   - select kinds carry at least one option, other kinds carry none
//   - slug fields name a source field, other kinds do not
func (f Field) Validate() error {
	if errs := f.problems(); len(errs) > 0 {
		return joinProblems(errs)
	}
	return nil
}

func (f Field) problems() []string {
	var errs []string

	name := f.Name
	if name == "" {
		errs = append(errs, "field name is required")
		name = "<unnamed>"
	}

	if !f.Kind.Valid() {
		errs = append(errs, fmt.Sprintf("field %q: unknown kind %q", name, f.Kind))
	}

	if f.Kind.IsSelect() {
		if len(f.Options) == 0 {
			errs = append(errs, fmt.Sprintf("field %q: %s requires at least one option", name, f.Kind))
		}
	} else if len(f.Options) > 0 {
		errs = append(errs, fmt.Sprintf("field %q: options are only allowed on select fields", name))
	}

	if f.Kind == KindSlug {
		if f.SlugSource == "" {
			errs = append(errs, fmt.Sprintf("field %q: slug requires slug_source", name))
		}
	} else if f.SlugSource != "" {
		errs = append(errs, fmt.Sprintf("field %q: slug_source is only allowed on slug fields", name))
	}

	return errs
}

// ValidateFields checks every field, that names are unique within the
// list and that each slug source references another field of the list.
func ValidateFields(fields []Field) error {
	var errs []string

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		errs = append(errs, f.problems()...)
		if f.Name == "" {
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Sprintf("field %q: duplicate name", f.Name))
		}
		seen[f.Name] = true
	}

	for _, f := range fields {
		if f.Kind != KindSlug || f.SlugSource == "" {
			continue
		}
		if f.SlugSource == f.Name {
			errs = append(errs, fmt.Sprintf("field %q: slug cannot be its own source", f.Name))
		} else if !seen[f.SlugSource] {
			errs = append(errs, fmt.Sprintf("field %q: slug source %q is not a field", f.Name, f.SlugSource))
		}
	}

	if len(errs) > 0 {
		return joinProblems(errs)
	}
	return nil
}

func joinProblems(errs []string) error {
	if len(errs) == 1 {
		return fmt.Errorf("%w: %s", ErrInvalidField, errs[0])
	}
	return fmt.Errorf("%w: validation errors:\n  - %s", ErrInvalidField, strings.Join(errs, "\n  - "))
}
