package convention

import "strings"

// Pluralize returns the plural of a model display name. Only the last word
// is inflected, so "Blog Post" becomes "Blog Posts". The case of the first
// letter of that word is preserved.
func Pluralize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	head, word := "", name
	if i := strings.LastIndexByte(name, ' '); i >= 0 {
		head, word = name[:i+1], name[i+1:]
	}
	return head + pluralizeWord(word)
}

func pluralizeWord(word string) string {
	lower := strings.ToLower(word)

	if plural, ok := irregularPlurals[lower]; ok {
		if word[0] >= 'A' && word[0] <= 'Z' {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	}
	return word + "s"
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Irregular plurals that show up as model names.
var irregularPlurals = map[string]string{
	"person":   "people",
	"child":    "children",
	"medium":   "media",
	"media":    "media",
	"datum":    "data",
	"data":     "data",
	"index":    "indices",
	"analysis": "analyses",
	"news":     "news",
	"series":   "series",
	"status":   "statuses",
}
