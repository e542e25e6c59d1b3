package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackKey is used when a label normalizes to nothing at all.
const fallbackKey = "field"

var separatorRuns = regexp.MustCompile(`[^a-z0-9]+`)

// deaccent decomposes Unicode and strips combining marks, so "Café" → "Cafe".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a human label into a lowercase ASCII machine key: diacritics
// stripped, every run of non-alphanumeric characters collapsed to a single
// underscore, leading/trailing separators trimmed. A label with no usable
// characters yields "field".
func Slugify(label string) string {
	ascii, _, err := transform.String(deaccent, label)
	if err != nil {
		ascii = label
	}

	var b strings.Builder
	for _, r := range strings.ToLower(ascii) {
		if r < 128 {
			b.WriteRune(r)
		}
	}

	s := separatorRuns.ReplaceAllString(b.String(), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return fallbackKey
	}
	return s
}

// EnsureUniqueKey returns base if it is not taken, otherwise base_2, base_3,
// and so on — the first suffix from 2 upward that does not collide. The
// caller scopes existing to a single item type, excluding the field's own
// current key when renaming.
func EnsureUniqueKey(existing map[string]bool, base string) string {
	if !existing[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !existing[candidate] {
			return candidate
		}
	}
}
