// Package schema implements the dynamic form engine: stage form schemas are
// interpreted at render time into control descriptors, edited through a
// working-copy editor and compared structurally for dirty detection.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes, so
// "Número" becomes "Numero".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DeriveKey normalizes a display label into a field key: lowercase,
// diacritics stripped, every non-alphanumeric rune replaced with an
// underscore.  "Número do Contrato" derives "numero_do_contrato".
func DeriveKey(label string) string {
	lower := strings.ToLower(label)
	plain, _, err := transform.String(stripMarks, lower)
	if err != nil {
		plain = lower
	}
	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ParseOptions splits a comma-delimited option string into the option list:
// entries are trimmed and empty entries dropped, so "A, B ,C" yields
// ["A" "B" "C"].
func ParseOptions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinOptions renders an option list back into the comma-delimited form the
// editor presents for select fields.
func JoinOptions(opts []string) string {
	return strings.Join(opts, ", ")
}
