package document

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/shaderdoc/pkg/shader"
)

const notConnected = "Not Connected"

// FormatValue renders the literal default of an unlinked input socket:
// "Value: 0.5000" for scalars, "Value: (1.0000, 0.0000, 0.0000)" for 3- and
// 4-component tuples, "Value: <text>" for any other literal, and
// "Not Connected" when the socket exposes no default.
func FormatValue(v shader.Value) string {
	switch v.Kind {
	case shader.ValueScalar:
		return "Value: " + fixed4(v.Num)
	case shader.ValueVector:
		if len(v.Vec) == 3 || len(v.Vec) == 4 {
			parts := make([]string, len(v.Vec))
			for i, f := range v.Vec {
				parts[i] = fixed4(f)
			}
			return "Value: (" + strings.Join(parts, ", ") + ")"
		}
		return "Value: " + plainVector(v.Vec)
	case shader.ValueText:
		return "Value: " + v.Literal
	}
	return notConnected
}

// fixed4 formats f with four decimals. Non-finite values use the lowercase
// spellings "nan", "inf" and "-inf".
func fixed4(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// plainVector renders tuples of unusual length as "(a, b)" using the
// shortest exact representation of each component.
func plainVector(vec []float64) string {
	parts := make([]string, len(vec))
	for i, f := range vec {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TitleCase turns an enum identifier such as "MULTIPLY_ADD" into
// "Multiply Add": underscores become spaces, the first letter of every word
// is upper-cased and the rest lower-cased. A word starts after any
// character that is not a letter, so "LOG2X" becomes "Log2X".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range strings.ReplaceAll(s, "_", " ") {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// BaseName returns the final element of an image path. Both slash styles are
// separators and the host editor's "//" relative prefix needs no special
// handling. A path ending in a separator has an empty base name.
func BaseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
