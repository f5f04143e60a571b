package shader

import (
	"fmt"
	"math"
	"slices"
)

// ValueKind distinguishes the literal defaults an input socket can hold.
type ValueKind int

const (
	// ValueNone means the socket exposes no default at all.
	ValueNone ValueKind = iota
	// ValueScalar is a single number (float, int or bool sockets).
	ValueScalar
	// ValueVector is a fixed-length numeric tuple (colors, vectors).
	ValueVector
	// ValueText is any other literal, kept in its plain textual form.
	ValueText
)

func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueScalar:
		return "scalar"
	case ValueVector:
		return "vector"
	case ValueText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is the literal default of an unlinked input socket.
// The zero value is a socket without a default.
type Value struct {
	Kind    ValueKind
	Num     float64
	Vec     []float64
	Literal string
}

// Scalar returns a numeric scalar value.
func Scalar(f float64) Value { return Value{Kind: ValueScalar, Num: f} }

// Vector returns a numeric tuple value. The components are copied.
func Vector(components ...float64) Value {
	return Value{Kind: ValueVector, Vec: slices.Clone(components)}
}

// Text returns an opaque literal value.
func Text(s string) Value { return Value{Kind: ValueText, Literal: s} }

// IsSet reports whether the value is anything other than "no default".
func (v Value) IsSet() bool { return v.Kind != ValueNone }

// Equal reports whether two values hold the same literal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueScalar:
		return v.Num == o.Num || (math.IsNaN(v.Num) && math.IsNaN(o.Num))
	case ValueVector:
		return slices.Equal(v.Vec, o.Vec)
	case ValueText:
		return v.Literal == o.Literal
	}
	return true
}

// ValueOf converts a decoded literal (from JSON, YAML or TOML) into a Value.
//
// Booleans and all integer widths become scalars, matching how the host
// editor exposes boolean sockets as numbers. Lists whose elements are all
// numeric become vectors of any length; the documenter decides how to print
// lengths other than 3 and 4. Anything else is kept as text.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case bool:
		if v {
			return Scalar(1)
		}
		return Scalar(0)
	case []float64:
		return Vector(v...)
	case []any:
		vec := make([]float64, 0, len(v))
		for _, e := range v {
			f, ok := toFloat(e)
			if !ok {
				return Text(fmt.Sprint(v))
			}
			vec = append(vec, f)
		}
		return Value{Kind: ValueVector, Vec: vec}
	case string:
		return Text(v)
	}
	if f, ok := toFloat(x); ok {
		return Scalar(f)
	}
	return Text(fmt.Sprint(x))
}

// Any converts the value back into a plain Go literal for encoding.
func (v Value) Any() any {
	switch v.Kind {
	case ValueScalar:
		return v.Num
	case ValueVector:
		return slices.Clone(v.Vec)
	case ValueText:
		return v.Literal
	}
	return nil
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
