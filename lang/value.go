package lang

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies the shape of a [Value].
type Kind int

const (
	// KindNull is the singleton null value.
	KindNull Kind = iota

	// KindBoolean is a two-valued boolean.
	KindBoolean

	// KindNumber is a fixed-precision signed decimal.
	KindNumber

	// KindString is UTF-8 text compared with ASCII case folding.
	KindString

	// KindVersion is an ordered tuple of 2-4 non-negative integer
	// components.
	KindVersion

	// KindArray is an opaque handle to a caller-supplied array.
	KindArray

	// KindObject is an opaque handle to a caller-supplied object.
	KindObject
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"

	case KindBoolean:
		return "Boolean"

	case KindNumber:
		return "Number"

	case KindString:
		return "String"

	case KindVersion:
		return "Version"

	case KindArray:
		return "Array"

	case KindObject:
		return "Object"

	default:
		return "Unknown"
	}
}

// decCtx is the decimal context for all Number parsing and arithmetic.
// Precision 28 matches the fixed-precision decimal the language requires.
var decCtx = apd.BaseContext.WithPrecision(28)

// Value is a tagged (kind, payload) pair produced by evaluation.
// The zero value is Null.
type Value struct {
	kind Kind
	b    bool
	num  *apd.Decimal
	str  string
	ver  Version
	obj  any // Array and Object payloads
}

// NewNull returns the null value.
func NewNull() Value {
	return Value{kind: KindNull}
}

// NewBoolean returns a Boolean value.
func NewBoolean(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// NewNumber returns a Number value backed by the given decimal.
// The decimal is not copied; callers must not mutate it afterward.
func NewNumber(d *apd.Decimal) Value {
	if d == nil {
		d = apd.New(0, 0)
	}

	return Value{kind: KindNumber, num: d}
}

// NewNumberInt returns a Number value for an integer.
func NewNumberInt(i int64) Value {
	return Value{kind: KindNumber, num: apd.New(i, 0)}
}

// NewString returns a String value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewVersion returns a Version value.
func NewVersion(v Version) Value {
	return Value{kind: KindVersion, ver: v}
}

// NewArray returns an Array value wrapping the given payload.
// The payload is an opaque handle; equality is reference identity.
func NewArray(payload []any) Value {
	return Value{kind: KindArray, obj: payload}
}

// NewObject returns an Object value wrapping the given payload.
// The payload is an opaque handle; equality is reference identity.
func NewObject(payload any) Value {
	return Value{kind: KindObject, obj: payload}
}

// FromAny adapts a leaf of a caller-supplied JSON-like document into a
// Value. []any and map[string]any become Array and Object handles; nil,
// bool, string, int, int32, int64, uint, uint32, uint64, float32,
// float64, *apd.Decimal, Value, and Version map onto their corresponding
// kinds; any other payload, including other slice and map types, becomes
// an Object handle.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return NewNull()

	case Value:
		return x

	case bool:
		return NewBoolean(x)

	case string:
		return NewString(x)

	case *apd.Decimal:
		return NewNumber(x)

	case int:
		return NewNumberInt(int64(x))

	case int32:
		return NewNumberInt(int64(x))

	case int64:
		return NewNumberInt(x)

	case uint:
		return NewNumberInt(int64(x))

	case uint32:
		return NewNumberInt(int64(x))

	case uint64:
		d, _, err := decCtx.NewFromString(strconv.FormatUint(x, 10))
		if err != nil {
			return NewNull()
		}

		return NewNumber(d)

	case float64:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(x); err != nil {
			return NewNull()
		}

		return NewNumber(d)

	case float32:
		return FromAny(float64(x))

	case Version:
		return NewVersion(x)

	case []any:
		return NewArray(x)

	case map[string]any:
		return NewObject(x)

	default:
		return NewObject(x)
	}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Boolean returns the boolean payload. Valid only for KindBoolean.
func (v Value) Boolean() bool {
	return v.b
}

// Number returns the decimal payload. Valid only for KindNumber.
func (v Value) Number() *apd.Decimal {
	return v.num
}

// Text returns the string payload. Valid only for KindString.
func (v Value) Text() string {
	return v.str
}

// Version returns the version payload. Valid only for KindVersion.
func (v Value) Version() Version {
	return v.ver
}

// Payload returns the opaque Array or Object payload.
func (v Value) Payload() any {
	return v.obj
}

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns a display form of the value used in trace output and
// diagnostics. Array and Object render as their kind names.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"

	case KindBoolean:
		if v.b {
			return "True"
		}

		return "False"

	case KindNumber:
		return formatNumber(v.num)

	case KindString:
		return v.str

	case KindVersion:
		return v.ver.String()

	case KindArray:
		return "Array"

	case KindObject:
		return "Object"

	default:
		return "Unknown"
	}
}

// sameRef reports whether two opaque payloads are the same reference.
// Maps, slices, pointers, and channels compare by identity; any other
// payload falls back to interface equality when comparable.
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}

	if !ra.Comparable() || !rb.Comparable() {
		return false
	}

	return a == b
}

// formatNumber renders a decimal in its canonical general form: no
// exponent, trailing zeros after a decimal point stripped, then a bare
// trailing point stripped. Negative zero renders as "0".
func formatNumber(d *apd.Decimal) string {
	if d == nil || d.IsZero() {
		return "0"
	}

	s := d.Text('f')
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}

	return s
}

// parseDecimal parses a signed decimal with an optional leading sign and a
// single decimal point. When thousands is true, ',' group separators are
// accepted between digits of the integer part, matching the lenient parse
// applied when coercing strings to numbers. The input must already be
// trimmed of surrounding whitespace.
func parseDecimal(s string, thousands bool) (*apd.Decimal, bool) {
	if s == "" {
		return nil, false
	}

	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}

	var (
		cleaned   strings.Builder
		seenDigit bool
		seenDot   bool
	)

	cleaned.WriteString(s[:i])

	for ; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= '0' && c <= '9':
			seenDigit = true

			cleaned.WriteByte(c)

		case c == '.':
			if seenDot {
				return nil, false
			}

			seenDot = true

			cleaned.WriteByte(c)

		case c == ',' && thousands && !seenDot:
			// Group separators must sit between digits.
			if !seenDigit || i+1 >= len(s) || s[i+1] < '0' || s[i+1] > '9' {
				return nil, false
			}

		default:
			return nil, false
		}
	}

	if !seenDigit {
		return nil, false
	}

	d, _, err := decCtx.NewFromString(cleaned.String())
	if err != nil {
		return nil, false
	}

	return d, true
}
