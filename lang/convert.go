package lang

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// AsBoolean converts the value to a boolean. The conversion is total:
// zero numbers, empty strings, and null are false; versions, arrays, and
// objects are always true.
func (v Value) AsBoolean() bool {
	switch v.kind {
	case KindBoolean:
		return v.b

	case KindNumber:
		return !v.num.IsZero()

	case KindString:
		return v.str != ""

	case KindVersion, KindArray, KindObject:
		return true

	case KindNull:
		return false

	default:
		return false
	}
}

// AsNumber converts the value to a decimal. Booleans become 0 or 1, null
// becomes 0, and strings are parsed leniently: surrounding whitespace,
// a leading sign, thousands separators, and a single decimal point are
// accepted; the empty string is 0. Versions, arrays, and objects fail.
func (v Value) AsNumber() (*apd.Decimal, bool) {
	switch v.kind {
	case KindBoolean:
		if v.b {
			return apd.New(1, 0), true
		}

		return apd.New(0, 0), true

	case KindNumber:
		return v.num, true

	case KindNull:
		return apd.New(0, 0), true

	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return apd.New(0, 0), true
		}

		return parseDecimal(s, true)

	default:
		return nil, false
	}
}

// AsString converts the value to a string. Booleans render True/False,
// numbers in canonical general form, versions in dotted form, and null as
// the empty string. Arrays and objects fail.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindBoolean:
		if v.b {
			return "True", true
		}

		return "False", true

	case KindNumber:
		return formatNumber(v.num), true

	case KindString:
		return v.str, true

	case KindVersion:
		return v.ver.String(), true

	case KindNull:
		return "", true

	default:
		return "", false
	}
}

// AsVersion converts the value to a version. Numbers succeed only when
// their canonical form has exactly one period with both sides fitting a
// non-negative 32-bit integer; strings are trimmed and must be 2-4 dotted
// integers. All other kinds except Version fail.
func (v Value) AsVersion() (Version, bool) {
	switch v.kind {
	case KindVersion:
		return v.ver, true

	case KindNumber:
		s := formatNumber(v.num)
		if strings.Count(s, ".") != 1 {
			return Version{}, false
		}

		return ParseVersion(s)

	case KindString:
		return ParseVersion(strings.TrimSpace(v.str))

	default:
		return Version{}, false
	}
}

// coerceBoolean is the traced form of AsBoolean.
func coerceBoolean(ctx *Context, v Value, depth int) bool {
	b := v.AsBoolean()
	if v.kind != KindBoolean {
		traceCoerced(ctx, depth, NewBoolean(b))
	}

	return b
}

// coerceNumber is the traced form of AsNumber.
func coerceNumber(ctx *Context, v Value, depth int) (Value, bool) {
	if v.kind == KindNumber {
		return v, true
	}

	d, ok := v.AsNumber()
	if !ok {
		traceFailed(ctx, depth, v.kind, KindNumber)

		return Value{}, false
	}

	out := NewNumber(d)
	traceCoerced(ctx, depth, out)

	return out, true
}

// coerceString is the traced form of AsString.
func coerceString(ctx *Context, v Value, depth int) (Value, bool) {
	if v.kind == KindString {
		return v, true
	}

	s, ok := v.AsString()
	if !ok {
		traceFailed(ctx, depth, v.kind, KindString)

		return Value{}, false
	}

	out := NewString(s)
	traceCoerced(ctx, depth, out)

	return out, true
}

// coerceVersion is the traced form of AsVersion.
func coerceVersion(ctx *Context, v Value, depth int) (Value, bool) {
	if v.kind == KindVersion {
		return v, true
	}

	ver, ok := v.AsVersion()
	if !ok {
		traceFailed(ctx, depth, v.kind, KindVersion)

		return Value{}, false
	}

	out := NewVersion(ver)
	traceCoerced(ctx, depth, out)

	return out, true
}

// demandNumber coerces to Number or raises *ConvertError.
func demandNumber(ctx *Context, v Value, depth int) (Value, error) {
	out, ok := coerceNumber(ctx, v, depth)
	if !ok {
		return Value{}, newConvertError(v, KindNumber)
	}

	return out, nil
}

// demandString coerces to String or raises *ConvertError.
func demandString(ctx *Context, v Value, depth int) (Value, error) {
	out, ok := coerceString(ctx, v, depth)
	if !ok {
		return Value{}, newConvertError(v, KindString)
	}

	return out, nil
}

// demandVersion coerces to Version or raises *ConvertError.
func demandVersion(ctx *Context, v Value, depth int) (Value, error) {
	out, ok := coerceVersion(ctx, v, depth)
	if !ok {
		return Value{}, newConvertError(v, KindVersion)
	}

	return out, nil
}

// traceCoerced writes the successful coercion trace line.
func traceCoerced(ctx *Context, depth int, v Value) {
	if ctx == nil || ctx.Trace == nil {
		return
	}

	ctx.verbose(depth, "=> ("+v.kind.String()+") "+v.String())
}

// traceFailed writes the failed coercion trace line.
func traceFailed(ctx *Context, depth int, from, to Kind) {
	if ctx == nil || ctx.Trace == nil {
		return
	}

	ctx.verbose(
		depth,
		"=> Unable to coerce "+from.String()+" to "+to.String()+".",
	)
}

// equalValues implements the asymmetric equality rule: the left operand's
// kind selects the target kind and the right operand is coerced toward
// it. A failed coercion means unequal. Array and Object compare by kind
// and reference identity; Null equals only Null.
func equalValues(ctx *Context, l, r Value, depth int) bool {
	switch l.kind {
	case KindNull:
		return r.kind == KindNull

	case KindBoolean:
		return l.b == coerceBoolean(ctx, r, depth)

	case KindNumber:
		rn, ok := coerceNumber(ctx, r, depth)
		if !ok {
			return false
		}

		return l.num.Cmp(rn.num) == 0

	case KindString:
		rs, ok := coerceString(ctx, r, depth)
		if !ok {
			return false
		}

		return asciiEqualFold(l.str, rs.str)

	case KindVersion:
		rv, ok := coerceVersion(ctx, r, depth)
		if !ok {
			return false
		}

		return l.ver.Equal(rv.ver)

	case KindArray, KindObject:
		return l.kind == r.kind && sameRef(l.obj, r.obj)

	default:
		return false
	}
}

// compareValues implements the ordering rule: the left operand is used
// directly when already an ordered kind, otherwise demanded to Number;
// the right operand is then demanded to the left's kind. Both demands
// raise *ConvertError on failure.
func compareValues(ctx *Context, l, r Value, depth int) (int, error) {
	switch l.kind {
	case KindBoolean, KindNumber, KindString, KindVersion:
	default:
		var err error

		l, err = demandNumber(ctx, l, depth)
		if err != nil {
			return 0, err
		}
	}

	switch l.kind {
	case KindBoolean:
		// The Boolean demand is total: false < true.
		rb := coerceBoolean(ctx, r, depth)

		return boolCompare(l.b, rb), nil

	case KindNumber:
		rn, err := demandNumber(ctx, r, depth)
		if err != nil {
			return 0, err
		}

		return l.num.Cmp(rn.num), nil

	case KindString:
		rs, err := demandString(ctx, r, depth)
		if err != nil {
			return 0, err
		}

		return asciiCompareFold(l.str, rs.str), nil

	case KindVersion:
		rv, err := demandVersion(ctx, r, depth)
		if err != nil {
			return 0, err
		}

		return l.ver.Compare(rv.ver), nil

	default:
		return 0, newConvertError(l, KindNumber)
	}
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// ASCII case folding: A-Z fold onto a-z, all other bytes are ordinal.
// The language deliberately performs no Unicode normalization.

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		if foldByte(a[i]) != foldByte(b[i]) {
			return false
		}
	}

	return true
}

func asciiCompareFold(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		ca, cb := foldByte(a[i]), foldByte(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}

			return 1
		}
	}

	switch {
	case len(a) == len(b):
		return 0
	case len(a) < len(b):
		return -1
	default:
		return 1
	}
}

func asciiHasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && asciiEqualFold(s[:len(prefix)], prefix)
}

func asciiHasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && asciiEqualFold(s[len(s)-len(suffix):], suffix)
}

func asciiContainsFold(s, sub string) bool {
	if sub == "" {
		return true
	}

	for i := 0; i+len(sub) <= len(s); i++ {
		if asciiEqualFold(s[i:i+len(sub)], sub) {
			return true
		}
	}

	return false
}
