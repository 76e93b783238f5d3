package lang

import (
	"math"
	"sort"

	"github.com/cockroachdb/apd/v3"
)

// builtinSpec declares a built-in function: its arity bounds and its
// evaluation behavior over the unevaluated argument nodes, which lets
// and/or/in short-circuit without touching unreached children.
type builtinSpec struct {
	name    string
	minArgs int
	maxArgs int
	eval    func(ctx *Context, n *funcNode, depth int) (Value, error)
}

// builtins is the dispatch table keyed by canonical function name.
var builtins = map[string]*builtinSpec{
	"and":        {"and", 2, math.MaxInt, evalAnd},
	"or":         {"or", 2, math.MaxInt, evalOr},
	"not":        {"not", 1, 1, evalNot},
	"xor":        {"xor", 2, 2, evalXor},
	"eq":         {"eq", 2, 2, evalEq},
	"ne":         {"ne", 2, 2, evalNe},
	"lt":         {"lt", 2, 2, orderingFunc(func(c int) bool { return c < 0 })},
	"le":         {"le", 2, 2, orderingFunc(func(c int) bool { return c <= 0 })},
	"gt":         {"gt", 2, 2, orderingFunc(func(c int) bool { return c > 0 })},
	"ge":         {"ge", 2, 2, orderingFunc(func(c int) bool { return c >= 0 })},
	"in":         {"in", 2, math.MaxInt, evalIn},
	"notIn":      {"notIn", 2, math.MaxInt, evalNotIn},
	"contains":   {"contains", 2, 2, stringFunc(asciiContainsFold)},
	"startsWith": {"startsWith", 2, 2, stringFunc(asciiHasPrefixFold)},
	"endsWith":   {"endsWith", 2, 2, stringFunc(asciiHasSuffixFold)},
}

// BuiltinNames returns the canonical names of the built-in functions in
// sorted order. Embedders use it for completion and documentation.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// minParams returns the function node's minimum arity.
func (n *funcNode) minParams() int {
	if n.builtin != nil {
		return n.builtin.minArgs
	}

	return n.ext.MinParameters
}

// maxParams returns the function node's maximum arity.
func (n *funcNode) maxParams() int {
	if n.builtin != nil {
		return n.builtin.maxArgs
	}

	return n.ext.MaxParameters
}

// evalAnd is boolean conjunction, short-circuiting on the first falsy
// argument so unreached children are never evaluated or coerced.
func evalAnd(ctx *Context, n *funcNode, depth int) (Value, error) {
	for _, arg := range n.args {
		v, err := arg.evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		if !coerceBoolean(ctx, v, depth+1) {
			return NewBoolean(false), nil
		}
	}

	return NewBoolean(true), nil
}

// evalOr is boolean disjunction, short-circuiting on the first truthy
// argument.
func evalOr(ctx *Context, n *funcNode, depth int) (Value, error) {
	for _, arg := range n.args {
		v, err := arg.evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		if coerceBoolean(ctx, v, depth+1) {
			return NewBoolean(true), nil
		}
	}

	return NewBoolean(false), nil
}

func evalNot(ctx *Context, n *funcNode, depth int) (Value, error) {
	v, err := n.args[0].evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(!coerceBoolean(ctx, v, depth+1)), nil
}

// evalXor coerces both operands; unlike and/or it cannot short-circuit.
func evalXor(ctx *Context, n *funcNode, depth int) (Value, error) {
	a, err := n.args[0].evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	b, err := n.args[1].evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	ab := coerceBoolean(ctx, a, depth+1)
	bb := coerceBoolean(ctx, b, depth+1)

	return NewBoolean(ab != bb), nil
}

func evalEq(ctx *Context, n *funcNode, depth int) (Value, error) {
	l, err := n.args[0].evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	r, err := n.args[1].evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(equalValues(ctx, l, r, depth+1)), nil
}

func evalNe(ctx *Context, n *funcNode, depth int) (Value, error) {
	v, err := evalEq(ctx, n, depth)
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(!v.Boolean()), nil
}

// orderingFunc builds lt/le/gt/ge from a predicate over the three-way
// comparison result.
func orderingFunc(
	pred func(int) bool,
) func(*Context, *funcNode, int) (Value, error) {
	return func(ctx *Context, n *funcNode, depth int) (Value, error) {
		l, err := n.args[0].evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		r, err := n.args[1].evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		c, err := compareValues(ctx, l, r, depth+1)
		if err != nil {
			return Value{}, err
		}

		return NewBoolean(pred(c)), nil
	}
}

// evalIn tests membership of the first argument among the rest, using the
// equality rule, and short-circuits on the first match.
func evalIn(ctx *Context, n *funcNode, depth int) (Value, error) {
	found, err := evalMembership(ctx, n, depth)
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(found), nil
}

// evalNotIn negates evalIn. Every candidate parameter is considered, not
// just the first.
func evalNotIn(ctx *Context, n *funcNode, depth int) (Value, error) {
	found, err := evalMembership(ctx, n, depth)
	if err != nil {
		return Value{}, err
	}

	return NewBoolean(!found), nil
}

func evalMembership(ctx *Context, n *funcNode, depth int) (bool, error) {
	x, err := n.args[0].evaluate(ctx, depth+1)
	if err != nil {
		return false, err
	}

	for _, arg := range n.args[1:] {
		c, err := arg.evaluate(ctx, depth+1)
		if err != nil {
			return false, err
		}

		if equalValues(ctx, x, c, depth+1) {
			return true, nil
		}
	}

	return false, nil
}

// stringFunc builds contains/startsWith/endsWith from a case-insensitive
// string predicate. Both operands are demanded to String.
func stringFunc(
	pred func(s, sub string) bool,
) func(*Context, *funcNode, int) (Value, error) {
	return func(ctx *Context, n *funcNode, depth int) (Value, error) {
		l, err := n.args[0].evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		r, err := n.args[1].evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		ls, err := demandString(ctx, l, depth+1)
		if err != nil {
			return Value{}, err
		}

		rs, err := demandString(ctx, r, depth+1)
		if err != nil {
			return Value{}, err
		}

		return NewBoolean(pred(ls.Text(), rs.Text())), nil
	}
}

// evaluate resolves an indexer against its target. Out-of-range, missing,
// and unindexable cases yield Null rather than errors.
func (n *indexerNode) evaluate(ctx *Context, depth int) (Value, error) {
	target, err := n.target.evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	idx, err := n.index.evaluate(ctx, depth+1)
	if err != nil {
		return Value{}, err
	}

	switch target.Kind() {
	case KindArray:
		arr, ok := target.Payload().([]any)
		if !ok {
			return NewNull(), nil
		}

		return indexArray(ctx, arr, idx, depth), nil

	case KindObject:
		return indexObject(ctx, target.Payload(), idx, depth), nil

	default:
		return NewNull(), nil
	}
}

// indexArray resolves a numeric index into an array payload. The index
// must arrive as a Number, or as a non-empty String that best-effort
// coerces to one, and must be a non-negative integer within bounds.
func indexArray(ctx *Context, arr []any, idx Value, depth int) Value {
	var d *apd.Decimal

	switch idx.Kind() {
	case KindNumber:
		d = idx.Number()

	case KindString:
		if idx.Text() == "" {
			return NewNull()
		}

		n, ok := coerceNumber(ctx, idx, depth)
		if !ok {
			return NewNull()
		}

		d = n.Number()

	default:
		return NewNull()
	}

	i, err := d.Int64()
	if err != nil || i < 0 || i >= int64(len(arr)) {
		return NewNull()
	}

	return FromAny(arr[i])
}

// indexObject resolves a property lookup on an object payload. The key is
// coerced to String; lookup prefers an exact match and falls back to an
// ASCII case-insensitive scan. Missing properties yield Null.
func indexObject(ctx *Context, payload any, idx Value, depth int) Value {
	key, ok := coerceString(ctx, idx, depth)
	if !ok {
		return NewNull()
	}

	m, ok := payload.(map[string]any)
	if !ok {
		return NewNull()
	}

	if v, ok := m[key.Text()]; ok {
		return FromAny(v)
	}

	for k, v := range m {
		if asciiEqualFold(k, key.Text()) {
			return FromAny(v)
		}
	}

	return NewNull()
}
