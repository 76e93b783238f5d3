package lang

import (
	"github.com/cockroachdb/apd/v3"
)

// Context carries the per-evaluation environment: a trace sink and the
// embedder's opaque state, which is passed to extension functions
// unchanged. A nil Trace discards all output.
//
// A single Context must not be shared by concurrent evaluations; the
// parsed tree itself may be.
type Context struct {
	Trace TraceWriter
	State any
}

// verbose writes a trace line at the given tree depth.
func (c *Context) verbose(depth int, msg string) {
	if c == nil || c.Trace == nil {
		return
	}

	c.Trace.Verbose(indent(depth) + msg)
}

// node is the capability set shared by all tree nodes: evaluate against a
// context at a given depth. Depth is threaded explicitly; nodes hold no
// parent pointers and the tree is immutable after parsing.
type node interface {
	evaluate(ctx *Context, depth int) (Value, error)
}

// leafNode carries a literal value.
type leafNode struct {
	value Value
}

func (n *leafNode) evaluate(*Context, int) (Value, error) {
	return n.value, nil
}

// indexerNode applies an index expression to a target expression.
// Both a['b'] and a.b parse to this shape.
type indexerNode struct {
	target node
	index  node
}

// funcNode is a named function application: a built-in or a registered
// extension, with its argument nodes.
type funcNode struct {
	name    string
	args    []node
	builtin *builtinSpec // nil for extensions
	ext     Extension    // valid when builtin is nil
}

func (n *funcNode) evaluate(ctx *Context, depth int) (Value, error) {
	if n.builtin != nil {
		return n.builtin.eval(ctx, n, depth)
	}

	// Extensions receive evaluated arguments; they cannot short-circuit.
	args := make([]Value, len(n.args))

	for i, arg := range n.args {
		v, err := arg.evaluate(ctx, depth+1)
		if err != nil {
			return Value{}, err
		}

		args[i] = v
	}

	return n.ext.Func(ctx, args)
}

// Root is the parsed form of a condition expression. It is immutable and
// safe for concurrent evaluation with distinct Contexts.
type Root struct {
	raw  string
	node node // nil for the empty expression
}

// Raw returns the original expression source.
func (r *Root) Raw() string {
	return r.raw
}

// Empty reports whether the expression contained no tokens.
func (r *Root) Empty() bool {
	return r.node == nil
}

// Evaluate executes the tree and returns the resulting value. The empty
// expression yields Null. Conversion failures in demanded coercions
// surface as *ConvertError.
func (r *Root) Evaluate(ctx *Context) (Value, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	ctx.verbose(0, "Evaluating: "+r.raw)

	if r.node == nil {
		return NewNull(), nil
	}

	v, err := r.node.evaluate(ctx, 0)
	if err != nil {
		return Value{}, err
	}

	ctx.verbose(0, "Result: "+v.String())

	return v, nil
}

// EvaluateBoolean evaluates the tree and coerces the result to Boolean.
// The coercion is total and never fails for a successful evaluation.
func (r *Root) EvaluateBoolean(ctx *Context) (bool, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	v, err := r.Evaluate(ctx)
	if err != nil {
		return false, err
	}

	return coerceBoolean(ctx, v, 0), nil
}

// EvaluateNumber evaluates the tree and demands a Number result.
func (r *Root) EvaluateNumber(ctx *Context) (*apd.Decimal, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	v, err := r.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	n, err := demandNumber(ctx, v, 0)
	if err != nil {
		return nil, err
	}

	return n.Number(), nil
}

// EvaluateString evaluates the tree and demands a String result.
func (r *Root) EvaluateString(ctx *Context) (string, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	v, err := r.Evaluate(ctx)
	if err != nil {
		return "", err
	}

	s, err := demandString(ctx, v, 0)
	if err != nil {
		return "", err
	}

	return s.Text(), nil
}

// EvaluateVersion evaluates the tree and demands a Version result.
func (r *Root) EvaluateVersion(ctx *Context) (Version, error) {
	if ctx == nil {
		ctx = &Context{}
	}

	v, err := r.Evaluate(ctx)
	if err != nil {
		return Version{}, err
	}

	ver, err := demandVersion(ctx, v, 0)
	if err != nil {
		return Version{}, err
	}

	return ver.Version(), nil
}
