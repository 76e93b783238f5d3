package lang

import (
	"errors"
	"sync"
	"testing"
)

// testState mirrors the document the agent binds for condition tests.
func testState() map[string]any {
	return map[string]any{
		"subObj": map[string]any{"nestedProp1": "v1"},
		"prop1":  "property value 1",
		"array":  []any{"a0", "a1"},
	}
}

// testRegistry registers the extensions the evaluator tests rely on:
// testData() exposing the bound state, and boom() which always fails.
func testRegistry(t testing.TB) *Registry {
	t.Helper()

	reg, err := NewRegistry(
		Extension{
			Name: "testData",
			Func: func(ctx *Context, _ []Value) (Value, error) {
				return FromAny(ctx.State), nil
			},
		},
		Extension{
			Name: "boom",
			Func: func(*Context, []Value) (Value, error) {
				return Value{}, NewError("boom")
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	return reg
}

// mustEval parses and evaluates raw against state.
func mustEval(t *testing.T, raw string, state any) Value {
	t.Helper()

	v, err := tryEval(t, raw, state)
	if err != nil {
		t.Fatalf("evaluate %q: %v", raw, err)
	}

	return v
}

// tryEval parses raw (failing the test on parse errors) and returns the
// evaluation result or error.
func tryEval(t *testing.T, raw string, state any) (Value, error) {
	t.Helper()

	root, err := Parse(raw,
		WithExtensions(testRegistry(t)),
		WithCache(false),
	)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}

	return root.Evaluate(&Context{State: state})
}

func TestFunctionAndOr(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "and(true, true)", want: true},
		{raw: "and(true, false)", want: false},
		{raw: "and(true, true, true, false)", want: false},
		{raw: "and(1, 'x', 1.2.3)", want: true},
		{raw: "or(false, false)", want: false},
		{raw: "or(false, true)", want: true},
		{raw: "or(0, '', false, 'x')", want: true},
		{raw: "or(0, '')", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Kind() != KindBoolean || v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{
			name: "and skips failing conversion",
			raw:  "and(false, gt(1, 'not a number'))",
			want: false,
		},
		{
			name: "and skips failing extension",
			raw:  "and(false, boom())",
			want: false,
		},
		{
			name: "or skips failing extension",
			raw:  "or(true, boom())",
			want: true,
		},
		{
			name: "in stops at first match",
			raw:  "in(1, 1, boom())",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tryEval(t, tt.raw, nil)
			if err != nil {
				t.Fatalf("%s: %v", tt.raw, err)
			}

			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}

	// The unreached child must surface once it is reached.
	if _, err := tryEval(t, "and(true, boom())", nil); err == nil {
		t.Error("and(true, boom()) did not propagate the extension error")
	}
}

func TestFunctionNotXor(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "not(false)", want: true},
		{raw: "not(1)", want: false},
		{raw: "not('')", want: true},
		{raw: "xor(true, false)", want: true},
		{raw: "xor(true, true)", want: false},
		{raw: "xor('x', '')", want: true},
		{raw: "xor(0, '')", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}
}

func TestFunctionEqNe(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "eq(1, true)", want: true},
		{raw: "eq(2, true)", want: false},
		{raw: "eq('TRue', true)", want: true},
		{raw: "eq(123456.789, ' +123,456.789 ')", want: true},
		{raw: "eq('ABC', 'abc')", want: true},
		{raw: "eq(1.2.3, '1.2.3')", want: true},
		{raw: "eq(1.2.3, 1.2.3.0)", want: false},
		{raw: "eq(1, 'one')", want: false},
		{raw: "ne(1, 'one')", want: true},
		{raw: "ne(1, '1')", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}

	// eq(a, b) <=> !ne(a, b) over a mixed sample of operand pairs.
	pairs := []string{
		"1, true", "2, true", "'', ''", "1.2.3, 1.2.3.0", "'a', 'B'",
	}

	for _, pair := range pairs {
		eq := mustEval(t, "eq("+pair+")", nil).Boolean()
		ne := mustEval(t, "ne("+pair+")", nil).Boolean()

		if eq == ne {
			t.Errorf("eq(%s) and ne(%s) both %v", pair, pair, eq)
		}
	}
}

func TestFunctionOrdering(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "lt(1, 2)", want: true},
		{raw: "le(2, 2)", want: true},
		{raw: "gt(2, 10)", want: false},
		{raw: "ge(1.10, 1.2)", want: false},
		{raw: "lt('apple', 'BANANA')", want: true},
		{raw: "gt('b', 'AZ')", want: true},
		{raw: "lt(false, true)", want: true},
		{raw: "gt(1.2.3.4, 1.2.3)", want: true},
		{raw: "lt(1.2.3, 1.2.3.0)", want: true},
		{raw: "gt(2, '10')", want: false},
		{raw: "gt('2', 10)", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}
}

func TestFunctionOrderingConvertError(t *testing.T) {
	_, err := tryEval(t, "gt(1.2, 1.2.0.0)", nil)
	if err == nil {
		t.Fatal("gt(1.2, 1.2.0.0) did not fail")
	}

	convErr := &ConvertError{}
	if !errors.As(err, &convErr) {
		t.Fatalf("error type = %T, want *ConvertError", err)
	}

	if convErr.From != KindVersion || convErr.To != KindNumber {
		t.Errorf("ConvertError = %v -> %v, want Version -> Number",
			convErr.From, convErr.To)
	}

	if convErr.Value.String() != "1.2.0.0" {
		t.Errorf("ConvertError value = %q, want %q",
			convErr.Value.String(), "1.2.0.0")
	}

	// Ordering a Number against an unparsable String fails the same way.
	_, err = tryEval(t, "gt(1, 'not a number')", nil)
	if !errors.As(err, &convErr) {
		t.Fatalf("gt(1, 'not a number') error type = %T", err)
	}
}

func TestFunctionInNotIn(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "in('b', 'a', 'B')", want: true},
		{raw: "in('z', 'a', 'b')", want: false},
		{raw: "in(1, true, 2)", want: true},
		{raw: "notIn('z', 'a', 'b')", want: true},
		{raw: "notIn('b', 'a', 'B')", want: false},
		// Matches beyond the second parameter must be found.
		{raw: "in('c', 'a', 'b', 'c')", want: true},
		{raw: "notIn('c', 'a', 'b', 'c')", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}

	// in(x, xs) <=> !notIn(x, xs)
	args := []string{"'b', 'a', 'B'", "'z', 'a'", "1, 2, 3, 1"}
	for _, a := range args {
		in := mustEval(t, "in("+a+")", nil).Boolean()
		notIn := mustEval(t, "notIn("+a+")", nil).Boolean()

		if in == notIn {
			t.Errorf("in(%s) and notIn(%s) both %v", a, a, in)
		}
	}
}

func TestStringPredicates(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "contains('Hello World', 'WORLD')", want: true},
		{raw: "contains('Hello', 'xyz')", want: false},
		{raw: "contains('abc', '')", want: true},
		{raw: "contains(123456.789, '6.7')", want: true},
		{raw: "startsWith('Hello', 'he')", want: true},
		{raw: "startsWith('Hello', 'ello')", want: false},
		{raw: "endsWith('Hello', 'LO')", want: true},
		{raw: "endsWith('Hello', 'hel')", want: false},
		{raw: "startsWith(1.2.3, '1.2')", want: true},
		{raw: "endsWith(true, 'UE')", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := mustEval(t, tt.raw, nil)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}

	// Object operands cannot become strings.
	_, err := tryEval(t, "contains(testData(), 'x')", testState())

	convErr := &ConvertError{}
	if !errors.As(err, &convErr) {
		t.Fatalf("contains(testData(), 'x') error type = %T", err)
	}
}

func TestIndexer(t *testing.T) {
	state := testState()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{
			name: "bracket property",
			raw:  "eq('property value 1', testData()['prop1'])",
			want: true,
		},
		{
			name: "dereference chain",
			raw:  "eq('v1', testData().subObj.nestedProp1)",
			want: true,
		},
		{
			name: "bracket and dereference agree",
			raw:  "eq(testData()['subObj']['nestedProp1'], testData().subObj.nestedProp1)",
			want: true,
		},
		{
			name: "array numeric index",
			raw:  "eq('a1', testData().array[1])",
			want: true,
		},
		{
			name: "array string index",
			raw:  "eq('a1', testData().array['1'])",
			want: true,
		},
		{
			name: "property lookup folds case",
			raw:  "eq('property value 1', testData()['PROP1'])",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustEval(t, tt.raw, state)
			if v.Boolean() != tt.want {
				t.Errorf("%s = %v, want %v", tt.raw, v, tt.want)
			}
		})
	}

	nullCases := []struct {
		name string
		raw  string
	}{
		{name: "index out of range", raw: "testData().array[5]"},
		{name: "negative index", raw: "testData().array[-1]"},
		{name: "fractional index", raw: "testData().array[0.5]"},
		{name: "empty string index", raw: "testData().array['']"},
		{name: "boolean index", raw: "testData().array[true]"},
		{name: "missing property", raw: "testData().nope"},
		{name: "index into string", raw: "testData().prop1[0]"},
		{name: "index into null", raw: "testData().nope.deeper"},
	}

	for _, tt := range nullCases {
		t.Run(tt.name, func(t *testing.T) {
			v := mustEval(t, tt.raw, state)
			if !v.IsNull() {
				t.Errorf("%s = %v, want null", tt.raw, v)
			}
		})
	}
}

func TestNullStateEquality(t *testing.T) {
	// With a null state, testData() yields Null, which coerces to the
	// empty string for a String left operand.
	v := mustEval(t, "eq('', testData())", nil)
	if !v.Boolean() {
		t.Error("eq('', testData()) with null state = false, want true")
	}
}

func TestEmptyExpression(t *testing.T) {
	root, err := Parse("", WithCache(false))
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}

	if !root.Empty() {
		t.Error("Empty() = false for the empty expression")
	}

	v, err := root.Evaluate(nil)
	if err != nil {
		t.Fatalf("evaluate empty: %v", err)
	}

	if !v.IsNull() {
		t.Errorf("empty expression = %v, want null", v)
	}

	b, err := root.EvaluateBoolean(nil)
	if err != nil || b {
		t.Errorf("EvaluateBoolean = (%v, %v), want (false, nil)", b, err)
	}
}

func TestEvaluateProjections(t *testing.T) {
	reg := testRegistry(t)

	parse := func(raw string) *Root {
		root, err := Parse(raw, WithExtensions(reg), WithCache(false))
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}

		return root
	}

	s, err := parse("123456.7890").EvaluateString(nil)
	if err != nil || s != "123456.789" {
		t.Errorf("EvaluateString = (%q, %v), want (123456.789, nil)", s, err)
	}

	n, err := parse("'42'").EvaluateNumber(nil)
	if err != nil || formatNumber(n) != "42" {
		t.Errorf("EvaluateNumber = (%v, %v), want (42, nil)", n, err)
	}

	ver, err := parse("'1.2.3'").EvaluateVersion(nil)
	if err != nil || ver.String() != "1.2.3" {
		t.Errorf("EvaluateVersion = (%v, %v), want (1.2.3, nil)", ver, err)
	}

	convErr := &ConvertError{}

	_, err = parse("'abc'").EvaluateNumber(nil)
	if !errors.As(err, &convErr) {
		t.Errorf("EvaluateNumber('abc') error type = %T, want *ConvertError", err)
	}

	b, err := parse("'x'").EvaluateBoolean(nil)
	if err != nil || !b {
		t.Errorf("EvaluateBoolean = (%v, %v), want (true, nil)", b, err)
	}
}

func TestExtensionState(t *testing.T) {
	reg, err := NewRegistry(Extension{
		Name: "stateKind",
		Func: func(ctx *Context, _ []Value) (Value, error) {
			return NewString(FromAny(ctx.State).Kind().String()), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	root, err := Parse("stateKind()", WithExtensions(reg), WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		state any
		want  string
	}{
		{state: nil, want: "Null"},
		{state: map[string]any{}, want: "Object"},
		{state: []any{}, want: "Array"},
		{state: "s", want: "String"},
	} {
		v, err := root.Evaluate(&Context{State: tc.state})
		if err != nil {
			t.Fatal(err)
		}

		if v.Text() != tc.want {
			t.Errorf("stateKind() with %T = %s, want %s",
				tc.state, v.Text(), tc.want)
		}
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	root, err := Parse(
		"and(eq(testData().prop1, 'property value 1'), lt(1, 2))",
		WithExtensions(testRegistry(t)),
		WithCache(false),
	)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// Each evaluation owns a distinct Context.
			b, err := root.EvaluateBoolean(&Context{State: testState()})
			if err != nil || !b {
				t.Errorf("concurrent evaluate = (%v, %v)", b, err)
			}
		}()
	}

	wg.Wait()
}

func TestEvaluationTrace(t *testing.T) {
	root, err := Parse("eq(1, '1')", WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	var sink traceSink

	if _, err := root.Evaluate(&Context{Trace: &sink}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Evaluating: eq(1, '1')",
		"  => (Number) 1",
		"Result: True",
	}

	if len(sink.lines) != len(want) {
		t.Fatalf("trace = %q, want %q", sink.lines, want)
	}

	for i := range want {
		if sink.lines[i] != want[i] {
			t.Errorf("trace line %d = %q, want %q", i, sink.lines[i], want[i])
		}
	}
}

func TestRegistryValidation(t *testing.T) {
	nop := func(*Context, []Value) (Value, error) {
		return NewNull(), nil
	}

	_, err := NewRegistry(
		Extension{Name: "always", Func: nop},
		Extension{Name: "ALWAYS", Func: nop},
	)
	if !errors.Is(err, ErrDuplicateExtension) {
		t.Errorf("duplicate registration error = %v", err)
	}

	_, err = NewRegistry(Extension{Name: "", Func: nop})
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("empty name error = %v", err)
	}

	_, err = NewRegistry(Extension{Name: "f", MinParameters: 2, MaxParameters: 1, Func: nop})
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("inverted arity error = %v", err)
	}
}
