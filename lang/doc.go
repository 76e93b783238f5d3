// Package lang implements the condition expression language used to gate
// pipeline step execution on expressions such as
//
//	and(succeeded(), eq(variables('env'), 'prod'))
//
// The package contains three tightly coupled subsystems:
//
//   - a lexical analyzer producing a lazy token stream with
//     position-dependent classification,
//   - a recursive parser validating grammar and per-function arities while
//     building an immutable abstract syntax tree, and
//   - an evaluator executing the tree against a caller-supplied state with a
//     seven-kind value model and a full set of inter-kind coercion rules.
//
// # Grammar
//
// Informal EBNF:
//
//	Expression → ε | Value
//	Value      → Literal | Indexable
//	Indexable  → Call | Indexable '[' Value ']' | Indexable '.' Property
//	Call       → Function '(' (Value (',' Value)*)? ')'
//
// Only calls and the results of indexing can be indexed; a literal
// followed by '[' or '.' is a parse error.
//	Literal    → Boolean | Number | Version | String
//	Function   → built-in name | registered extension name
//
// Function names are matched case-insensitively. Dereference and bracket
// indexing desugar to the same tree shape: a.b and a['b'] are identical.
//
// # Values
//
// Evaluation produces values of seven kinds: Boolean, Number, String,
// Version, Array, Object, and Null. Number is a fixed-precision signed
// decimal with 28 significant digits. String comparison folds ASCII case.
// Array and Object are opaque handles into a caller-supplied JSON-like
// document compared by reference identity.
//
// Comparison is asymmetric: the left operand's kind selects the target kind
// and the right operand is coerced toward it. Failed equality coercions
// yield inequality; failed ordering coercions raise a [ConvertError].
//
// # Concurrency
//
// A parsed [Root] is immutable and may be evaluated concurrently provided
// each evaluation uses its own [Context].
package lang
