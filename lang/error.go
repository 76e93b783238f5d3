package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrDuplicateExtension = NewError("duplicate extension name")
	ErrInvalidExtension   = NewError("invalid extension declaration")
)

// Error is the sentinel error type shared across the module: a fixed
// description, an optional cause, and slog attributes carried to the
// log sink. Wrap and With derive annotated copies of a sentinel, so the
// original compares equal to every derivative under errors.Is.
type Error struct {
	text  string
	cause error
	attrs []slog.Attr
}

// NewError declares a sentinel error with a fixed description.
func NewError(text string) *Error {
	return &Error{text: text}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.text

	case e.text == "":
		return e.cause.Error()

	default:
		return e.text + ": " + e.cause.Error()
	}
}

// Unwrap exposes the cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Is matches Errors by description so sentinels still compare equal
// after Wrap and With produce copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.text == e.text
}

// Wrap derives a copy of the sentinel recording cause.
func (e *Error) Wrap(cause error) *Error {
	derived := *e
	derived.cause = cause

	return &derived
}

// With derives a copy of the sentinel carrying additional log
// attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	derived := *e
	derived.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &derived
}

// LogValue implements slog.LogValuer. The cause is logged as a value of
// its own, so causes that are themselves LogValuers (ParseError,
// ConvertError) render structured rather than flattened.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	attrs = append(attrs, slog.String("error", e.text))
	attrs = append(attrs, e.attrs...)

	if e.cause != nil {
		attrs = append(attrs, slog.Any("cause", e.cause))
	}

	return slog.GroupValue(attrs...)
}

// ParseErrorKind identifies the grammar rule a parse failure violated.
type ParseErrorKind int

const (
	// ExpectedPropertyName reports a dereference not followed by a
	// property name.
	ExpectedPropertyName ParseErrorKind = iota

	// ExpectedStartParameter reports a function name not followed by '('.
	ExpectedStartParameter

	// UnclosedFunction reports a function call left open at end of input.
	UnclosedFunction

	// UnclosedIndexer reports an indexer left open at end of input.
	UnclosedIndexer

	// UnexpectedSymbol reports a token that is invalid at its position.
	UnexpectedSymbol

	// UnrecognizedValue reports a span of input matching no lexical rule.
	UnrecognizedValue
)

// String returns a string representation of the parse error kind.
func (k ParseErrorKind) String() string {
	switch k {
	case ExpectedPropertyName:
		return "ExpectedPropertyName"

	case ExpectedStartParameter:
		return "ExpectedStartParameter"

	case UnclosedFunction:
		return "UnclosedFunction"

	case UnclosedIndexer:
		return "UnclosedIndexer"

	case UnexpectedSymbol:
		return "UnexpectedSymbol"

	case UnrecognizedValue:
		return "UnrecognizedValue"

	default:
		return "Unknown"
	}
}

// description returns the human-readable failure description.
func (k ParseErrorKind) description() string {
	switch k {
	case ExpectedPropertyName:
		return "Expected a property name to follow the dereference operator"

	case ExpectedStartParameter:
		return "Expected '(' to follow a function"

	case UnclosedFunction:
		return "Unclosed function"

	case UnclosedIndexer:
		return "Unclosed indexer"

	case UnexpectedSymbol:
		return "Unexpected symbol"

	case UnrecognizedValue:
		return "Unrecognized value"

	default:
		return "Parse error"
	}
}

// ParseError is a fatal grammar or lexical failure.
//
// TokenIndex and TokenLength locate the offending token within Raw in
// bytes (zero-based); the rendered message reports a one-based position.
type ParseError struct {
	Kind        ParseErrorKind
	TokenText   string // raw text of the offending token
	TokenIndex  int
	TokenLength int
	Raw         string // the complete expression
}

// newParseError builds a ParseError for a token within raw.
func newParseError(kind ParseErrorKind, tok Token, raw string) *ParseError {
	return &ParseError{
		Kind:        kind,
		TokenText:   tok.text(raw),
		TokenIndex:  tok.Index,
		TokenLength: tok.Length,
		Raw:         raw,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.description())
	sb.WriteString(": '")
	sb.WriteString(e.TokenText)
	sb.WriteString("'. Located at position ")
	sb.WriteString(strconv.Itoa(e.TokenIndex + 1))
	sb.WriteString(" within condition expression: ")
	sb.WriteString(e.Raw)

	return sb.String()
}

// LogValue implements slog.LogValuer for structured rendering.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind.String()),
		slog.String("token", e.TokenText),
		slog.Int("index", e.TokenIndex),
		slog.Int("length", e.TokenLength),
		slog.String("expression", e.Raw),
	)
}

// ConvertError is raised by a demanded conversion that cannot be
// performed, such as ordering a Version against a Number.
type ConvertError struct {
	Value Value
	From  Kind
	To    Kind
}

// newConvertError builds a ConvertError for a failed demand conversion.
func newConvertError(v Value, to Kind) *ConvertError {
	return &ConvertError{
		Value: v,
		From:  v.Kind(),
		To:    to,
	}
}

// Error implements the error interface.
func (e *ConvertError) Error() string {
	var sb strings.Builder

	sb.WriteString("Unable to convert value '")
	sb.WriteString(e.Value.String())
	sb.WriteString("' from type ")
	sb.WriteString(e.From.String())
	sb.WriteString(" to type ")
	sb.WriteString(e.To.String())
	sb.WriteByte('.')

	return sb.String()
}

// LogValue implements slog.LogValuer for structured rendering.
func (e *ConvertError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("value", e.Value.String()),
		slog.String("from", e.From.String()),
		slog.String("to", e.To.String()),
	)
}
