package lang

import (
	"strings"
	"testing"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		str  string
	}{
		{name: "nil", in: nil, kind: KindNull, str: "null"},
		{name: "bool", in: true, kind: KindBoolean, str: "True"},
		{name: "string", in: "abc", kind: KindString, str: "abc"},
		{name: "int", in: 42, kind: KindNumber, str: "42"},
		{name: "int64", in: int64(-9), kind: KindNumber, str: "-9"},
		{name: "uint64", in: uint64(18446744073709551615), kind: KindNumber, str: "18446744073709551615"},
		{name: "float64", in: 0.5, kind: KindNumber, str: "0.5"},
		{name: "slice", in: []any{1, 2}, kind: KindArray, str: "Array"},
		{name: "map", in: map[string]any{"k": 1}, kind: KindObject, str: "Object"},
		{name: "opaque struct", in: struct{ X int }{1}, kind: KindObject, str: "Object"},
		{name: "value passthrough", in: NewString("x"), kind: KindString, str: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromAny(tt.in)
			if v.Kind() != tt.kind {
				t.Errorf("FromAny(%v).Kind() = %v, want %v",
					tt.in, v.Kind(), tt.kind)
			}

			if v.String() != tt.str {
				t.Errorf("FromAny(%v).String() = %q, want %q",
					tt.in, v.String(), tt.str)
			}
		})
	}
}

func TestWriterTrace(t *testing.T) {
	var sb strings.Builder

	tr := WriterTrace{W: &sb}
	tr.Verbose("one")
	tr.Info("two")

	if sb.String() != "one\ntwo\n" {
		t.Errorf("output = %q", sb.String())
	}

	// A nil writer must not panic.
	WriterTrace{}.Verbose("dropped")
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindNull:    "Null",
		KindBoolean: "Boolean",
		KindNumber:  "Number",
		KindString:  "String",
		KindVersion: "Version",
		KindArray:   "Array",
		KindObject:  "Object",
	}

	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
