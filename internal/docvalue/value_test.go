package docvalue

import (
	"reflect"
	"testing"
)

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := ParseString(`{"Zeta": 1, "Alpha": 2, "Mid": 3}`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if v.Kind() != KindObject {
		t.Fatalf("Kind() = %v, want Object", v.Kind())
	}
	got := v.ObjectKeys()
	want := []string{"Zeta", "Alpha", "Mid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ObjectKeys() = %v, want %v", got, want)
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
	}{
		{"null", `null`, KindNull},
		{"true", `true`, KindBoolean},
		{"false", `false`, KindBoolean},
		{"string", `"hello"`, KindString},
		{"integer", `42`, KindInt64},
		{"negative integer", `-7`, KindInt64},
		{"float", `2.5`, KindNumber},
		{"exponent", `1e3`, KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.src)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.src, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	v, err := ParseString(`{"Int": 42, "Float": 2.5}`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if got := v.ObjectGet("Int").Int64Value(); got != 42 {
		t.Errorf("Int64Value() = %d, want 42", got)
	}
	if !v.ObjectGet("Int").IsInteger() {
		t.Errorf("IsInteger() = false for 42")
	}
	if got := v.ObjectGet("Float").NumberValue(); got != 2.5 {
		t.Errorf("NumberValue() = %v, want 2.5", got)
	}
	if v.ObjectGet("Float").IsInteger() {
		t.Errorf("IsInteger() = true for 2.5")
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := Parse([]byte(`{"unterminated": `)); err == nil {
		t.Errorf("Parse() did not reject malformed input")
	}
}

func TestObjectAccessors(t *testing.T) {
	v := NewObject()
	v.ObjectSet("a", NewInt64(1))
	v.ObjectSet("b", NewString("x"))
	v.ObjectSet("a", NewInt64(2)) // replace in place, order unchanged

	if got := v.ObjectKeys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ObjectKeys() = %v, want [a b]", got)
	}
	if got := v.ObjectGet("a").Int64Value(); got != 2 {
		t.Errorf("ObjectGet(a) = %d, want 2", got)
	}
	if !v.ObjectHas("b") || v.ObjectHas("c") {
		t.Errorf("ObjectHas() gave wrong membership")
	}
	if v.ObjectGet("missing") != nil {
		t.Errorf("ObjectGet(missing) != nil")
	}
}

func TestIntTruncation(t *testing.T) {
	if got := NewNumber(3.9).Int(); got != 3 {
		t.Errorf("Int() = %d, want 3", got)
	}
	if got := NewInt64(7).Int(); got != 7 {
		t.Errorf("Int() = %d, want 7", got)
	}
	if got := NewString("7").Int(); got != 0 {
		t.Errorf("Int() on string = %d, want 0", got)
	}
}

func TestMarshalIndentKeepsOrder(t *testing.T) {
	v, err := ParseString(`{"b": 1, "a": [true, null]}`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	got := string(v.MarshalIndent("    "))
	want := `{
    "b": 1,
    "a": [
        true,
        null
    ]
}`
	if got != want {
		t.Errorf("MarshalIndent() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshalIndentEmptyContainers(t *testing.T) {
	v, err := ParseString(`{"obj": {}, "arr": []}`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	got := string(v.MarshalIndent("    "))
	want := `{
    "obj": {},
    "arr": []
}`
	if got != want {
		t.Errorf("MarshalIndent() =\n%s\nwant\n%s", got, want)
	}
}
