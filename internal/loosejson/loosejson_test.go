package loosejson

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParse_Absent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"blank", "   \n\t"},
		{"bare word", "not json"},
		{"single bare word", "abc"},
		{"undefined", "undefined"},
		{"unterminated object", `{"k": 1`},
		{"unterminated string", `"abc`},
		{"unterminated single quoted", `'abc`},
		{"trailing garbage", `{"k":1} x`},
		{"two values", `1 2`},
		{"identifier value", `{key: foo}`},
		{"expression", `1 + 2`},
		{"bad number", `1.2.3`},
		{"lone dot", `.`},
		{"negative key", `{-1: 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Parse(tt.raw)
			if ok {
				t.Errorf("expected absent, got %#v", v)
			}
			if v != nil {
				t.Errorf("expected nil value, got %#v", v)
			}
		})
	}
}

func TestParse_Values(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected any
	}{
		{"object", `{"k":1}`, map[string]any{"k": json.Number("1")}},
		{"bare keys", `{key: "foo", createdAt: 12345}`, map[string]any{"key": "foo", "createdAt": json.Number("12345")}},
		{"single quotes", `{'key': 'it\'s'}`, map[string]any{"key": "it's"}},
		{"single quoted with double quote", `'say "hi"'`, `say "hi"`},
		{"trailing commas", `{"a": [1, 2,], }`, map[string]any{"a": []any{json.Number("1"), json.Number("2")}}},
		{"array of objects", `[{key: "foo"}, {key: "bar"}]`, []any{map[string]any{"key": "foo"}, map[string]any{"key": "bar"}}},
		{"true", "true", true},
		{"false", " false ", false},
		{"null", "null", nil},
		{"number", "42", json.Number("42")},
		{"negative exponent", "-1.5e3", json.Number("-1.5e3")},
		{"string", `"foo"`, "foo"},
		{"string containing colon", `{"url": "http://x"}`, map[string]any{"url": "http://x"}},
		{"keyword as key", `{true: 1}`, map[string]any{"true": json.Number("1")}},
		{"nested", `{obj: {field: "value"}, arr: ['is', 'fun'], empty: null}`, map[string]any{
			"obj":   map[string]any{"field": "value"},
			"arr":   []any{"is", "fun"},
			"empty": nil,
		}},
		{"unicode key", `{ключ: 1}`, map[string]any{"ключ": json.Number("1")}},
		{"numeric key", `{1: 2}`, map[string]any{"1": json.Number("2")}},
		{"decimal key", `{1.5 : 'x'}`, map[string]any{"1.5": "x"}},
		{"leading dot", ".5", json.Number("0.5")},
		{"negative leading dot", "-.5", json.Number("-0.5")},
		{"leading dot in array", "[.25, 1]", []any{json.Number("0.25"), json.Number("1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("expected value, got absent")
			}
			if !reflect.DeepEqual(v, tt.expected) {
				t.Errorf("expected %#v, got %#v", tt.expected, v)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	raw := `{key: 'foo', n: 1,}`
	first, _ := Parse(raw)
	for i := 0; i < 10; i++ {
		v, ok := Parse(raw)
		if !ok || !reflect.DeepEqual(v, first) {
			t.Fatalf("run %d: expected %#v, got %#v", i, first, v)
		}
	}
}

func TestRelax_LeavesStrictJSONUntouched(t *testing.T) {
	in := `{"a": "b, ]", "c": [1, 2]}`
	out, err := relax(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != in {
		t.Errorf("expected %q, got %q", in, out)
	}
}
