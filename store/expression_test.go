package store_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacentio/dynamodb-actions/store"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a,b", []string{"a", "b"}},
		{" a , b ,c ", []string{"a", "b", "c"}},
		{"single", []string{"single"}},
		{"a,,b", []string{"a", "", "b"}},
		{"", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := store.SplitList(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBuildInlineUpdate(t *testing.T) {
	update, err := store.BuildInlineUpdate("a,b", "1,2")
	if err != nil {
		t.Fatalf("BuildInlineUpdate failed: %v", err)
	}

	if update.Expression != "set a = :a, b = :b" {
		t.Errorf("unexpected expression %q", update.Expression)
	}
	expected := map[string]any{":a": "1", ":b": "2"}
	if !reflect.DeepEqual(update.Values, expected) {
		t.Errorf("expected values %v, got %v", expected, update.Values)
	}
}

func TestBuildInlineUpdate_SingleAttribute(t *testing.T) {
	update, err := store.BuildInlineUpdate(" status ", " done ")
	if err != nil {
		t.Fatalf("BuildInlineUpdate failed: %v", err)
	}

	if update.Expression != "set status = :status" {
		t.Errorf("expected no trailing separator, got %q", update.Expression)
	}
	if update.Values[":status"] != "done" {
		t.Errorf("expected trimmed value 'done', got %v", update.Values[":status"])
	}
}

func TestBuildUpdate_KeepsValueTypes(t *testing.T) {
	nested := map[string]any{"tags": []any{"x"}}
	update, err := store.BuildUpdate([]string{"meta"}, []any{nested})
	if err != nil {
		t.Fatalf("BuildUpdate failed: %v", err)
	}
	if !reflect.DeepEqual(update.Values[":meta"], nested) {
		t.Errorf("expected nested value kept, got %v", update.Values[":meta"])
	}
}

func TestBuildUpdate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		values   []any
		expected error
	}{
		{"empty", nil, nil, store.ErrUpdateEmpty},
		{"mismatch", []string{"a", "b"}, []any{"1"}, store.ErrUpdateMismatch},
		{"more values", []string{"a"}, []any{"1", "2"}, store.ErrUpdateMismatch},
		{"empty name", []string{"a", ""}, []any{"1", "2"}, store.ErrUpdateEmptyName},
		{"duplicate", []string{"a", "a"}, []any{"1", "2"}, store.ErrUpdateDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.BuildUpdate(tt.names, tt.values)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
