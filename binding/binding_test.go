package binding

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestInterpolate(t *testing.T) {
	var data map[string]any
	raw := `{"name": "Ada", "book": {"title": "Notes", "pages": [12, 3.5]}, "empty": null}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"hello ${name}", "hello Ada"},
		{"${ book.title } has ${book.pages[0]} pages", "Notes has 12 pages"},
		{"ratio ${book.pages[1]}", "ratio 3.5"},
		{"[${empty}]", "[]"},
		{"no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		got, err := Interpolate(tt.in, data)
		if err != nil {
			t.Fatalf("Interpolate(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := Interpolate("${name} ${book.pages[5]} ${nope}", data)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if got, err := Interpolate("${name}", nil); err != nil || got != "${name}" {
		t.Fatalf("nil data should leave text alone, got %q %v", got, err)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"rows": []any{[]any{"a", "b"}, map[string]any{"x": 1.0}},
	}
	if v, ok := Lookup(data, "rows[0][1]"); !ok || v != "b" {
		t.Fatalf("rows[0][1] = %v, %v", v, ok)
	}
	if v, ok := Lookup(data, "rows[1].x"); !ok || v != 1.0 {
		t.Fatalf("rows[1].x = %v, %v", v, ok)
	}
	for _, path := range []string{"", "rows[2]", "rows[x]", "rows[0", "rows.x", "rows[0]z"} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) should fail", path)
		}
	}
}
