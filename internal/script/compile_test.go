package script

import (
	"errors"
	"testing"
	"time"
)

func TestCompile_Predicate(t *testing.T) {
	s := newTestState(t)

	tests := []struct {
		src  string
		item string
		want bool
	}{
		{`#item > 2`, "abc", true},
		{`#item > 2`, "ab", false},
		{`item:sub(1, 1) ~= "#"`, "# comment", false},
		{`item:find("go", 1, true)`, "golang", true},
		{`item:find("go", 1, true)`, "rust", false},
		{"local n = tonumber(item)\nreturn n ~= nil and n % 2 == 0", "4", true},
		{"local n = tonumber(item)\nreturn n ~= nil and n % 2 == 0", "x", false},
	}

	for _, tt := range tests {
		fn, err := s.Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", tt.src, err)
		}
		got, err := fn.Bool(tt.item)
		if err != nil {
			t.Fatalf("Bool(%q) error = %v", tt.item, err)
		}
		if got != tt.want {
			t.Errorf("%s with %q = %v, want %v", tt.src, tt.item, got, tt.want)
		}
	}
}

func TestCompile_Mapper(t *testing.T) {
	s := newTestState(t)

	tests := []struct {
		src  string
		item string
		want string
	}{
		{`item:upper()`, "abc", "ABC"},
		{`#item`, "abcd", "4"},
		{`nil`, "x", ""},
		{"return prefix .. item", "x", "> x"},
	}

	s.SetVars(map[string]string{"prefix": "> "})
	for _, tt := range tests {
		fn, err := s.Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", tt.src, err)
		}
		got, err := fn.String(tt.item)
		if err != nil {
			t.Fatalf("String(%q) error = %v", tt.item, err)
		}
		if got != tt.want {
			t.Errorf("%s with %q = %q, want %q", tt.src, tt.item, got, tt.want)
		}
		if fn.Source() != tt.src {
			t.Errorf("Source() = %q", fn.Source())
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	s := newTestState(t)

	var ce *CompileError
	if _, err := s.Compile(`item +`); !errors.As(err, &ce) {
		t.Errorf("Compile(syntax error) error = %v, want *CompileError", err)
	}

	fn, err := s.Compile(`item + 1`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := fn.Bool("not a number"); err == nil {
		t.Error("Bool() with runtime error succeeded")
	}
}

func TestFunc_Adapters(t *testing.T) {
	s := newTestState(t)

	fn, err := s.Compile(`error("boom")`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var failures []string
	onErr := func(item string, err error) { failures = append(failures, item) }

	if fn.Predicate(onErr)("a") {
		t.Error("Predicate() accepted an item on error")
	}
	if got := fn.Mapper(onErr)("b"); got != "b" {
		t.Errorf("Mapper() = %q on error, want the original item", got)
	}
	if len(failures) != 2 || failures[0] != "a" || failures[1] != "b" {
		t.Errorf("failures = %v, want [a b]", failures)
	}

	// A nil handler is allowed.
	_ = fn.Predicate(nil)("c")
}

func TestFunc_Timeout(t *testing.T) {
	s := newTestState(t, WithTimeout(20*time.Millisecond))

	fn, err := s.Compile("while true do end\nreturn item")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := fn.Call("x"); !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("Call() error = %v, want ErrExecutionTimeout", err)
	}
}
