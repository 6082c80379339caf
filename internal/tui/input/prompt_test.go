package input

import (
	"reflect"
	"testing"
)

var testCommands = []PromptCommand{
	{Name: "/new", Args: "<table>", Description: "New table"},
	{Name: "/dup", Args: "<table>", Description: "Duplicate"},
	{Name: "/delete", Description: "Delete"},
}

func TestPromptMatchingCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no_slash", input: "new", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "full", input: "/new", want: 1},
		{name: "prefix", input: "/d", want: 2},
		{name: "case_insensitive", input: "/NE", want: 1},
		{name: "with_space", input: "/new x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptMatchingCommands(tt.input, testCommands)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPromptAutocomplete(t *testing.T) {
	value, ok := PromptAutocomplete("/n", testCommands)
	if !ok {
		t.Fatal("expected autocomplete")
	}
	if value != "/new " {
		t.Fatalf("value = %q, want %q", value, "/new ")
	}

	if _, ok := PromptAutocomplete("/zzz", testCommands); ok {
		t.Fatal("expected no autocomplete")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{line: "/new  physics ", wantName: "/new", wantArgs: []string{"physics"}, wantOK: true},
		{line: "/ADD Mon 3-4 Algebra", wantName: "/add", wantArgs: []string{"Mon", "3-4", "Algebra"}, wantOK: true},
		{line: "/delete", wantName: "/delete", wantArgs: []string{}, wantOK: true},
		{line: "hello", wantOK: false},
		{line: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, args, ok := Parse(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("Parse(%q) = %q %v, want %q %v", tt.line, name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	if got := testCommands[0].Usage(); got != "/new <table>" {
		t.Errorf("Usage() = %q", got)
	}
	if got := testCommands[2].Usage(); got != "/delete" {
		t.Errorf("Usage() = %q", got)
	}
}
