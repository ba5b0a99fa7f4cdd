package analyzer

import (
	"testing"

	"github.com/specmint/specmint/types"
)

func TestHeuristicTokenizer_CountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"four chars per token rounds up", 8},
	}
	tok := HeuristicTokenizer{}
	for _, tt := range tests {
		if got := tok.CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCanonicalText_Deterministic(t *testing.T) {
	op := types.OperationDescriptor{
		Path:    "/users",
		Method:  "GET",
		Summary: "List users",
		Tags:    []string{"users"},
	}
	a := canonicalText(&op)
	b := canonicalText(&op)
	if a != b {
		t.Fatalf("canonical text not stable: %q vs %q", a, b)
	}
	if a == "" {
		t.Fatal("canonical text empty")
	}
}
