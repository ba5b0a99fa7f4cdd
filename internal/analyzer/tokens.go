package analyzer

import (
	"encoding/json"

	"github.com/specmint/specmint/types"
)

// Tokenizer counts generation-service tokens in a piece of text. A real
// model tokenizer can be plugged in; HeuristicTokenizer is the zero-setup
// default.
type Tokenizer interface {
	CountTokens(text string) int
}

// HeuristicTokenizer estimates tokens with the industry standard
// approximation of ~4 characters per token. Intentionally simple and
// dependency-free for fast, predictable behavior.
type HeuristicTokenizer struct{}

// CountTokens returns the estimated token count for text, rounding up to be
// conservative.
func (HeuristicTokenizer) CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// canonicalText serializes a descriptor to the compact JSON form used for
// token estimation. Serialization failures degrade to the summary line so
// an estimate is always produced.
func canonicalText(op *types.OperationDescriptor) string {
	data, err := json.Marshal(op)
	if err != nil {
		return op.Method + " " + op.Path + " " + op.Summary
	}
	return string(data)
}
