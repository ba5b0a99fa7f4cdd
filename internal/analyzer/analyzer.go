// Package analyzer scores API operations for structural complexity and
// estimates their token footprint ahead of chunking.
package analyzer

import (
	"strings"

	"github.com/specmint/specmint/types"
)

// Weights applied per structural element when scoring an operation.
const (
	weightPathParam   = 1.2
	weightPathDepth   = 0.2
	weightQueryParam  = 1.0
	weightRequestBody = 2.0
	weightSecurity    = 1.3
	weightNestedObj   = 2.5
	weightArrayField  = 1.8
	weightEnumField   = 1.1
	weightProperty    = 0.3
	weightSchemaRef   = 1.5

	// Response schemas count at a discount relative to request schemas.
	responseFactor = 0.8
	// Damping factors for recursive schema contributions.
	arrayItemFactor     = 0.7
	nestedRecurseFactor = 0.6

	baseScore = 1.0
	maxScore  = 10.0

	maxSemanticWeight  = 2.0
	semanticTagBonus   = 0.5
	priorityScoreLow   = 3.0
	priorityScoreHigh  = 6.0
)

// importantTags is the curated vocabulary that raises an operation's
// semantic weight when matched against its tags.
var importantTags = []string{
	"auth", "authentication", "user", "users", "login", "core",
	"main", "primary", "essential", "account", "profile",
}

// Analyzer scores operation descriptors. It is stateless apart from its
// tokenizer and safe for concurrent use.
type Analyzer struct {
	tokenizer Tokenizer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTokenizer substitutes a model-accurate tokenizer for the default
// character heuristic.
func WithTokenizer(t Tokenizer) Option {
	return func(a *Analyzer) { a.tokenizer = t }
}

// New creates an Analyzer with the default heuristic tokenizer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{tokenizer: HeuristicTokenizer{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score produces the ScoredOperation for a single descriptor. It is a pure
// function of the descriptor: no I/O, deterministic output.
func (a *Analyzer) Score(op *types.OperationDescriptor) types.ScoredOperation {
	score := a.complexity(op)
	return types.ScoredOperation{
		Descriptor:      op,
		ComplexityScore: score,
		TokenEstimate:   a.tokenizer.CountTokens(canonicalText(op)),
		SemanticWeight:  semanticWeight(op.Tags),
		Priority:        priorityFor(op.Method, score),
	}
}

// ScoreAll scores every descriptor in the collection, preserving input order.
func (a *Analyzer) ScoreAll(ops []types.OperationDescriptor) []types.ScoredOperation {
	scored := make([]types.ScoredOperation, 0, len(ops))
	for i := range ops {
		scored = append(scored, a.Score(&ops[i]))
	}
	return scored
}

// complexity computes the clamped structural complexity score.
func (a *Analyzer) complexity(op *types.OperationDescriptor) float64 {
	score := baseScore

	// Path shape: parameters and nesting depth.
	score += float64(strings.Count(op.Path, "{")) * weightPathParam
	score += float64(strings.Count(op.Path, "/")) * weightPathDepth

	for i := range op.Parameters {
		if op.Parameters[i].In == "query" {
			score += weightQueryParam
		}
	}

	if op.RequestBody != nil {
		score += weightRequestBody
		for _, media := range op.RequestBody.Content {
			score += schemaComplexity(media.Schema, newVisitSet())
		}
	}

	for _, resp := range op.Responses {
		for _, media := range resp.Content {
			score += schemaComplexity(media.Schema, newVisitSet()) * responseFactor
		}
	}

	if n := len(op.Security); n > 0 {
		score += float64(n) * weightSecurity
	}

	return min(score, maxScore)
}

// visitSet tracks $ref targets already walked in one scoring pass so that
// circular reference chains terminate. A revisited ref contributes only the
// flat ref penalty.
type visitSet map[string]struct{}

func newVisitSet() visitSet { return make(visitSet) }

func (v visitSet) seen(ref string) bool {
	if _, ok := v[ref]; ok {
		return true
	}
	v[ref] = struct{}{}
	return false
}

// schemaComplexity walks a schema tree and accumulates weighted contributions
// for properties, arrays, nested objects, enums and references.
func schemaComplexity(s *types.Schema, visited visitSet) float64 {
	if s == nil {
		return 0
	}

	var score float64

	if s.Ref != "" {
		score += weightSchemaRef
		if visited.seen(s.Ref) {
			return score
		}
	}

	score += float64(len(s.Properties)) * weightProperty

	if s.Type == "array" {
		score += weightArrayField
		score += schemaComplexity(s.Items, visited) * arrayItemFactor
	}

	for _, prop := range s.Properties {
		if prop == nil {
			continue
		}
		switch {
		case prop.Type == "object":
			score += weightNestedObj
			score += schemaComplexity(prop, visited) * nestedRecurseFactor
		case len(prop.Enum) > 0:
			score += weightEnumField
		case prop.Ref != "":
			score += schemaComplexity(prop, visited)
		}
	}

	return score
}

// semanticWeight raises the weight for operations tagged with core domain
// vocabulary, capped at maxSemanticWeight.
func semanticWeight(tags []string) float64 {
	weight := 1.0
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, important := range importantTags {
			if strings.Contains(lower, important) {
				weight += semanticTagBonus
				break
			}
		}
	}
	return min(weight, maxSemanticWeight)
}

// priorityFor assigns the scheduling tier from HTTP method and score.
// Reads and creates run first; complex mutations run last.
func priorityFor(method string, score float64) types.PriorityTier {
	switch strings.ToUpper(method) {
	case "GET", "POST":
		return types.PriorityHigh
	}
	if score < priorityScoreLow {
		return types.PriorityHigh
	}
	switch strings.ToUpper(method) {
	case "PUT", "PATCH":
		return types.PriorityMedium
	}
	if score < priorityScoreHigh {
		return types.PriorityMedium
	}
	return types.PriorityLow
}
