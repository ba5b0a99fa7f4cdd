package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmint/specmint/types"
)

func TestScore_MinimalOperation(t *testing.T) {
	op := types.OperationDescriptor{Path: "/health", Method: "GET"}
	scored := New().Score(&op)

	// Base 1.0 plus one path segment.
	assert.InDelta(t, 1.2, scored.ComplexityScore, 1e-9)
	assert.Equal(t, types.PriorityHigh, scored.Priority)
	assert.InDelta(t, 1.0, scored.SemanticWeight, 1e-9)
	assert.Greater(t, scored.TokenEstimate, 0)
}

func TestComplexity_PathAndQueryWeights(t *testing.T) {
	op := types.OperationDescriptor{
		Path:   "/users/{id}/orders/{orderId}",
		Method: "GET",
		Parameters: []types.Parameter{
			{Name: "limit", In: "query"},
			{Name: "offset", In: "query"},
			{Name: "id", In: "path"},
		},
	}
	scored := New().Score(&op)

	// 1.0 base + 2 path params ×1.2 + 4 slashes ×0.2 + 2 query params ×1.0.
	// Path parameters listed in Parameters are already counted via the path.
	assert.InDelta(t, 1.0+2*1.2+4*0.2+2*1.0, scored.ComplexityScore, 1e-9)
}

func TestComplexity_RequestBodyAndSecurity(t *testing.T) {
	op := types.OperationDescriptor{
		Path:   "/login",
		Method: "POST",
		RequestBody: &types.RequestBody{
			Content: map[string]types.MediaType{
				"application/json": {Schema: &types.Schema{
					Type: "object",
					Properties: map[string]*types.Schema{
						"username": {Type: "string"},
						"password": {Type: "string"},
					},
				}},
			},
		},
		Security: []map[string][]string{{"apiKey": {}}},
	}
	scored := New().Score(&op)

	// 1.0 base + 0.2 path + 2.0 body + 2 properties ×0.3 + 1 security ×1.3.
	assert.InDelta(t, 1.0+0.2+2.0+0.6+1.3, scored.ComplexityScore, 1e-9)
}

func TestComplexity_ClampedAtMax(t *testing.T) {
	props := make(map[string]*types.Schema)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		props[name] = &types.Schema{
			Type: "object",
			Properties: map[string]*types.Schema{
				"x": {Type: "string"},
				"y": {Type: "string"},
			},
		}
	}
	op := types.OperationDescriptor{
		Path:   "/bulk/{a}/{b}/{c}",
		Method: "POST",
		RequestBody: &types.RequestBody{
			Content: map[string]types.MediaType{
				"application/json": {Schema: &types.Schema{Type: "object", Properties: props}},
			},
		},
	}
	scored := New().Score(&op)
	assert.InDelta(t, 10.0, scored.ComplexityScore, 1e-9)
}

func TestSchemaComplexity_CircularRefsTerminate(t *testing.T) {
	// A node whose property references itself by name. The second visit of
	// the same ref contributes the flat penalty and stops.
	node := &types.Schema{Ref: "#/components/schemas/Node"}
	schema := &types.Schema{
		Ref:  "#/components/schemas/Node",
		Type: "object",
		Properties: map[string]*types.Schema{
			"parent": node,
		},
	}

	got := schemaComplexity(schema, newVisitSet())

	// First visit: 1.5 ref + 1 property ×0.3; the child ref adds 1.5 and
	// terminates as already visited.
	assert.InDelta(t, 1.5+0.3+1.5, got, 1e-9)
}

func TestSchemaComplexity_ArrayItems(t *testing.T) {
	schema := &types.Schema{
		Type: "array",
		Items: &types.Schema{
			Type: "object",
			Properties: map[string]*types.Schema{
				"id": {Type: "string"},
			},
		},
	}
	got := schemaComplexity(schema, newVisitSet())

	// 1.8 array + items contribution (1 property ×0.3) ×0.7.
	assert.InDelta(t, 1.8+0.3*0.7, got, 1e-9)
}

func TestSemanticWeight(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want float64
	}{
		{"no tags", nil, 1.0},
		{"unimportant tag", []string{"pets"}, 1.0},
		{"single important tag", []string{"users"}, 1.5},
		{"substring match", []string{"user-management"}, 1.5},
		{"case insensitive", []string{"AUTH"}, 1.5},
		{"capped at two", []string{"auth", "users", "login", "account"}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := semanticWeight(tt.tags)
			if got != tt.want {
				t.Errorf("semanticWeight(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		method string
		score  float64
		want   types.PriorityTier
	}{
		{"GET", 9.5, types.PriorityHigh},
		{"POST", 7.0, types.PriorityHigh},
		{"DELETE", 2.5, types.PriorityHigh},
		{"PUT", 4.0, types.PriorityMedium},
		{"PATCH", 8.0, types.PriorityMedium},
		{"DELETE", 4.0, types.PriorityMedium},
		{"DELETE", 6.0, types.PriorityLow},
		{"options", 9.0, types.PriorityLow},
	}
	for _, tt := range tests {
		got := priorityFor(tt.method, tt.score)
		if got != tt.want {
			t.Errorf("priorityFor(%q, %v) = %v, want %v", tt.method, tt.score, got, tt.want)
		}
	}
}

func TestScoreAll_PreservesOrderAndDeterminism(t *testing.T) {
	ops := []types.OperationDescriptor{
		{Path: "/users", Method: "GET", Tags: []string{"users"}},
		{Path: "/users/{id}", Method: "DELETE", Tags: []string{"users"}},
		{Path: "/pets", Method: "POST", Tags: []string{"pets"}},
	}

	first := New().ScoreAll(ops)
	second := New().ScoreAll(ops)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, ops[i].Path, first[i].Descriptor.Path)
		assert.Equal(t, first[i].ComplexityScore, second[i].ComplexityScore)
		assert.Equal(t, first[i].TokenEstimate, second[i].TokenEstimate)
	}
}

type fixedTokenizer int

func (f fixedTokenizer) CountTokens(string) int { return int(f) }

func TestWithTokenizer(t *testing.T) {
	op := types.OperationDescriptor{Path: "/x", Method: "GET"}
	scored := New(WithTokenizer(fixedTokenizer(42))).Score(&op)
	assert.Equal(t, 42, scored.TokenEstimate)
}
