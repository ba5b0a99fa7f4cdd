package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryTag(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"no tags", nil, "default"},
		{"empty first tag", []string{""}, "default"},
		{"first of many", []string{"users", "admin"}, "users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := OperationDescriptor{Tags: tt.tags}
			if got := op.PrimaryTag(); got != tt.want {
				t.Errorf("PrimaryTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPISummary_Recount(t *testing.T) {
	s := APISummary{
		Title: "Pet Store",
		Endpoints: []OperationDescriptor{
			{Path: "/pets", Method: "get", Tags: []string{"pets"}},
			{Path: "/pets", Method: "POST", Tags: []string{"pets", "write"}},
			{Path: "/login", Method: "POST", Security: []map[string][]string{{"apiKey": {}}}},
		},
	}

	s.Recount()

	assert.Equal(t, 3, s.TotalEndpoints)
	assert.Equal(t, map[string]int{"GET": 1, "POST": 2}, s.MethodCounts)
	assert.Equal(t, map[string]int{"pets": 2, "write": 1, "default": 1}, s.TagCounts)
	assert.True(t, s.HasAuth)
}

func TestAPISummary_ValidationWarnings(t *testing.T) {
	s := APISummary{
		Endpoints: []OperationDescriptor{
			{Path: "/old", Method: "get", Deprecated: true},
		},
	}

	warnings := s.ValidationWarnings()

	assert.Contains(t, warnings, "missing API title")
	assert.Contains(t, warnings, "deprecated operation: GET /old")
	assert.NotContains(t, warnings, "no operations defined")
}

func TestAPISummary_ValidationWarnings_Clean(t *testing.T) {
	s := APISummary{
		Title:     "Pet Store",
		Endpoints: []OperationDescriptor{{Path: "/pets", Method: "GET"}},
	}
	assert.Empty(t, s.ValidationWarnings())
}
