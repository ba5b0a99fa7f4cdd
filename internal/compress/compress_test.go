package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmint/specmint/types"
)

func sampleOp() *types.OperationDescriptor {
	long := strings.Repeat("Creates a user account with the given payload. ", 10)
	return &types.OperationDescriptor{
		Path:        "/users",
		Method:      "POST",
		Summary:     "Create user",
		Description: long,
		Parameters: []types.Parameter{
			{Name: "dryRun", In: "query", Description: long, Schema: &types.Schema{Type: "boolean"}},
		},
		RequestBody: &types.RequestBody{
			Description: long,
			Content: map[string]types.MediaType{
				"application/json": {Schema: &types.Schema{
					Type:     "object",
					Required: []string{"email"},
					Properties: map[string]*types.Schema{
						"email": {Type: "string", Format: "email", Example: "a@b.co", Description: long},
						"role":  {Type: "string", Enum: []string{"admin", "member"}},
					},
				}},
			},
		},
		Responses: map[string]types.Response{
			"201": {Description: long, Content: map[string]types.MediaType{
				"application/json": {Schema: &types.Schema{Ref: "#/components/schemas/User"}},
			}},
		},
	}
}

func TestCompress_NeverMutatesInput(t *testing.T) {
	op := sampleOp()
	originalDesc := op.Description
	originalPropDesc := op.RequestBody.Content["application/json"].Schema.Properties["email"].Description

	_ = New(LevelAggressive).Compress(op)

	assert.Equal(t, originalDesc, op.Description)
	assert.Equal(t, originalPropDesc, op.RequestBody.Content["application/json"].Schema.Properties["email"].Description)
	assert.NotNil(t, op.RequestBody.Content["application/json"].Schema.Properties["email"].Example)
}

func TestCompress_StructuralFieldsSurviveEveryLevel(t *testing.T) {
	for _, level := range []Level{LevelAggressive, LevelBalanced, LevelConservative} {
		t.Run(string(level), func(t *testing.T) {
			out := New(level).Compress(sampleOp())

			schema := out.RequestBody.Content["application/json"].Schema
			require.NotNil(t, schema)
			assert.Equal(t, "object", schema.Type)
			assert.Equal(t, []string{"email"}, schema.Required)
			assert.Contains(t, schema.Properties, "email")
			assert.Equal(t, []string{"admin", "member"}, schema.Properties["role"].Enum)
			assert.Equal(t, "#/components/schemas/User",
				out.Responses["201"].Content["application/json"].Schema.Ref)
		})
	}
}

func TestCompress_AggressiveDropsExamplesAndFormats(t *testing.T) {
	out := New(LevelAggressive).Compress(sampleOp())
	email := out.RequestBody.Content["application/json"].Schema.Properties["email"]
	assert.Nil(t, email.Example)
	assert.Empty(t, email.Format)
}

func TestCompress_ConservativeKeepsExamplesAndFormats(t *testing.T) {
	out := New(LevelConservative).Compress(sampleOp())
	email := out.RequestBody.Content["application/json"].Schema.Properties["email"]
	assert.Equal(t, "a@b.co", email.Example)
	assert.Equal(t, "email", email.Format)
}

func TestCompress_DescriptionsShrinkMoreAtAggressive(t *testing.T) {
	op := sampleOp()
	aggressive := New(LevelAggressive).Compress(op)
	conservative := New(LevelConservative).Compress(op)

	assert.Less(t, len(aggressive.Description), len(conservative.Description))
	assert.Less(t, len(conservative.Description), len(op.Description))
}

func TestTruncate_PrefersSentenceBoundary(t *testing.T) {
	o := New(LevelBalanced)
	// At ratio 0.6 the cut lands past the first sentence's period, which sits
	// beyond 70% of the cut length.
	text := "First sentence of reasonable length here. Second sentence provides more."
	got := o.truncate(text)
	assert.True(t, strings.HasSuffix(got, "."), "got %q", got)
	assert.Less(t, len(got), len(text))
}

func TestTruncate_EmptyAndShortTextUntouched(t *testing.T) {
	o := New(LevelAggressive)
	assert.Equal(t, "", o.truncate(""))
	assert.Equal(t, "ab", o.truncate("ab"))
}

func TestTruncate_ShortTextSurvivesEveryLevel(t *testing.T) {
	// A one-line summary must come through intact; cutting it would save a
	// handful of characters and then spend three on the ellipsis.
	for _, level := range []Level{LevelAggressive, LevelBalanced, LevelConservative} {
		t.Run(string(level), func(t *testing.T) {
			out := New(level).Compress(&types.OperationDescriptor{
				Path: "/users/{id}", Method: "GET", Summary: "Fetch one user",
			})
			assert.Equal(t, "Fetch one user", out.Summary)
		})
	}
}

func TestTruncate_CutNeverLandsBelowFloor(t *testing.T) {
	o := New(LevelAggressive)
	text := strings.Repeat("x", 100)
	got := o.truncate(text)
	// Ratio 0.3 would cut at 30; the floor raises it to 40.
	assert.Equal(t, strings.Repeat("x", 40)+"...", got)
}

func TestNew_UnknownLevelFallsBackToBalanced(t *testing.T) {
	out := New(Level("turbo")).Compress(sampleOp())
	// Balanced keeps examples but strips formats.
	email := out.RequestBody.Content["application/json"].Schema.Properties["email"]
	assert.Equal(t, "a@b.co", email.Example)
	assert.Empty(t, email.Format)
}

func TestRatio_ReportsReduction(t *testing.T) {
	ratio := New(LevelAggressive).Ratio(sampleOp())
	assert.Greater(t, ratio, 0.0)
	assert.Less(t, ratio, 1.0)
}
