// Package compress shrinks operation payloads before prompting, trading
// descriptive detail for token headroom without losing structural facts.
package compress

import (
	"encoding/json"
	"strings"

	"github.com/specmint/specmint/types"
)

// Level selects how aggressively payloads are compressed.
type Level string

const (
	LevelAggressive   Level = "aggressive"
	LevelBalanced     Level = "balanced"
	LevelConservative Level = "conservative"
)

// settings are the per-level knobs.
type settings struct {
	descriptionRatio float64 // fraction of description text kept
	dropExamples     bool
	simplifySchemas  bool
}

var levelSettings = map[Level]settings{
	LevelAggressive:   {descriptionRatio: 0.3, dropExamples: true, simplifySchemas: true},
	LevelBalanced:     {descriptionRatio: 0.6, dropExamples: false, simplifySchemas: true},
	LevelConservative: {descriptionRatio: 0.8, dropExamples: false, simplifySchemas: false},
}

// Optimizer compresses operation descriptors. Safe for concurrent use.
type Optimizer struct {
	cfg settings
}

// New creates an Optimizer for the given level. Unknown levels fall back to
// balanced.
func New(level Level) *Optimizer {
	cfg, ok := levelSettings[level]
	if !ok {
		cfg = levelSettings[LevelBalanced]
	}
	return &Optimizer{cfg: cfg}
}

// Compress returns a reduced copy of the descriptor. The input is never
// mutated.
func (o *Optimizer) Compress(op *types.OperationDescriptor) *types.OperationDescriptor {
	out := *op
	out.Description = o.truncate(op.Description)
	out.Summary = o.truncate(op.Summary)

	if len(op.Parameters) > 0 {
		params := make([]types.Parameter, len(op.Parameters))
		for i, p := range op.Parameters {
			params[i] = p
			params[i].Description = o.truncate(p.Description)
			params[i].Schema = o.compressSchema(p.Schema)
		}
		out.Parameters = params
	}

	if op.RequestBody != nil {
		rb := *op.RequestBody
		rb.Description = o.truncate(rb.Description)
		rb.Content = o.compressContent(rb.Content)
		out.RequestBody = &rb
	}

	if len(op.Responses) > 0 {
		responses := make(map[string]types.Response, len(op.Responses))
		for status, resp := range op.Responses {
			resp.Description = o.truncate(resp.Description)
			resp.Content = o.compressContent(resp.Content)
			responses[status] = resp
		}
		out.Responses = responses
	}

	return &out
}

func (o *Optimizer) compressContent(content map[string]types.MediaType) map[string]types.MediaType {
	if len(content) == 0 {
		return content
	}
	out := make(map[string]types.MediaType, len(content))
	for mediaType, media := range content {
		out[mediaType] = types.MediaType{Schema: o.compressSchema(media.Schema)}
	}
	return out
}

// compressSchema keeps the structural essentials of a schema tree. Type,
// properties, required, items, enum and $ref always survive; descriptions
// shrink and examples drop according to the level.
func (o *Optimizer) compressSchema(s *types.Schema) *types.Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Description = o.truncate(s.Description)
	if o.cfg.dropExamples {
		out.Example = nil
	}
	if o.cfg.simplifySchemas {
		out.Format = ""
	}
	if len(s.Properties) > 0 {
		props := make(map[string]*types.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = o.compressSchema(prop)
		}
		out.Properties = props
	}
	out.Items = o.compressSchema(s.Items)
	return &out
}

// minTruncateLength is the shortest text truncation applies to. Below it the
// ellipsis would eat most of the savings.
const minTruncateLength = 40

// truncate shortens text to the configured ratio, preferring to break at a
// sentence boundary when one falls reasonably close to the cut. Text at or
// under minTruncateLength is returned unchanged, and no cut lands below it.
func (o *Optimizer) truncate(text string) string {
	if o.cfg.descriptionRatio >= 1.0 || len(text) <= minTruncateLength {
		return text
	}
	maxLen := int(float64(len(text)) * o.cfg.descriptionRatio)
	if maxLen < minTruncateLength {
		maxLen = minTruncateLength
	}
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if period := strings.LastIndex(cut, "."); period > int(float64(maxLen)*0.7) {
		return cut[:period+1]
	}
	return cut + "..."
}

// Ratio reports the achieved compression for one descriptor as
// compressed/original serialized size. Used for diagnostics only.
func (o *Optimizer) Ratio(op *types.OperationDescriptor) float64 {
	original, err := json.Marshal(op)
	if err != nil {
		return 1.0
	}
	compressed, err := json.Marshal(o.Compress(op))
	if err != nil {
		return 1.0
	}
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(compressed)) / float64(len(original))
}
