// Package chunker packs scored operations into token- and count-bounded
// chunks ready for generation.
package chunker

import (
	"fmt"
	"sort"

	"github.com/specmint/specmint/internal/semantic"
	"github.com/specmint/specmint/types"
)

// splitThresholdFactor triggers the split pass for chunks close to the hard
// token ceiling, provided enough members exist to split meaningfully.
const splitThresholdFactor = 0.9

// Builder packs operations into chunks under the configured bounds.
type Builder struct {
	cfg types.ChunkingConfig
}

// NewBuilder creates a Builder. Bounds are assumed pre-validated by the
// configuration layer.
func NewBuilder(cfg types.ChunkingConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build chunks the full scored collection. With semantic grouping enabled
// each tag group is packed independently; otherwise all operations pack as a
// single "mixed" group. The returned chunks have already been through the
// split pass.
func (b *Builder) Build(ops []types.ScoredOperation) []types.Chunk {
	var chunks []types.Chunk
	if b.cfg.SemanticGrouping {
		groups := semantic.Group(ops)
		for _, key := range groups.Keys() {
			chunks = append(chunks, b.packGroup(groups.Members(key), key)...)
		}
	} else {
		chunks = b.packGroup(ops, "mixed")
	}
	return b.splitOversized(chunks)
}

// packGroup greedily accumulates one group's operations into chunks.
// A new chunk opens when the projected token sum would cross the hard
// ceiling, when the target is crossed with the minimum count met, or when
// the member cap is reached. The final partial chunk is always flushed.
func (b *Builder) packGroup(ops []types.ScoredOperation, group string) []types.Chunk {
	if len(ops) == 0 {
		return nil
	}

	sorted := make([]types.ScoredOperation, len(ops))
	copy(sorted, ops)
	// High priority first; within a tier the most complex operations are
	// placed first so no single chunk absorbs all hard items late.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ComplexityScore > sorted[j].ComplexityScore
	})

	var chunks []types.Chunk
	var current []types.ScoredOperation
	currentTokens := 0
	seq := 0

	for _, op := range sorted {
		projected := currentTokens + op.TokenEstimate
		openNew := projected > b.cfg.MaxTokensPerChunk ||
			(projected > b.cfg.TargetTokensPerChunk && len(current) >= b.cfg.MinEndpointsPerChunk) ||
			len(current) >= b.cfg.MaxEndpointsPerChunk

		if openNew && len(current) > 0 {
			chunks = append(chunks, buildChunk(fmt.Sprintf("%s_%d", group, seq), current))
			current = nil
			currentTokens = 0
			seq++
		}

		current = append(current, op)
		currentTokens += op.TokenEstimate
	}

	if len(current) > 0 {
		chunks = append(chunks, buildChunk(fmt.Sprintf("%s_%d", group, seq), current))
	}

	return chunks
}

// splitOversized runs the single, non-recursive split pass: a chunk close to
// the token ceiling with more than twice the minimum member count is replaced
// by its positional halves. Children are not re-evaluated.
func (b *Builder) splitOversized(chunks []types.Chunk) []types.Chunk {
	threshold := int(splitThresholdFactor * float64(b.cfg.MaxTokensPerChunk))
	minForSplit := 2 * b.cfg.MinEndpointsPerChunk

	out := make([]types.Chunk, 0, len(chunks))
	for i := range chunks {
		c := chunks[i]
		if c.EstimatedTokens > threshold && c.EndpointCount() > minForSplit {
			mid := len(c.Operations) / 2
			out = append(out,
				buildChunk(c.ID+"_part1", c.Operations[:mid]),
				buildChunk(c.ID+"_part2", c.Operations[mid:]),
			)
			continue
		}
		out = append(out, c)
	}
	return out
}

// buildChunk constructs an immutable chunk, computing its token sum,
// complexity histogram, tag coherence and priority from the members.
func buildChunk(id string, ops []types.ScoredOperation) types.Chunk {
	members := make([]types.ScoredOperation, len(ops))
	copy(members, ops)

	tokens := 0
	var hist types.ComplexityHistogram
	priority := types.PriorityLow
	tagMentions := 0
	distinctTags := make(map[string]struct{})

	for i := range members {
		op := &members[i]
		tokens += op.TokenEstimate

		switch {
		case op.ComplexityScore < 3.0:
			hist.Simple++
		case op.ComplexityScore < 6.0:
			hist.Moderate++
		default:
			hist.Complex++
		}

		if op.Priority < priority {
			priority = op.Priority
		}

		for _, tag := range op.Descriptor.Tags {
			tagMentions++
			distinctTags[tag] = struct{}{}
		}
	}

	coherence := 1.0
	if len(distinctTags) > 0 {
		coherence = float64(tagMentions) / float64(len(distinctTags))
	}

	return types.Chunk{
		ID:              id,
		Operations:      members,
		EstimatedTokens: tokens,
		Histogram:       hist,
		Coherence:       coherence,
		Priority:        priority,
	}
}
