package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/specmint/specmint/internal/compress"
	"github.com/specmint/specmint/prompts"
	"github.com/specmint/specmint/types"
)

// Service is the generation-service collaborator the scheduler drives. It
// accepts one chunk plus the caller's domain context and returns the
// generated artifact fragment. Implementations signal quota rejections with
// RateLimitError so the scheduler can pick the right retry delay.
type Service interface {
	Generate(ctx context.Context, chunk *types.Chunk, domainContext string) (string, error)
}

// Generator implements Service against an eino chat model. It compresses
// descriptors before prompting and strips markdown fences from the reply.
type Generator struct {
	chatModel model.BaseChatModel
	optimizer *compress.Optimizer
	tmpl      *template.Template
}

// NewGenerator builds a Generator around an already-configured chat model.
func NewGenerator(chatModel model.BaseChatModel, level compress.Level) (*Generator, error) {
	tmpl, err := template.New("chunk").Parse(prompts.ChunkUITemplate)
	if err != nil {
		return nil, fmt.Errorf("parse chunk template: %w", err)
	}
	return &Generator{
		chatModel: chatModel,
		optimizer: compress.New(level),
		tmpl:      tmpl,
	}, nil
}

// Generate renders the chunk prompt, invokes the model and returns the
// cleaned artifact fragment.
func (g *Generator) Generate(ctx context.Context, chunk *types.Chunk, domainContext string) (string, error) {
	if domainContext == "" {
		domainContext = "Modern web application"
	}

	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, map[string]any{
		"DomainContext": domainContext,
		"ChunkID":       chunk.ID,
		"ChunkData":     g.formatChunk(chunk),
	})
	if err != nil {
		return "", fmt.Errorf("execute chunk template: %w", err)
	}

	messages := []*schema.Message{schema.UserMessage(buf.String())}
	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", classify(err)
	}

	return StripFences(resp.Content), nil
}

// formatChunk renders the chunk's operations as the endpoint listing the
// prompt embeds: one summary line per operation plus its compressed detail.
func (g *Generator) formatChunk(chunk *types.Chunk) string {
	var sb strings.Builder
	for i := range chunk.Operations {
		op := g.optimizer.Compress(chunk.Operations[i].Descriptor)
		fmt.Fprintf(&sb, "%s %s - %s\n", strings.ToUpper(op.Method), op.Path, op.Summary)
		if op.Description != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", op.Description)
		}
		for _, p := range op.Parameters {
			fmt.Fprintf(&sb, "  Param (%s): %s", p.In, p.Name)
			if p.Required {
				sb.WriteString(" [required]")
			}
			sb.WriteString("\n")
		}
		if op.RequestBody != nil {
			sb.WriteString("  Request body: " + describeContent(op.RequestBody.Content) + "\n")
		}
	}
	return sb.String()
}

func describeContent(content map[string]types.MediaType) string {
	if len(content) == 0 {
		return "present"
	}
	mediaTypes := make([]string, 0, len(content))
	for mt := range content {
		mediaTypes = append(mediaTypes, mt)
	}
	return strings.Join(mediaTypes, ", ")
}

// StripFences removes a surrounding markdown code fence from model output.
// Models frequently wrap HTML replies in ```html blocks despite instructions.
func StripFences(s string) string {
	if idx := strings.Index(s, "```html"); idx >= 0 {
		s = s[idx+len("```html"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
