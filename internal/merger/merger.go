package merger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/specmint/specmint/types"
)

// Merger assembles per-chunk HTML fragments into one document. Fragment
// order follows task id, not completion order, so output is deterministic
// for a given input regardless of scheduling.
type Merger struct {
	title string
}

// New builds a Merger that titles the document with the API name.
func New(title string) *Merger {
	if title == "" {
		title = "Generated API Documentation"
	}
	return &Merger{title: title}
}

// Merge combines the successful results into a single HTML document and
// computes batch statistics over all results. It fails only when no task
// succeeded; partial batches merge what they have.
func (m *Merger) Merge(runID string, results []types.TaskResult) (string, types.BatchStats, error) {
	stats := m.stats(runID, results)

	succeeded := make([]types.TaskResult, 0, len(results))
	for _, res := range results {
		if res.Success {
			succeeded = append(succeeded, res)
		}
	}
	if len(succeeded) == 0 {
		return "", stats, types.NewPipelineError(types.ErrCodeMerge,
			fmt.Sprintf("no successful results among %d tasks", len(results)), nil)
	}
	sort.Slice(succeeded, func(i, j int) bool {
		return succeeded[i].TaskID < succeeded[j].TaskID
	})

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", m.title)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<header><h1>%s</h1></header>\n", m.title)
	b.WriteString(m.summaryBlock(stats))

	for _, res := range succeeded {
		fmt.Fprintf(&b, "<section id=\"%s\">\n", res.TaskID)
		b.WriteString(strings.TrimSpace(res.Artifact))
		b.WriteString("\n</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), stats, nil
}

// summaryBlock renders the run statistics that head the merged document.
func (m *Merger) summaryBlock(stats types.BatchStats) string {
	var b strings.Builder
	b.WriteString("<section id=\"generation-summary\">\n<h2>Generation Summary</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Run: %s</li>\n", stats.RunID)
	fmt.Fprintf(&b, "<li>Sections: %d of %d generated</li>\n", stats.Succeeded, stats.TotalTasks)
	if stats.Failed > 0 {
		fmt.Fprintf(&b, "<li>Failed sections: %d</li>\n", stats.Failed)
	}
	fmt.Fprintf(&b, "<li>Tokens consumed: %d</li>\n", stats.TokensConsumed)
	fmt.Fprintf(&b, "<li>Average section latency: %s</li>\n", stats.AverageLatency.Round(time.Millisecond))
	b.WriteString("</ul>\n</section>\n")
	return b.String()
}

func (m *Merger) stats(runID string, results []types.TaskResult) types.BatchStats {
	stats := types.BatchStats{RunID: runID, TotalTasks: len(results)}
	var elapsed time.Duration
	for _, res := range results {
		elapsed += res.Elapsed
		if res.Elapsed > stats.TotalElapsed {
			stats.TotalElapsed = res.Elapsed
		}
		if res.Success {
			stats.Succeeded++
			stats.TokensConsumed += res.TokensConsumed
		} else {
			stats.Failed++
		}
	}
	if len(results) > 0 {
		stats.AverageLatency = elapsed / time.Duration(len(results))
	}
	return stats
}
