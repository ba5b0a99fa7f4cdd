package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specmint/specmint/internal/analyzer"
	"github.com/specmint/specmint/internal/chunker"
	"github.com/specmint/specmint/internal/scheduler"
	"github.com/specmint/specmint/internal/ui"
)

// planCmd previews the chunk layout and cost of a run without calling any
// provider. It is the dry-run counterpart of generate.
var planCmd = &cobra.Command{
	Use:   "plan <descriptors-file>",
	Short: "Preview chunking, priorities and estimated cost without generating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		summary, err := loadSummary(args[0])
		if err != nil {
			return err
		}
		printWarnings(summary.ValidationWarnings())

		scored := analyzer.New().ScoreAll(summary.Endpoints)
		chunks := chunker.NewBuilder(cfg.Chunking).Build(scored)
		tasks := scheduler.NewTasks(chunks, cfg.Scheduler.MaxRetries)

		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Plan for %s", titleOf(summary.Title))))
		fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("%d operations, %d chunks", summary.TotalEndpoints, len(chunks))))
		fmt.Println()

		var totalTokens int
		for _, task := range tasks {
			chunk := task.Chunk
			totalTokens += chunk.EstimatedTokens
			fmt.Printf("  %-28s %-8s %3d endpoints  %6d tokens  ~%s\n",
				chunk.ID, chunk.Priority, chunk.EndpointCount(),
				chunk.EstimatedTokens, task.EstimatedDuration.Round(time.Second))
			if cfg.Verbose {
				fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf(
					"      complexity avg %.1f (simple %d / moderate %d / complex %d), coherence %.2f",
					chunk.AverageComplexity(), chunk.Histogram.Simple,
					chunk.Histogram.Moderate, chunk.Histogram.Complex, chunk.Coherence)))
			}
		}

		fmt.Println()
		lines := []string{
			fmt.Sprintf("Estimated prompt tokens: %d", totalTokens),
			fmt.Sprintf("Token budget per minute: %d (×%.2f margin)", cfg.RateLimit.TPMLimit, cfg.RateLimit.TPMSafetyMargin),
			fmt.Sprintf("Workers: %d, retries per task: %d", cfg.Scheduler.WorkerCount, cfg.Scheduler.MaxRetries),
		}
		fmt.Println(ui.StyleSummaryBox.Render(strings.Join(lines, "\n")))
		return nil
	},
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Println(ui.StyleWarning.Render("warning: " + w))
	}
}

func titleOf(title string) string {
	if title == "" {
		return "untitled API"
	}
	return title
}

func init() {
	rootCmd.AddCommand(planCmd)
}
