package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/specmint/specmint/internal/analyzer"
	"github.com/specmint/specmint/internal/artifact"
	"github.com/specmint/specmint/internal/chunker"
	"github.com/specmint/specmint/internal/compress"
	"github.com/specmint/specmint/internal/llm"
	"github.com/specmint/specmint/internal/merger"
	"github.com/specmint/specmint/internal/ratelimit"
	"github.com/specmint/specmint/internal/scheduler"
	"github.com/specmint/specmint/internal/ui"
	"github.com/specmint/specmint/types"
)

var (
	generateOutDir  string
	generateContext string
)

// generateCmd runs the full pipeline: score, chunk, schedule generation
// against the configured provider, merge and write the document.
var generateCmd = &cobra.Command{
	Use:   "generate <descriptors-file>",
	Short: "Generate the documentation UI from a descriptor file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := cmd.Context()
		start := time.Now()
		runID := uuid.NewString()
		log := slog.Default()

		summary, err := loadSummary(args[0])
		if err != nil {
			return err
		}
		printWarnings(summary.ValidationWarnings())

		scored := analyzer.New().ScoreAll(summary.Endpoints)
		chunks := chunker.NewBuilder(cfg.Chunking).Build(scored)
		if len(chunks) == 0 {
			return fmt.Errorf("nothing to generate: %s contains no operations", args[0])
		}
		tasks := scheduler.NewTasks(chunks, cfg.Scheduler.MaxRetries)
		log.Info("pipeline prepared", "run", runID, "operations", summary.TotalEndpoints, "chunks", len(chunks))

		chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to initialize %s provider: %w", cfg.LLM.Provider, err)
		}
		generator, err := llm.NewGenerator(chatModel, compress.Level(cfg.LLM.Compression))
		if err != nil {
			return err
		}

		limiter := ratelimit.New(cfg.RateLimit)
		sched := scheduler.New(generator, limiter, cfg.Scheduler, log)

		results, err := sched.Run(ctx, tasks, generateContext)
		if err != nil {
			return err
		}

		document, stats, err := merger.New(summary.Title).Merge(runID, results)
		if err != nil {
			return err
		}
		stats.TotalElapsed = time.Since(start)

		outDir := cfg.Output.Dir
		if generateOutDir != "" {
			outDir = generateOutDir
		}
		writer := artifact.NewWriter(afero.NewOsFs(), outDir)
		path, err := writer.Save(cfg.Output.File, document, stats)
		if err != nil {
			return err
		}

		printRunSummary(path, stats)
		if cfg.Verbose {
			printLimiterStatus(limiter.GetStatus())
		}
		return nil
	},
}

func printRunSummary(path string, stats types.BatchStats) {
	lines := []string{
		ui.StyleTitle.Render("Generation complete"),
		fmt.Sprintf("Sections: %s, failed: %s",
			ui.StyleSuccess.Render(fmt.Sprintf("%d/%d", stats.Succeeded, stats.TotalTasks)),
			failureStyle(stats.Failed).Render(fmt.Sprintf("%d", stats.Failed))),
		fmt.Sprintf("Tokens consumed: %d", stats.TokensConsumed),
		fmt.Sprintf("Elapsed: %s", stats.TotalElapsed.Round(time.Millisecond)),
		fmt.Sprintf("Output: %s", path),
	}
	fmt.Println(ui.StyleSummaryBox.Render(strings.Join(lines, "\n")))
}

func failureStyle(failed int) interface{ Render(...string) string } {
	if failed > 0 {
		return ui.StyleError
	}
	return ui.StyleSubtle
}

func printLimiterStatus(status ratelimit.Status) {
	fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf(
		"limiter: %.0f%% tokens / %.0f%% requests used, %d rate-limit hits, waited %s total",
		status.Tokens.Utilization*100, status.Requests.Utilization*100,
		status.Metrics.RateLimitHits, status.Metrics.TotalWait.Round(time.Millisecond))))
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "output directory (overrides config)")
	generateCmd.Flags().StringVar(&generateContext, "context", "", "domain context passed to the generation prompt")
	rootCmd.AddCommand(generateCmd)
}
