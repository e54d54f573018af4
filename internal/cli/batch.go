package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/centauri/internal/pipeline"
	"github.com/ppiankov/centauri/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noFooter and the article context flags are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many articles from a list file in parallel",
	Long: `Batch analyzes many articles concurrently:
- Read article paths or URLs from the input file (one per line, # comments allowed)
- Analyze them in parallel with a configurable worker count
- Rate-limit URL sources per host
- Write one JSON and one Markdown report per article

The keyword flags apply to every article in the list.

Example:
  centauri batch articles.txt -k "ai content checker"
  centauri batch articles.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./centauri-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with analyze
	batchCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "primary keyword for every article")
	batchCmd.Flags().StringSliceVar(&secondary, "secondary", nil, "secondary keywords for every article")
	batchCmd.Flags().StringVar(&competitorsFile, "competitors", "", "JSON file with competitor pages [{url, headings}]")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	addFetchFlags(batchCmd)
	addClassifierFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	printBanner(os.Stderr, "Centauri Batch Processing")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	defaults, err := inputDefaults(cmd)
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := newPipeline(ctx, cfg, pipeline.WithDefaults(defaults))
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency, cfg.Classifiers.RequestsPerSecond, cfg.Classifiers.Burst)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing articles with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	var seoTotal float64
	renderer := p.Renderer()

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		name := result.Report.Subject
		if name == "" {
			name = result.Source
		}
		slug := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(name))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Source, err)
			continue
		}

		successCount++
		seoTotal += result.Report.FinalScores.CentauriSeo
		fmt.Fprintf(os.Stderr, "✓ %s (centauri seo: %.2f/100, ai indexing: %.2f/100)\n",
			name, result.Report.FinalScores.CentauriSeo, result.Report.FinalScores.AiIndexing)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	printBanner(os.Stderr, "Batch Complete")
	fmt.Fprintf(os.Stderr, "  Total:     %d articles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	if successCount > 0 {
		fmt.Fprintf(os.Stderr, "  Mean SEO:  %.2f/100\n", seoTotal/float64(successCount))
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d articles failed", failureCount)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// printBanner writes a boxed section title
func printBanner(w io.Writer, title string) {
	const rule = "═══════════════════════════════════════════════════════════"
	fmt.Fprintf(w, "\n%s\n  %s\n%s\n\n", rule, title, rule)
}

// sanitizeFilename turns a subject or source into a safe file name
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = filenameReplacer.Replace(strings.ToLower(s))
	s = strings.Trim(s, "._-")

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return "article"
	}
	return s
}
