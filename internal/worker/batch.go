package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// Analyzer analyzes one source: an http(s) URL or a local article file
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.Report, error)
}

// AnalyzeJob is one batch entry
type AnalyzeJob struct {
	Source   string
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute runs the analysis, waiting on the per-host limiter for URL sources
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if isURL(j.Source) {
		if err := j.Limiter.Wait(ctx, j.Source); err != nil {
			return &AnalysisResult{Source: j.Source, Error: err}
		}
	}

	report, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	if err != nil {
		return &AnalysisResult{Source: j.Source, Error: err}
	}
	return &AnalysisResult{Source: j.Source, Report: report}
}

// AnalysisResult is the outcome of one batch entry
type AnalysisResult struct {
	Source string
	Report *model.Report
	Error  error
}

func (r *AnalysisResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A zero rps disables per-host limiting.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessSources analyzes sources concurrently; results keep input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*AnalysisResult {
	if len(sources) == 0 {
		return []*AnalysisResult{}
	}

	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = &AnalyzeJob{Source: src, Analyzer: b.analyzer, Limiter: b.limiter}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*AnalysisResult, len(results))
	for i, result := range results {
		if r, ok := result.(*AnalysisResult); ok {
			out[i] = r
			continue
		}
		err := context.Cause(ctx)
		if err == nil {
			err = errors.New("not analyzed")
		}
		out[i] = &AnalysisResult{Source: sources[i], Error: err}
	}
	return out
}

// ProcessFile reads sources from a list file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalysisResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one URL or file path per line, skipping blanks, comments and duplicates
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
