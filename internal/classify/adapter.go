// Package classify turns sentences into tag vectors through interchangeable sources.
//
// Every Adapter returns exactly one TagVector per input sentence, in input
// order. Upstream failures never escape an adapter: the affected batch is
// re-tagged with the deterministic detectors instead.
package classify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/model"
)

// Adapter is one tagging source
type Adapter interface {
	Name() string
	TagSentences(ctx context.Context, sentences []model.Sentence) []model.TagVector
}

// DetectorAdapter tags with the deterministic detectors only
type DetectorAdapter struct{}

func (DetectorAdapter) Name() string { return "detectors" }

func (DetectorAdapter) TagSentences(_ context.Context, sentences []model.Sentence) []model.TagVector {
	return detect.TagAll(sentences)
}

// Stats collects per-analysis adapter diagnostics. Safe for concurrent use.
type Stats struct {
	mu              sync.Mutex
	fallbackBatches map[string]int
	escalated       []string
	warnings        []string
}

// NewStats creates an empty Stats
func NewStats() *Stats {
	return &Stats{fallbackBatches: make(map[string]int)}
}

func (s *Stats) fallback(adapter string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.fallbackBatches[adapter]++
	s.mu.Unlock()
}

func (s *Stats) escalate(ids ...string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.escalated = append(s.escalated, ids...)
	s.mu.Unlock()
}

func (s *Stats) warn(format string, args ...any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

// FallbackBatches returns batches re-tagged by detectors, keyed by adapter name
func (s *Stats) FallbackBatches() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.fallbackBatches))
	for k, v := range s.fallbackBatches {
		out[k] = v
	}
	return out
}

// Escalated returns the sentence ids sent to the escalation classifier
func (s *Stats) Escalated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.escalated...)
}

// Warnings returns recovered upstream failures
func (s *Stats) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

type statsKey struct{}

// WithStats attaches stats to ctx
func WithStats(ctx context.Context, s *Stats) context.Context {
	return context.WithValue(ctx, statsKey{}, s)
}

func statsFrom(ctx context.Context) *Stats {
	s, _ := ctx.Value(statsKey{}).(*Stats)
	return s
}

func logf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// batches splits n items into [start, end) ranges of at most size
func batches(n, size int) [][2]int {
	if size <= 0 {
		size = 20
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
