// Package pipeline orchestrates one article analysis: segmentation, dual tagging,
// escalation, arbitration, AI-indexing signals, scoring and recommendations.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/centauri/internal/arbitrate"
	"github.com/ppiankov/centauri/internal/classify"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/recommend"
	"github.com/ppiankov/centauri/internal/score"
	"github.com/ppiankov/centauri/internal/segment"
	"github.com/ppiankov/centauri/internal/serp"
)

// Pipeline orchestrates the complete analysis
type Pipeline struct {
	config     *model.Config
	segmenter  *segment.Segmenter
	sourceA    classify.Adapter
	sourceB    classify.Adapter
	escalator  *classify.Escalator
	signals    *classify.SignalTagger
	researcher *serp.Researcher
	scorer     *score.Scorer
	fetcher    *Fetcher
	renderer   *Renderer
	defaults   Input
	log        io.Writer
	now        func() time.Time
}

// Option customises a Pipeline after the configured roles are wired
type Option func(*Pipeline)

// WithSources replaces the Source A and Source B adapters
func WithSources(a, b classify.Adapter) Option {
	return func(p *Pipeline) {
		p.sourceA, p.sourceB = a, b
	}
}

// WithEscalator replaces the escalation classifier
func WithEscalator(e *classify.Escalator) Option {
	return func(p *Pipeline) { p.escalator = e }
}

// WithSignalTagger replaces the AI-indexing signal tagger
func WithSignalTagger(t *classify.SignalTagger) Option {
	return func(p *Pipeline) { p.signals = t }
}

// WithResearcher replaces the competitor researcher
func WithResearcher(r *serp.Researcher) Option {
	return func(p *Pipeline) { p.researcher = r }
}

// WithFetcher replaces the article fetcher
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithDefaults sets the keyword fields applied to every AnalyzeSource call
func WithDefaults(in Input) Option {
	return func(p *Pipeline) { p.defaults = in }
}

// NewPipeline creates a pipeline from configuration. Roles without a provider run
// offline: detectors as Source A, the lexicon as Source B, no escalation.
// Warnings about misconfigured roles go to log, which may be nil.
func NewPipeline(ctx context.Context, cfg *model.Config, log io.Writer, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = io.Discard
	}

	p := &Pipeline{
		config:    cfg,
		segmenter: segment.New(),
		sourceA:   classify.DetectorAdapter{},
		sourceB:   classify.LexiconAdapter{},
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		log:       log,
		now:       time.Now,
	}

	if err := p.wireRoles(ctx, cfg); err != nil {
		return nil, err
	}
	p.fetcher = newConfiguredFetcher(cfg.HTTP)

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Analyze runs the full analysis. A missing article returns ErrArticleMissing together
// with a report that carries only the input integrity block.
func (p *Pipeline) Analyze(ctx context.Context, in Input) (*model.Report, error) {
	start := p.now()
	report := &model.Report{
		AnalysisID:     uuid.NewString(),
		AnalyzedAt:     start.UTC(),
		PrimaryKeyword: strings.TrimSpace(in.PrimaryKeyword),
		InputIntegrity: CheckIntegrity(in),
	}
	if report.InputIntegrity.Status == model.IntegrityFailed {
		return report, ErrArticleMissing
	}

	calls := llm.NewCallLog()
	stats := classify.NewStats()
	ctx = llm.WithCallLog(ctx, calls)
	ctx = classify.WithStats(ctx, stats)
	timer := newStageTimer(p.now)
	var warnings []string

	// 1. Segment
	sentences, outline := p.segmenter.Segment(in.Article)
	timer.mark("segment")

	// 2. Competitor context
	keyword := report.PrimaryKeyword
	competitors := in.Competitors
	variants := append([]model.KeywordVariant(nil), in.Variants...)
	if keyword != "" && len(competitors) == 0 && p.researcher.Enabled() {
		research, err := p.researcher.Research(ctx, keyword)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("competitor research failed: %v", err))
			p.logf("Warning: competitor research failed: %v", err)
		}
		competitors = research.Competitors
		if len(variants) == 0 {
			variants = append(variants, research.Variants...)
		}
		timer.mark("research")
	}

	secondary := in.SecondaryKeywords
	if secondary == nil {
		secondary = []string{}
		if keyword != "" && len(competitors) > 0 {
			if generated := serp.SecondaryKeywords(keyword, serp.CompetitorHeadings(competitors)); len(generated) > 0 {
				secondary = generated
				report.InputIntegrity.DefaultsApplied = append(report.InputIntegrity.DefaultsApplied, DefaultSecondaryGenerated)
			}
		}
	}
	report.SecondaryKeywords = secondary
	for _, kw := range secondary {
		if kw = strings.TrimSpace(kw); kw != "" {
			variants = append(variants, model.KeywordVariant{Text: kw, Type: model.VariantSearchDerived})
		}
	}

	// 3. Tag with both primary sources concurrently
	var tagsA, tagsB []model.TagVector
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tagsA = p.sourceA.TagSentences(ctx, sentences)
	}()
	go func() {
		defer wg.Done()
		tagsB = p.sourceB.TagSentences(ctx, sentences)
	}()
	wg.Wait()
	timer.mark("tag")

	// 4. Escalate disagreements, then arbitrate every sentence
	indexA, indexB := arbitrate.Index(tagsA), arbitrate.Index(tagsB)
	mismatched := arbitrate.DetectMismatches(sentences, indexA, indexB)
	decisions := p.escalator.Arbitrate(ctx, mismatched, indexA, indexB)
	timer.mark("escalate")

	validated := arbitrate.Reconcile(sentences, tagsA, tagsB, decisions)

	// 5. AI-indexing signals
	bySentence := make(map[string]model.SentenceSignals)
	for _, sig := range p.signals.Tag(ctx, sentences, keyword) {
		bySentence[sig.SentenceID] = sig
	}
	for i := range validated {
		if sig, ok := bySentence[validated[i].ID]; ok {
			sig.Apply(&validated[i])
		}
	}
	timer.mark("signals")

	// 6. Score
	kw := score.KeywordInput{
		Primary:  keyword,
		Variants: variants,
		H1:       outline.H1,
		BodyText: outline.BodyText,
	}
	if !report.InputIntegrity.HasSkipped(CheckMetaTitleKeyword) {
		kw.MetaTitle = in.MetaTitle
	}
	if !report.InputIntegrity.HasSkipped(CheckMetaDescriptionKeyword) {
		kw.MetaDescription = in.MetaDescription
	}
	if !report.InputIntegrity.HasSkipped(CheckURLSlugKeyword) {
		kw.URL = strings.TrimSpace(in.URL)
		report.SourceURL = kw.URL
	}
	result := p.scorer.Calculate(score.Input{
		Sentences:   validated,
		Outline:     outline,
		Keyword:     kw,
		Competitors: competitors,
	})
	timer.mark("score")

	// 7. Recommendations
	report.Recommendations = recommend.Generate(recommend.Scores{
		Level2: result.Level2,
		Level3: result.Level3,
		Level4: result.Level4,
	})

	report.Subject = subjectOf(in, outline, keyword)
	report.Sentences = sentences
	report.ValidatedSentences = validated
	report.SentenceMap = sentenceMap(validated)
	report.Sections = outline.Sections
	report.Level1 = level1Summary(validated, len(stats.Escalated()))
	report.Level2 = &result.Level2
	report.Level3 = &result.Level3
	report.Level4 = &result.Level4
	report.FinalScores = &result.Final
	report.Answer = &result.Answer
	report.Signals = result.Signals

	report.Diagnostics = model.Diagnostics{
		DurationMS:           p.now().Sub(start).Milliseconds(),
		StageMS:              timer.stages,
		Classifiers:          p.classifierNames(),
		EscalatedSentenceIDs: stats.Escalated(),
		FallbackBatches:      stats.FallbackBatches(),
		AICalls:              calls.Calls(),
		Warnings:             append(warnings, stats.Warnings()...),
	}
	return report, nil
}

// AnalyzeSource loads an http(s) URL or a local file and analyzes it with the pipeline defaults
func (p *Pipeline) AnalyzeSource(ctx context.Context, source string) (*model.Report, error) {
	in, err := p.LoadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, in)
}

// LoadSource builds an Input from a URL or file. Page title and meta description fill
// empty meta fields for HTML sources.
func (p *Pipeline) LoadSource(ctx context.Context, source string) (Input, error) {
	in := p.defaults
	in.Competitors = append([]model.CompetitorPage(nil), p.defaults.Competitors...)

	if ValidURL(source) {
		fetched, err := p.fetcher.FetchWithRetry(ctx, source)
		if err != nil {
			return in, fmt.Errorf("fetch %s: %w", source, err)
		}
		in.Article = fetched.HTML
		in.URL = fetched.FinalURL
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return in, fmt.Errorf("read %s: %w", source, err)
		}
		in.Article = string(data)
	}

	if segment.IsHTML(in.Article) {
		meta := segment.Metadata(in.Article)
		if in.MetaTitle == "" {
			in.MetaTitle = meta.Title
		}
		if in.MetaDescription == "" {
			in.MetaDescription = meta.Description
		}
		if in.URL == "" && ValidURL(meta.Canonical) {
			in.URL = meta.Canonical
		}
	}
	return in, nil
}

// RenderReport writes the JSON and Markdown reports when paths are set, then prints the summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(p.renderer.Out, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(p.renderer.Out, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

func (p *Pipeline) logf(format string, args ...any) {
	fmt.Fprintf(p.log, format+"\n", args...)
}

func subjectOf(in Input, outline model.Outline, keyword string) string {
	switch {
	case outline.H1 != "":
		return outline.H1
	case strings.TrimSpace(in.MetaTitle) != "":
		return strings.TrimSpace(in.MetaTitle)
	case ValidURL(in.URL):
		return extractSubject(in.URL)
	default:
		return keyword
	}
}

// stageTimer records elapsed milliseconds per pipeline stage
type stageTimer struct {
	now    func() time.Time
	last   time.Time
	stages map[string]int64
}

func newStageTimer(now func() time.Time) *stageTimer {
	return &stageTimer{now: now, last: now(), stages: make(map[string]int64)}
}

func (t *stageTimer) mark(stage string) {
	current := t.now()
	t.stages[stage] = current.Sub(t.last).Milliseconds()
	t.last = current
}
