package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/worker"
)

const signalsSystem = `You annotate sentences for AI search indexing.
For each sentence decide:
- answer_sentence_flag: true when the sentence directly answers the search query on its own
- entities: named entities (products, organisations, people, places) mentioned
- entity_confidence_flag: true when the entities are named explicitly, not through pronouns
- relevance_score: 0.0-1.0 topical relevance to the query
Return ONLY a JSON array with one object per input sentence, in the same order, with keys:
sentence_id, answer_sentence_flag, entities, entity_confidence_flag, relevance_score.`

// SignalTagger attaches AI-indexing signals to sentences. Without a provider it
// uses the deterministic detectors.
type SignalTagger struct {
	Provider    llm.Provider
	Cache       cache.ResponseStore
	Limiter     *worker.Limiter
	BatchSize   int
	Concurrency int
	Log         io.Writer
}

type rawSignals struct {
	SentenceID           string    `json:"sentence_id"`
	AnswerSentenceFlag   *flexBool `json:"answer_sentence_flag"`
	Entities             []string  `json:"entities"`
	EntityConfidenceFlag *flexBool `json:"entity_confidence_flag"`
	RelevanceScore       flexFloat `json:"relevance_score"`
}

// Tag returns one SentenceSignals per sentence, in input order
func (t *SignalTagger) Tag(ctx context.Context, sentences []model.Sentence, keyword string) []model.SentenceSignals {
	if t == nil || t.Provider == nil {
		return detectSignals(sentences, keyword)
	}
	if len(sentences) == 0 {
		return []model.SentenceSignals{}
	}

	ranges := batches(len(sentences), t.BatchSize)
	jobs := make([]worker.Job, len(ranges))
	for i, r := range ranges {
		jobs[i] = &signalJob{tagger: t, sentences: sentences[r[0]:r[1]], keyword: keyword}
	}

	results := worker.Run(ctx, t.Concurrency, jobs)
	out := make([]model.SentenceSignals, 0, len(sentences))
	for i, r := range ranges {
		batch := sentences[r[0]:r[1]]
		if i < len(results) {
			if sr, ok := results[i].(*signalResult); ok && len(sr.signals) == len(batch) {
				out = append(out, sr.signals...)
				continue
			}
		}
		statsFrom(ctx).fallback("signals")
		out = append(out, detectSignals(batch, keyword)...)
	}
	return out
}

type signalJob struct {
	tagger    *SignalTagger
	sentences []model.Sentence
	keyword   string
}

type signalResult struct {
	signals []model.SentenceSignals
	err     error
}

func (r *signalResult) GetError() error { return r.err }

func (j *signalJob) Execute(ctx context.Context) worker.Result {
	signals, err := j.tagger.tagBatch(ctx, j.sentences, j.keyword)
	if err != nil {
		logf(j.tagger.Log, "signals: batch fell back to detectors: %v", err)
		statsFrom(ctx).fallback("signals")
		statsFrom(ctx).warn("signals fallback for %s..%s: %v", j.sentences[0].ID, j.sentences[len(j.sentences)-1].ID, err)
		return &signalResult{signals: detectSignals(j.sentences, j.keyword), err: err}
	}
	return &signalResult{signals: signals}
}

func (t *SignalTagger) tagBatch(ctx context.Context, sentences []model.Sentence, keyword string) ([]model.SentenceSignals, error) {
	items := make([]promptSentence, len(sentences))
	for i, s := range sentences {
		items[i] = promptSentence{SentenceID: s.ID, Text: s.Text}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	content, err := complete(ctx, completion{
		provider: t.Provider,
		cache:    t.Cache,
		limiter:  t.Limiter,
		request: llm.Request{
			System:  signalsSystem,
			Prompt:  fmt.Sprintf("Search query: %q\nSentences:\n%s", keyword, payload),
			Purpose: "signals",
		},
		accept: func(content string) error {
			_, err := parseSignals(content, sentences, keyword)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return parseSignals(content, sentences, keyword)
}

// parseSignals decodes a signal reply positionally aligned to sentences
func parseSignals(content string, sentences []model.Sentence, keyword string) ([]model.SentenceSignals, error) {
	var raws []rawSignals
	if err := decodeArray(content, &raws); err != nil {
		return nil, err
	}
	if len(raws) != len(sentences) {
		return nil, fmt.Errorf("expected %d signal objects, got %d", len(sentences), len(raws))
	}

	out := make([]model.SentenceSignals, len(sentences))
	for i, r := range raws {
		s := sentences[i]
		var entities []string
		for _, e := range r.Entities {
			if e = strings.TrimSpace(e); e != "" {
				entities = append(entities, e)
			}
		}
		out[i] = model.SentenceSignals{
			SentenceID:           s.ID,
			AnswerSentenceFlag:   boolOr(r.AnswerSentenceFlag, detect.IsAnswer(s.Text, keyword)),
			EntityCount:          len(entities),
			Entities:             entities,
			EntityConfidenceFlag: boolOr(r.EntityConfidenceFlag, false) && len(entities) > 0,
			RelevanceScore:       clamp01(float64(r.RelevanceScore)),
		}
		// questions never count as answers
		if strings.HasSuffix(strings.TrimSpace(s.Text), "?") {
			out[i].AnswerSentenceFlag = false
		}
	}
	return out, nil
}

func detectSignals(sentences []model.Sentence, keyword string) []model.SentenceSignals {
	out := make([]model.SentenceSignals, len(sentences))
	for i, s := range sentences {
		out[i] = detect.Signals(s, keyword)
	}
	return out
}
