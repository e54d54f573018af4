package classify

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/worker"
)

// Technique is one tagging prompt. Source A and Source B use different techniques
// so their errors are independent.
type Technique struct {
	Name   string
	System string
}

const vocabulary = `Allowed values:
- informative_type: Fact, Claim, Definition, Opinion, Prediction, Statistic, Observation, Suggestion, Question, Transition, Filler, Uncertain
- functional_type: Declarative, Interrogative, Imperative, Exclamatory
- structure: Simple, Compound, Complex, CompoundComplex, Fragment
- voice: Active, Passive
- info_quality: WellKnown, PartiallyKnown, Derived, Unique, False
- clarity_synthesis_type: Focused, ModerateComplexity, LowClarity, UnIndexable
- source: Unknown, FirstParty, SecondParty, ThirdParty
- claims_citation, is_grammatically_correct, has_pronoun, is_plagiarized: true or false`

var (
	// TechniqueLinguistic tags from grammatical form first
	TechniqueLinguistic = Technique{
		Name: "linguistic",
		System: `You are a linguistic annotator for SEO content analysis.
For each input sentence, decide its grammatical form first (functional type, structure, voice),
then its informational role. Return ONLY a JSON array with one object per input sentence,
in the same order, with keys: sentence_id, informative_type, functional_type, structure, voice,
info_quality, clarity_synthesis_type, claims_citation, is_grammatically_correct, has_pronoun,
is_plagiarized, source.
` + vocabulary,
	}

	// TechniqueEditorial tags from what a reader learns from the sentence
	TechniqueEditorial = Technique{
		Name: "editorial",
		System: `You are a senior SEO editor reviewing an article sentence by sentence.
Ask what a reader learns from each sentence: a verifiable fact, a number, a definition,
a belief, a forecast, advice or nothing at all. Statistics need a digit. Predictions talk
about the future. Opinions need a first-person belief. Return ONLY a JSON array with one
object per input sentence, in the same order, with keys: sentence_id, informative_type,
functional_type, structure, voice, info_quality, clarity_synthesis_type, claims_citation,
is_grammatically_correct, has_pronoun, is_plagiarized, source.
` + vocabulary,
	}
)

// LLMAdapter tags sentences with an external model, batch by batch
type LLMAdapter struct {
	Provider    llm.Provider
	Technique   Technique
	Cache       cache.ResponseStore
	Limiter     *worker.Limiter
	BatchSize   int
	Concurrency int
	Purpose     string
	Log         io.Writer
}

func (a *LLMAdapter) Name() string {
	return a.Provider.Name() + "/" + a.Technique.Name
}

// TagSentences never fails: a batch that cannot be tagged is re-tagged by detectors
func (a *LLMAdapter) TagSentences(ctx context.Context, sentences []model.Sentence) []model.TagVector {
	if len(sentences) == 0 {
		return []model.TagVector{}
	}

	ranges := batches(len(sentences), a.BatchSize)
	jobs := make([]worker.Job, len(ranges))
	for i, r := range ranges {
		jobs[i] = &tagJob{adapter: a, sentences: sentences[r[0]:r[1]]}
	}

	results := worker.Run(ctx, a.Concurrency, jobs)
	out := make([]model.TagVector, 0, len(sentences))
	for i, r := range ranges {
		batch := sentences[r[0]:r[1]]
		if i < len(results) {
			if tr, ok := results[i].(*tagResult); ok && len(tr.tags) == len(batch) {
				out = append(out, tr.tags...)
				continue
			}
		}
		// Job never ran because ctx ended
		logf(a.Log, "%s: batch %s-%s not run: %v", a.Name(), batch[0].ID, batch[len(batch)-1].ID, context.Cause(ctx))
		statsFrom(ctx).fallback(a.Name())
		out = append(out, detect.TagAll(batch)...)
	}
	return out
}

type tagJob struct {
	adapter   *LLMAdapter
	sentences []model.Sentence
}

type tagResult struct {
	tags []model.TagVector
	err  error
}

func (r *tagResult) GetError() error { return r.err }

func (j *tagJob) Execute(ctx context.Context) worker.Result {
	tags, err := j.adapter.tagBatch(ctx, j.sentences)
	if err != nil {
		a := j.adapter
		logf(a.Log, "%s: batch %s-%s fell back to detectors: %v",
			a.Name(), j.sentences[0].ID, j.sentences[len(j.sentences)-1].ID, err)
		statsFrom(ctx).fallback(a.Name())
		statsFrom(ctx).warn("%s fallback for %s..%s: %v", a.Name(), j.sentences[0].ID, j.sentences[len(j.sentences)-1].ID, err)
		return &tagResult{tags: detect.TagAll(j.sentences), err: err}
	}
	return &tagResult{tags: tags}
}

type promptSentence struct {
	SentenceID string `json:"sentence_id"`
	Text       string `json:"text"`
}

func (a *LLMAdapter) tagBatch(ctx context.Context, sentences []model.Sentence) ([]model.TagVector, error) {
	items := make([]promptSentence, len(sentences))
	for i, s := range sentences {
		items[i] = promptSentence{SentenceID: s.ID, Text: s.Text}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	content, err := complete(ctx, completion{
		provider: a.Provider,
		cache:    a.Cache,
		limiter:  a.Limiter,
		request: llm.Request{
			System:  a.Technique.System,
			Prompt:  "Tag these sentences:\n" + string(payload),
			Purpose: a.Purpose,
		},
		// cache only replies that parse into a full batch
		accept: func(content string) error {
			_, err := parseTags(content, sentences)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return parseTags(content, sentences)
}
