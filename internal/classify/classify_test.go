package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
)

func sentences(texts ...string) []model.Sentence {
	out := make([]model.Sentence, len(texts))
	for i, t := range texts {
		out[i] = model.Sentence{ID: fmt.Sprintf("S%d", i+1), Text: t, ParagraphID: "P1", HTMLTag: "p"}
	}
	return out
}

// promptItems recovers the sentences embedded after the first line of a prompt
func promptItems(t *testing.T, prompt string) []promptSentence {
	t.Helper()
	idx := strings.Index(prompt, "[")
	if idx < 0 {
		t.Fatalf("no JSON payload in prompt %q", prompt)
	}
	var items []promptSentence
	if err := json.Unmarshal([]byte(prompt[idx:]), &items); err != nil {
		t.Fatalf("decode prompt payload: %v", err)
	}
	return items
}

// echoTagger answers every batch with one Statistic tag per sentence
func echoTagger(t *testing.T) func(req llm.Request) (string, error) {
	return func(req llm.Request) (string, error) {
		var tags []map[string]any
		for _, item := range promptItems(t, req.Prompt) {
			tags = append(tags, map[string]any{
				"sentence_id":      item.SentenceID,
				"informative_type": "statistic",
				"functional_type":  "Declarative",
				"claims_citation":  "yes",
				"source":           "FirstParty",
			})
		}
		data, _ := json.Marshal(tags)
		return "```json\n" + string(data) + "\n```", nil
	}
}

func TestLLMAdapter_TagsEveryBatchInOrder(t *testing.T) {
	mock := llm.NewMockProvider("mock", echoTagger(t))
	adapter := &LLMAdapter{Provider: mock, Technique: TechniqueLinguistic, BatchSize: 2, Concurrency: 3}

	input := sentences("One sentence here.", "Two sentence here.", "Three sentence here.", "Four sentence here.", "Five sentence here.")
	tags := adapter.TagSentences(context.Background(), input)

	if len(tags) != len(input) {
		t.Fatalf("expected %d tags, got %d", len(input), len(tags))
	}
	for i, tag := range tags {
		if tag.SentenceID != input[i].ID {
			t.Errorf("tag %d: expected id %s, got %s", i, input[i].ID, tag.SentenceID)
		}
		if tag.InformativeType != model.InfoStatistic {
			t.Errorf("tag %d: expected Statistic, got %s", i, tag.InformativeType)
		}
		if !tag.ClaimsCitation || !tag.IsGrammaticallyCorrect || tag.Source != model.SourceFirstParty {
			t.Errorf("tag %d: unexpected fields %+v", i, tag)
		}
		if tag.Fallback {
			t.Errorf("tag %d: unexpected fallback", i)
		}
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 batch calls, got %d", mock.CallCount())
	}
}

func TestLLMAdapter_FallsBackPerBatch(t *testing.T) {
	mock := llm.NewMockProvider("mock", func(req llm.Request) (string, error) {
		if strings.Contains(req.Prompt, `"S1"`) {
			return echoTagger(t)(req)
		}
		return "", &llm.ErrProviderUnavailable{Provider: "mock", Err: errors.New("down")}
	})
	adapter := &LLMAdapter{Provider: mock, Technique: TechniqueEditorial, BatchSize: 2, Concurrency: 1}

	stats := NewStats()
	ctx := WithStats(context.Background(), stats)
	input := sentences("First sentence here.", "Second sentence here.", "Third sentence here.")
	tags := adapter.TagSentences(ctx, input)

	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	if tags[0].Fallback || tags[1].Fallback {
		t.Error("first batch should come from the provider")
	}
	if !tags[2].Fallback || tags[2].SentenceID != "S3" {
		t.Errorf("expected detector fallback for S3, got %+v", tags[2])
	}
	if got := stats.FallbackBatches()["mock/editorial"]; got != 1 {
		t.Errorf("expected 1 fallback batch, got %d", got)
	}
	if len(stats.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", stats.Warnings())
	}
}

func TestLLMAdapter_CountMismatchFallsBack(t *testing.T) {
	mock := llm.NewMockProvider("mock", func(llm.Request) (string, error) {
		return `[{"sentence_id":"S1","informative_type":"Fact"}]`, nil
	})
	adapter := &LLMAdapter{Provider: mock, Technique: TechniqueLinguistic}

	tags := adapter.TagSentences(context.Background(), sentences("Alpha is here.", "Beta is here."))
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	for _, tag := range tags {
		if !tag.Fallback {
			t.Errorf("expected fallback vector, got %+v", tag)
		}
	}
}

func TestLLMAdapter_CachesAcceptedReplies(t *testing.T) {
	store := cache.NewResponseCache(cache.NewMemoryCache(0, 0), 0)
	mock := llm.NewMockProvider("mock", echoTagger(t))
	adapter := &LLMAdapter{Provider: mock, Technique: TechniqueLinguistic, Cache: store, Purpose: "source_a"}

	input := sentences("Cached sentence one.", "Cached sentence two.")
	adapter.TagSentences(context.Background(), input)

	log := llm.NewCallLog()
	ctx := llm.WithCallLog(context.Background(), log)
	tags := adapter.TagSentences(ctx, input)

	if mock.CallCount() != 1 {
		t.Errorf("expected the second run to hit the cache, got %d calls", mock.CallCount())
	}
	if tags[1].InformativeType != model.InfoStatistic {
		t.Errorf("expected cached tags, got %+v", tags[1])
	}
	calls := log.Calls()
	if len(calls) != 1 || !calls[0].Cached || calls[0].Purpose != "source_a" {
		t.Errorf("expected one cached call record, got %+v", calls)
	}
}

func TestLLMAdapter_EmptyInput(t *testing.T) {
	mock := llm.NewMockProvider("mock", echoTagger(t))
	adapter := &LLMAdapter{Provider: mock, Technique: TechniqueLinguistic}
	if tags := adapter.TagSentences(context.Background(), nil); len(tags) != 0 {
		t.Errorf("expected no tags, got %d", len(tags))
	}
	if mock.CallCount() != 0 {
		t.Error("provider must not be called for empty input")
	}
}

func TestParseTags(t *testing.T) {
	input := sentences("Our revenue grew 40% last year.")

	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, v model.TagVector)
	}{
		{
			name:    "wrapped object with string booleans",
			content: `{"tags":[{"id":"X9","informative_type":"PREDICTION","claims_citation":"true","is_grammatically_correct":0,"has_pronoun":1}]}`,
			check: func(t *testing.T, v model.TagVector) {
				if v.SentenceID != "S1" {
					t.Errorf("sentence id must come from input, got %s", v.SentenceID)
				}
				if v.InformativeType != model.InfoPrediction {
					t.Errorf("expected Prediction, got %s", v.InformativeType)
				}
				if !v.ClaimsCitation || v.IsGrammaticallyCorrect || !v.HasPronoun {
					t.Errorf("unexpected booleans %+v", v)
				}
			},
		},
		{
			name:    "unknown enums use defaults",
			content: `[{"informative_type":"Rumour","functional_type":"Poetic","structure":"Run-on","voice":"Middle","info_quality":"Meh","clarity_synthesis_type":"Blurry","source":"Aliens"}]`,
			check: func(t *testing.T, v model.TagVector) {
				if v.InformativeType != model.InfoUncertain || v.FunctionalType != model.FunctionalDeclarative {
					t.Errorf("expected defaults, got %+v", v)
				}
				if v.Source != model.SourceUnknown {
					t.Errorf("expected Unknown source, got %s", v.Source)
				}
				if !v.IsGrammaticallyCorrect {
					t.Error("missing grammar flag defaults to true")
				}
			},
		},
		{name: "not json", content: "sorry, I cannot help", wantErr: true},
		{name: "object without array", content: `{"informative_type":"Fact"}`, wantErr: true},
		{name: "empty", content: "  ", wantErr: true},
		{name: "count mismatch", content: `[]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := parseTags(tt.content, input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", tags)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, tags[0])
		})
	}
}

func TestLexiconType(t *testing.T) {
	tests := []struct {
		text string
		want model.InformativeType
	}{
		{"Our revenue grew 40% last year.", model.InfoStatistic},
		{"We believe this trend will continue.", model.InfoPrediction},
		{"According to our internal report, retention improved.", model.InfoFact},
		{"What does the checker do?", model.InfoQuestion},
		{"In this section we compare plans.", model.InfoTransition},
		{"Basically it works fine for everyone.", model.InfoFiller},
		{"Ranking refers to the position in results.", model.InfoDefinition},
		{"We noticed shorter intros performed better.", model.InfoObservation},
		{"Use short paragraphs for mobile readers.", model.InfoSuggestion},
		{"Content quality is important for rankings.", model.InfoClaim},
		{"", model.InfoUncertain},
	}
	for _, tt := range tests {
		if got := LexiconType(tt.text); got != tt.want {
			t.Errorf("LexiconType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestAdapters_OnePerSentence(t *testing.T) {
	input := sentences("First one is here.", "Second one is here.", "?")
	for _, a := range []Adapter{DetectorAdapter{}, LexiconAdapter{}} {
		tags := a.TagSentences(context.Background(), input)
		if len(tags) != len(input) {
			t.Fatalf("%s: expected %d tags, got %d", a.Name(), len(input), len(tags))
		}
		for i, tag := range tags {
			if tag.SentenceID != input[i].ID {
				t.Errorf("%s: tag %d has id %s", a.Name(), i, tag.SentenceID)
			}
		}
	}
}

func TestBatches(t *testing.T) {
	got := batches(5, 2)
	if len(got) != 3 || got[2] != [2]int{4, 5} {
		t.Errorf("unexpected ranges %v", got)
	}
	if len(batches(0, 2)) != 0 {
		t.Error("expected no ranges for empty input")
	}
	if got := batches(25, 0); len(got) != 2 || got[0] != [2]int{0, 20} {
		t.Errorf("expected default size 20, got %v", got)
	}
}

func escalationInput() ([]model.Sentence, map[string]model.TagVector, map[string]model.TagVector) {
	input := sentences("Sales may rise soon.", "Teams like the tool.")
	a := map[string]model.TagVector{
		"S1": {SentenceID: "S1", InformativeType: model.InfoClaim},
		"S2": {SentenceID: "S2", InformativeType: model.InfoFact},
	}
	b := map[string]model.TagVector{
		"S1": {SentenceID: "S1", InformativeType: model.InfoPrediction, FunctionalType: model.FunctionalDeclarative, Voice: model.VoiceActive},
		"S2": {SentenceID: "S2", InformativeType: model.InfoOpinion, FunctionalType: model.FunctionalDeclarative, Voice: model.VoiceActive},
	}
	return input, a, b
}

func TestEscalator_NoProvider(t *testing.T) {
	input, a, b := escalationInput()
	var e *Escalator
	if got := e.Arbitrate(context.Background(), input, a, b); got != nil {
		t.Errorf("expected no decisions, got %+v", got)
	}
	if got := (&Escalator{}).Arbitrate(context.Background(), input, a, b); got != nil {
		t.Errorf("expected no decisions, got %+v", got)
	}
}

func TestEscalator_FallbackAfterRetries(t *testing.T) {
	mock := llm.NewMockProvider("claude", func(llm.Request) (string, error) {
		return "I am not sure about these.", nil
	})
	e := &Escalator{Provider: mock, MaxRetries: 2}

	stats := NewStats()
	input, a, b := escalationInput()
	decisions := e.Arbitrate(WithStats(context.Background(), stats), input, a, b)

	if mock.CallCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", mock.CallCount())
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	for i, d := range decisions {
		want := b[input[i].ID]
		if d.SentenceID != input[i].ID || d.InformativeType != want.InformativeType {
			t.Errorf("decision %d: expected B's tag, got %+v", i, d)
		}
		if d.Confidence != FallbackConfidence || d.Reason != "fallback" {
			t.Errorf("decision %d: expected fallback confidence and reason, got %+v", i, d)
		}
	}
	if got := stats.Escalated(); len(got) != 2 || got[0] != "S1" {
		t.Errorf("expected escalated ids, got %v", got)
	}
}

func TestEscalator_PartialReply(t *testing.T) {
	mock := llm.NewMockProvider("claude", func(llm.Request) (string, error) {
		return `[{"sentence_id":"S1","final_informative_type":"Prediction","confidence":"1.7","reason":"future tense","voice":"Passive"},
			{"sentence_id":"S99","final_informative_type":"Fact","confidence":0.5}]`, nil
	})
	e := &Escalator{Provider: mock, MaxRetries: 3}

	input, a, b := escalationInput()
	decisions := e.Arbitrate(context.Background(), input, a, b)

	if len(decisions) != 2 {
		t.Fatalf("expected one decision per mismatched sentence, got %+v", decisions)
	}
	if d := decisions[0]; d.InformativeType != model.InfoPrediction || d.Confidence != 1 || d.Voice != model.VoicePassive {
		t.Errorf("unexpected first decision %+v", d)
	}
	if d := decisions[0]; d.FunctionalType != "" {
		t.Errorf("missing functional type must stay empty, got %q", d.FunctionalType)
	}
	if d := decisions[1]; d.SentenceID != "S2" || d.InformativeType != model.InfoOpinion || d.Reason != "fallback" {
		t.Errorf("expected fallback for S2, got %+v", d)
	}
	if mock.CallCount() != 1 {
		t.Errorf("valid reply must not be retried, got %d calls", mock.CallCount())
	}
}

func TestParseDecisions_RejectsInvalidTypes(t *testing.T) {
	if _, err := parseDecisions(`[{"sentence_id":"S1","final_informative_type":"Gossip"}]`); err == nil {
		t.Error("expected error when no decision is valid")
	}
	got, err := parseDecisions(`{"decisions":[{"id":"S4","informative_type":"fact","confidence":-2}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].SentenceID != "S4" || got[0].InformativeType != model.InfoFact || got[0].Confidence != 0 {
		t.Errorf("unexpected decision %+v", got[0])
	}
}

func TestSignalTagger_DeterministicWithoutProvider(t *testing.T) {
	input := sentences("An AI content checker scores drafts against Google guidelines.", "What is it?")
	signals := (&SignalTagger{}).Tag(context.Background(), input, "AI content checker")
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	if !signals[0].AnswerSentenceFlag || signals[0].RelevanceScore != 1 {
		t.Errorf("unexpected detector signals %+v", signals[0])
	}
	if signals[1].AnswerSentenceFlag {
		t.Error("questions are never answers")
	}
}

func TestSignalTagger_ParsesProviderReply(t *testing.T) {
	mock := llm.NewMockProvider("mock", func(llm.Request) (string, error) {
		return `[{"sentence_id":"S1","answer_sentence_flag":true,"entities":["Acme"," "],"entity_confidence_flag":true,"relevance_score":3},
			{"sentence_id":"S2","answer_sentence_flag":"yes","entities":[],"relevance_score":"0.25"}]`, nil
	})
	tagger := &SignalTagger{Provider: mock}

	input := sentences("Acme builds checkers.", "Is it useful?")
	signals := tagger.Tag(context.Background(), input, "checker")

	if s := signals[0]; !s.AnswerSentenceFlag || s.EntityCount != 1 || !s.EntityConfidenceFlag || s.RelevanceScore != 1 {
		t.Errorf("unexpected first signals %+v", s)
	}
	if s := signals[1]; s.AnswerSentenceFlag || s.EntityConfidenceFlag || s.RelevanceScore != 0.25 {
		t.Errorf("unexpected second signals %+v", s)
	}
}

func TestSignalTagger_FallbackOnBadReply(t *testing.T) {
	mock := llm.NewMockProvider("mock", func(llm.Request) (string, error) { return "[]", nil })
	stats := NewStats()
	signals := (&SignalTagger{Provider: mock}).Tag(WithStats(context.Background(), stats), sentences("Acme builds checkers."), "checker")
	if len(signals) != 1 || signals[0].SentenceID != "S1" {
		t.Fatalf("unexpected signals %+v", signals)
	}
	if stats.FallbackBatches()["signals"] != 1 {
		t.Errorf("expected one signals fallback, got %v", stats.FallbackBatches())
	}
}

// assertOrder checks one output per input with ids in input order
func assertOrder(t *testing.T, input []model.Sentence, ids []string) {
	t.Helper()
	if len(ids) != len(input) {
		t.Fatalf("expected %d outputs, got %d", len(input), len(ids))
	}
	for i, s := range input {
		if ids[i] != s.ID {
			t.Errorf("output %d: expected %s, got %s", i, s.ID, ids[i])
		}
	}
}

func tagIDs(tags []model.TagVector) []string {
	ids := make([]string, len(tags))
	for i, tag := range tags {
		ids[i] = tag.SentenceID
	}
	return ids
}

func signalIDs(signals []model.SentenceSignals) []string {
	ids := make([]string, len(signals))
	for i, s := range signals {
		ids[i] = s.SentenceID
	}
	return ids
}

// blockUntilDone answers nothing until ctx ends, then reports the context error
func blockUntilDone(ctx context.Context) func(llm.Request) (string, error) {
	return func(llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
}

var fiveSentences = []string{
	"Revenue grew 40% last year.",
	"We believe the trend will continue.",
	"Retention improved after the launch.",
	"Support tickets dropped by half.",
	"The team plans a second release.",
}

func TestLLMAdapter_EndedContext(t *testing.T) {
	tests := []struct {
		name      string
		ctx       func(t *testing.T) context.Context
		reply     func(ctx context.Context) func(llm.Request) (string, error)
		wantCalls int
	}{
		{
			name: "cancelled before start",
			ctx: func(t *testing.T) context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			reply:     func(context.Context) func(llm.Request) (string, error) { return echoTagger(t) },
			wantCalls: 0,
		},
		{
			name: "deadline expires during the first batch",
			ctx: func(t *testing.T) context.Context {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
				t.Cleanup(cancel)
				return ctx
			},
			reply:     blockUntilDone,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := NewStats()
			ctx := WithStats(tt.ctx(t), stats)
			mock := llm.NewMockProvider("mock", tt.reply(ctx))
			adapter := &LLMAdapter{Provider: mock, Technique: TechniqueLinguistic, BatchSize: 2, Concurrency: 1}

			input := sentences(fiveSentences...)
			tags := adapter.TagSentences(ctx, input)

			assertOrder(t, input, tagIDs(tags))
			for _, tag := range tags {
				if !tag.Fallback {
					t.Errorf("expected detector vector for %s", tag.SentenceID)
				}
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("expected %d provider calls, got %d", tt.wantCalls, got)
			}
			if got := stats.FallbackBatches()["mock/linguistic"]; got != 3 {
				t.Errorf("expected 3 fallback batches, got %d", got)
			}
		})
	}
}

func TestSignalTagger_EndedContext(t *testing.T) {
	input := sentences(fiveSentences...)

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		mock := llm.NewMockProvider("mock", func(llm.Request) (string, error) { return "[]", nil })
		signals := (&SignalTagger{Provider: mock, BatchSize: 2, Concurrency: 1}).Tag(ctx, input, "revenue")

		assertOrder(t, input, signalIDs(signals))
		if mock.CallCount() != 0 {
			t.Errorf("expected no provider calls, got %d", mock.CallCount())
		}
	})

	t.Run("deadline expires during the first batch", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		stats := NewStats()
		ctx = WithStats(ctx, stats)
		mock := llm.NewMockProvider("mock", blockUntilDone(ctx))
		signals := (&SignalTagger{Provider: mock, BatchSize: 2, Concurrency: 1}).Tag(ctx, input, "revenue")

		assertOrder(t, input, signalIDs(signals))
		if got := stats.FallbackBatches()["signals"]; got != 3 {
			t.Errorf("expected 3 signals fallbacks, got %d", got)
		}
	})
}
