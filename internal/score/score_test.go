package score

import (
	"fmt"
	"math"
	"testing"

	"github.com/ppiankov/centauri/internal/model"
)

func vs(id string, t model.InformativeType) model.ValidatedSentence {
	return model.ValidatedSentence{
		ID:                     id,
		Text:                   "A sentence about " + id + ".",
		ParagraphID:            "P1",
		HTMLTag:                "p",
		InformativeType:        t,
		FunctionalType:         model.FunctionalDeclarative,
		Structure:              model.StructureSimple,
		Voice:                  model.VoiceActive,
		InfoQuality:            model.QualityWellKnown,
		ClaritySynthesisType:   model.ClarityFocused,
		IsGrammaticallyCorrect: true,
		Source:                 model.SourceThirdParty,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func checkRanges(t *testing.T, r Result) {
	t.Helper()
	for name, v := range r.Level2.Fields() {
		if rng := model.Level2Ranges[name]; !rng.Contains(v) {
			t.Errorf("level2 %s = %v outside %v", name, v, rng)
		}
	}
	for name, v := range r.Level3.Fields() {
		if rng := model.Level3Ranges[name]; !rng.Contains(v) {
			t.Errorf("level3 %s = %v outside %v", name, v, rng)
		}
	}
	for name, v := range r.Level4.Fields() {
		if rng := model.Level4Ranges[name]; !rng.Contains(v) {
			t.Errorf("level4 %s = %v outside %v", name, v, rng)
		}
	}
}

func TestCalculate_EmptyInput(t *testing.T) {
	r := NewScorer().Calculate(Input{})
	checkRanges(t, r)

	if !approx(r.Level2.Simplicity, 10.0/3) {
		t.Errorf("expected placeholder simplicity, got %v", r.Level2.Simplicity)
	}
	if r.Level2.Grammar != 10 || r.Level2.Plagiarism != 10 {
		t.Errorf("expected grammar and plagiarism 10, got %v and %v", r.Level2.Grammar, r.Level2.Plagiarism)
	}
	if r.Level2.Intent != 0 || r.Level2.Keyword != 0 || r.Level2.Section != 0 {
		t.Errorf("keyword dependent scores must be zero, got %+v", r.Level2)
	}
	if r.Answer.FirstAnswerIndex != -1 {
		t.Errorf("expected no answer, got %+v", r.Answer)
	}
}

func TestCalculate_RangesOnExtremes(t *testing.T) {
	var all []model.ValidatedSentence
	for i, typ := range model.InformativeTypes() {
		v := vs(fmt.Sprintf("S%d", i+1), typ)
		v.HasPronoun = true
		v.EntityCount = 3
		v.EntityConfidenceFlag = true
		v.AnswerSentenceFlag = true
		v.RelevanceScore = 1
		v.InfoQuality = model.QualityUnique
		all = append(all, v)
	}
	r := NewScorer().Calculate(Input{
		Sentences: all,
		Keyword:   KeywordInput{Primary: "sentence", H1: "sentence", MetaTitle: "sentence", MetaDescription: "sentence", URL: "https://x.test/sentence", BodyText: "sentence"},
		Outline:   model.Outline{Headings: []string{"cost", "setup"}},
		Competitors: []model.CompetitorPage{
			{URL: "a", Headings: []string{"Pricing"}}, {URL: "b", Headings: []string{"Price"}}, {URL: "c", Headings: []string{"Fees"}},
		},
	})
	checkRanges(t, r)
}

func TestCredibility_Veto(t *testing.T) {
	good := []model.ValidatedSentence{vs("S1", model.InfoStatistic), vs("S2", model.InfoDefinition), vs("S3", model.InfoClaim)}
	s := NewScorer()

	score, _ := s.credibility(good)
	if !approx(score, 10) {
		t.Fatalf("expected full credibility, got %v", score)
	}

	uncited := vs("S4", model.InfoStatistic)
	uncited.Source = model.SourceUnknown
	score, sig := s.credibility(append(good, uncited))
	if score != 0 {
		t.Errorf("expected veto to zero credibility, got %v", score)
	}
	if sig.Type != model.SignalCredibilityVeto {
		t.Errorf("expected veto signal, got %s", sig.Type)
	}
}

func TestCredibility_ClaimNeedsSourceAndQuality(t *testing.T) {
	claim := vs("S1", model.InfoClaim)
	claim.InfoQuality = model.QualityDerived
	unsourced := vs("S2", model.InfoDefinition)
	unsourced.Source = model.SourceUnknown
	opinion := vs("S3", model.InfoOpinion)
	fact := vs("S4", model.InfoStatistic)

	score, _ := NewScorer().credibility([]model.ValidatedSentence{claim, unsourced, opinion, fact})
	if !approx(score, 2.5) {
		t.Errorf("expected 2.5, got %v", score)
	}
}

func TestIntent(t *testing.T) {
	sentences := []model.ValidatedSentence{vs("S1", model.InfoFact), vs("S2", model.InfoDefinition), vs("S3", model.InfoClaim), vs("S4", model.InfoOpinion)}
	score, _ := NewScorer().intent(sentences, true)
	if !approx(score, 0.5) {
		t.Errorf("expected 0.5, got %v", score)
	}
	if score, _ := NewScorer().intent(sentences, false); score != 0 {
		t.Errorf("expected 0 without keyword, got %v", score)
	}
}

func TestExpertiseAndOriginalInfo(t *testing.T) {
	pronoun := vs("S2", model.InfoFact)
	pronoun.HasPronoun = true
	unique := vs("S3", model.InfoFact)
	unique.InfoQuality = model.QualityUnique
	sentences := []model.ValidatedSentence{vs("S1", model.InfoOpinion), pronoun, unique, vs("S4", model.InfoClaim)}

	s := NewScorer()
	if score, _ := s.expertise(sentences); !approx(score, 10) {
		t.Errorf("expected expertise 10, got %v", score)
	}
	if score, _ := s.originalInfo(sentences); !approx(score, 2.5) {
		t.Errorf("expected original info 2.5, got %v", score)
	}
}

func TestSentenceAuthority(t *testing.T) {
	v := vs("S1", model.InfoFact)
	if got := SentenceAuthority(v); !approx(got, 1) {
		t.Errorf("expected 1, got %v", got)
	}
	v.FunctionalType = model.FunctionalInterrogative
	v.InformativeType = model.InfoQuestion
	v.Structure = model.StructureCompoundComplex
	v.Voice = model.VoicePassive
	if got := SentenceAuthority(v); !approx(got, 0.2) {
		t.Errorf("expected 0.2, got %v", got)
	}
	v.InformativeType = model.InfoFiller
	if got := SentenceAuthority(v); !approx(got, 0.4) {
		t.Errorf("expected 0.4, got %v", got)
	}
}

func TestSimplicityAndGrammar(t *testing.T) {
	complexOne := vs("S1", model.InfoFact)
	complexOne.Structure = model.StructureComplex
	wrong := vs("S2", model.InfoFact)
	wrong.IsGrammaticallyCorrect = false
	wrong.Text = "the system generate reports"
	short := vs("S3", model.InfoFact)
	short.IsGrammaticallyCorrect = false
	short.Text = "ok then"
	sentences := []model.ValidatedSentence{complexOne, wrong, short, vs("S4", model.InfoFact)}

	s := NewScorer()
	if score, _ := s.simplicity(sentences); !approx(score, 7.5) {
		t.Errorf("expected simplicity 7.5, got %v", score)
	}
	if score, _ := s.grammar(sentences); !approx(score, 7.5) {
		t.Errorf("expected grammar 7.5 with short exemption, got %v", score)
	}
}

func TestVariation(t *testing.T) {
	s := NewScorer()
	var sentences []model.ValidatedSentence
	for i, tag := range []string{"p", "h2", "li", "td", "img"} {
		v := vs(fmt.Sprintf("S%d", i+1), model.InfoFact)
		v.HTMLTag = tag
		sentences = append(sentences, v)
	}
	if score, _ := s.variation(sentences); !approx(score, 10) {
		t.Errorf("expected maximal variation, got %v", score)
	}
	if score, _ := s.variation(sentences[:1]); score != 0 {
		t.Errorf("expected zero variation for one bucket, got %v", score)
	}
	untagged := vs("S1", model.InfoFact)
	untagged.HTMLTag = ""
	if score, _ := s.variation([]model.ValidatedSentence{untagged}); score != 0 {
		t.Errorf("expected zero for untagged input, got %v", score)
	}
}

func TestPlagiarism(t *testing.T) {
	copied := vs("S2", model.InfoFact)
	copied.IsPlagiarized = true
	score, _ := NewScorer().plagiarism([]model.ValidatedSentence{vs("S1", model.InfoFact), copied})
	if !approx(score, 5) {
		t.Errorf("expected 5, got %v", score)
	}
}

func TestAnswerBlockDensity(t *testing.T) {
	tests := map[int]float64{-1: 0, 0: 10, 4: 10, 5: 6, 14: 6, 15: 3, 80: 3}
	for idx, want := range tests {
		if got := AnswerBlockDensity(idx); got != want {
			t.Errorf("AnswerBlockDensity(%d) = %v, want %v", idx, got, want)
		}
	}
}

func TestAnswerPositionOf(t *testing.T) {
	var sentences []model.ValidatedSentence
	for i := 0; i < 10; i++ {
		sentences = append(sentences, vs(fmt.Sprintf("S%d", i+1), model.InfoFact))
	}
	sentences[1].AnswerSentenceFlag = true
	sentences[6].AnswerSentenceFlag = true

	pos := AnswerPositionOf(sentences)
	if pos.FirstAnswerIndex != 1 || pos.FirstAnswerSentenceID != "S2" {
		t.Errorf("unexpected position %+v", pos)
	}
	if !approx(pos.PositionPercent, 10) || pos.PositionScore != 0.75 {
		t.Errorf("unexpected percent/score %+v", pos)
	}
}

func TestFactualIsolation(t *testing.T) {
	a := vs("S1", model.InfoFact)
	b := vs("S2", model.InfoDefinition)
	c := vs("S3", model.InfoStatistic)
	c.ParagraphID = "P2"
	d := vs("S4", model.InfoOpinion)
	d.ParagraphID = "P2"

	score, _ := NewScorer().factualIsolation([]model.ValidatedSentence{a, b, c, d})
	if !approx(score, 5) {
		t.Errorf("expected 5, got %v", score)
	}
}

func TestEntityAlignment(t *testing.T) {
	a := vs("S1", model.InfoFact)
	a.EntityCount = 2
	a.EntityConfidenceFlag = true
	b := vs("S2", model.InfoFact)
	b.EntityCount = 2
	score, _ := NewScorer().entityAlignment([]model.ValidatedSentence{a, b})
	if !approx(score, 0.25) {
		t.Errorf("expected 0.25, got %v", score)
	}
	if score, _ := NewScorer().entityAlignment([]model.ValidatedSentence{vs("S1", model.InfoFact)}); score != 0 {
		t.Errorf("expected 0 without entities, got %v", score)
	}
}

func TestSignalToNoise(t *testing.T) {
	filler1 := vs("S3", model.InfoFiller)
	filler2 := vs("S4", model.InfoFiller)
	sentences := []model.ValidatedSentence{vs("S1", model.InfoFact), vs("S2", model.InfoClaim), filler1, filler2}

	score, _ := NewScorer().signalToNoise(sentences)
	// 2/4 signal minus one clustered paragraph (0.02)
	if !approx(score, (0.5-0.02)*10) {
		t.Errorf("expected 4.8, got %v", score)
	}
}

func TestTechnicalClarity(t *testing.T) {
	v := vs("S1", model.InfoFact)
	v.EntityConfidenceFlag = true
	v.RelevanceScore = 0.8
	if score, _ := NewScorer().technicalClarity([]model.ValidatedSentence{v}); !approx(score, 10) {
		t.Errorf("expected 10, got %v", score)
	}

	w := vs("S1", model.InfoFact)
	w.Structure = model.StructureCompoundComplex
	w.ClaritySynthesisType = model.ClarityModerateComplexity
	want := (0.3*1 + 0.3*0.5 + 0.2*0.5 + 0) * 10
	if score, _ := NewScorer().technicalClarity([]model.ValidatedSentence{w}); !approx(score, want) {
		t.Errorf("expected %v, got %v", want, score)
	}
}

func TestLevel3(t *testing.T) {
	l2 := model.Level2Scores{
		Intent: 1, Section: 2, OriginalInfo: 3, Keyword: 4,
		Expertise: 5, Credibility: 6, Authority: 0.5,
		Simplicity: 4, Grammar: 4, Variation: 4,
		AnswerBlockDensity: 10, FactualIsolation: 10, EntityAlignment: 1,
		SignalToNoise: 10, TechnicalClarity: 10,
	}
	l3 := Level3(l2)
	if l3.Relevance != 10 {
		t.Errorf("relevance = %v", l3.Relevance)
	}
	if l3.Eeat != 16 {
		t.Errorf("eeat = %v, want authority scaled x10", l3.Eeat)
	}
	if l3.Readability != 10 {
		t.Errorf("readability must clamp to 10, got %v", l3.Readability)
	}
	if l3.RetrievalFactuality != 56.5 || l3.SynthesisCoherence != 30 {
		t.Errorf("unexpected factuality/coherence %+v", l3)
	}
}

func TestLevel4(t *testing.T) {
	l2 := model.Level2Scores{Keyword: 5, Grammar: 3}
	l4, fallback := Level4(l2, model.Level3Scores{RetrievalFactuality: 20, SynthesisCoherence: 10})
	if fallback {
		t.Error("unexpected fallback")
	}
	if l4.AiIndexing != 30 {
		t.Errorf("ai indexing = %v", l4.AiIndexing)
	}
	// Relevance and readability recomputed from Level 2
	if l4.CentauriSeo != 8 {
		t.Errorf("centauri seo = %v, want 8", l4.CentauriSeo)
	}

	l4, fallback = Level4(model.Level2Scores{}, model.Level3Scores{RetrievalFactuality: 12, SynthesisCoherence: 3})
	if !fallback || l4.CentauriSeo != 15 {
		t.Errorf("expected fallback to ai indexing, got %+v (fallback %v)", l4, fallback)
	}
}

func TestFinal_Rounds(t *testing.T) {
	f := Final(model.Level2Scores{Keyword: 3.14159}, model.Level3Scores{Readability: 6.6666}, model.Level4Scores{CentauriSeo: 41.005})
	if f.Keyword != 3.14 || f.Readability != 6.67 || f.ReadabilityPercent != 66.67 {
		t.Errorf("unexpected rounding %+v", f)
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := map[string]string{
		"1. Pricing Plans!":        "cost plans",
		"What is an AI checker?":   "is ai checker",
		"How to Guide: Setup 2024": "to setup",
		"Fees":                     "cost",
	}
	for in, want := range tests {
		if got := NormalizeHeading(in); got != want {
			t.Errorf("NormalizeHeading(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSectionCoverage(t *testing.T) {
	competitors := []model.CompetitorPage{
		{URL: "https://a.test", Headings: []string{"Pricing", "Features", "Setup"}},
		{URL: "https://b.test", Headings: []string{"Price", "Features"}},
		{URL: "https://c.test", Headings: []string{"Fees", "Feature", "Integrations"}},
		{URL: "https://c.test", Headings: []string{"Setup"}},
	}
	r := SectionCoverage([]string{"Cost", "Our benchmark"}, competitors)

	// "cost" is in 3 sources; "features" in 2 and "setup" in 2 distinct urls
	if r.RequiredTotal != 1 || r.Covered != 1 || r.Original != 1 {
		t.Fatalf("unexpected breakdown %+v", r)
	}
	if !approx(r.Score, 10) {
		t.Errorf("expected clamped score 10, got %v", r.Score)
	}

	if got := SectionCoverage([]string{"Cost"}, nil); got.Score != 0 || got.RequiredTotal != 0 {
		t.Errorf("expected zero without competitors, got %+v", got)
	}
}

func TestHeadingSimilarity(t *testing.T) {
	if got := HeadingSimilarity("features", "feature"); !approx(got, 1-1.0/8) {
		t.Errorf("unexpected similarity %v", got)
	}
	if HeadingSimilarity("", "x") != 0 {
		t.Error("empty heading must score 0")
	}
}

func TestKeywordScore(t *testing.T) {
	body := "An AI content checker reviews drafts. " + repeatWords(90)
	r := KeywordScore(KeywordInput{
		Primary:         "AI content checker",
		Variants:        []model.KeywordVariant{{Text: "content checker", Type: model.VariantLexical}},
		H1:              "The AI Content Checker Guide",
		MetaTitle:       "Best content checker",
		MetaDescription: "Nothing relevant",
		URL:             "https://example.com/blog/ai-content-checker",
		BodyText:        body,
	})

	wantPlacement := 3*1.0 + 3*0.95 + 2*1.0
	if !approx(r.Placement, wantPlacement) {
		t.Errorf("placement = %v, want %v", r.Placement, wantPlacement)
	}
	if r.Occurrences != 1 || r.WordCount != 96 {
		t.Errorf("unexpected counts %+v", r)
	}
	if r.FScore != 10 {
		t.Errorf("expected density in target band, got %v%% -> %v", r.Density, r.FScore)
	}
	want := wantPlacement*5/9*0.6 + 10*0.4
	if !approx(r.Score, want) {
		t.Errorf("score = %v, want %v", r.Score, want)
	}

	if got := KeywordScore(KeywordInput{BodyText: body}); got.Score != 0 {
		t.Errorf("expected zero without keyword, got %v", got.Score)
	}
}

func TestDensityScore(t *testing.T) {
	tests := map[float64]float64{0: 0, 0.2: 5, 0.5: 10, 1.5: 10, 2: 7}
	for d, want := range tests {
		if got := densityScore(d); got != want {
			t.Errorf("densityScore(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestURLSlug(t *testing.T) {
	tests := map[string]string{
		"https://x.test/blog/ai-content_checker/": "ai content checker",
		"https://x.test/page.html":                "page",
		"https://x.test":                          "",
		"my-slug":                                 "my slug",
		"":                                        "",
	}
	for in, want := range tests {
		if got := URLSlug(in); got != want {
			t.Errorf("URLSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func repeatWords(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += "word "
	}
	return out
}
