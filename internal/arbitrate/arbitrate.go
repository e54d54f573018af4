// Package arbitrate reconciles the tag vectors of independent classifiers into
// one validated sentence per input sentence.
package arbitrate

import (
	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/model"
)

// Confidence assigned by each resolution rule
const (
	ConfidenceStatistic  = 0.95
	ConfidencePrediction = 0.90
	ConfidenceOpinion    = 0.90
	ConfidenceDefault    = 0.70
)

// Mismatched reports whether two opinions about one sentence disagree.
// A missing vector always counts as a disagreement.
func Mismatched(a, b *model.TagVector) bool {
	if a == nil || b == nil {
		return true
	}
	return a.InformativeType != b.InformativeType || a.ClaimsCitation != b.ClaimsCitation
}

// Index keys tag vectors by sentence id. The first vector for an id wins.
func Index(tags []model.TagVector) map[string]model.TagVector {
	out := make(map[string]model.TagVector, len(tags))
	for _, t := range tags {
		if _, ok := out[t.SentenceID]; !ok {
			out[t.SentenceID] = t
		}
	}
	return out
}

// DetectMismatches returns the sentences, in input order, whose Source A and
// Source B vectors disagree
func DetectMismatches(sentences []model.Sentence, a, b map[string]model.TagVector) []model.Sentence {
	var out []model.Sentence
	for _, s := range sentences {
		if Mismatched(lookup(a, s.ID), lookup(b, s.ID)) {
			out = append(out, s)
		}
	}
	return out
}

func lookup(tags map[string]model.TagVector, id string) *model.TagVector {
	t, ok := tags[id]
	if !ok {
		return nil
	}
	return &t
}

// Arbitrate produces the validated record for one sentence. c is the escalation
// decision for the sentence, or nil when none was made. The result depends only
// on its arguments.
func Arbitrate(s model.Sentence, a, b model.TagVector, c *model.Decision) model.ValidatedSentence {
	v := model.ValidatedSentence{
		ID:          s.ID,
		Text:        s.Text,
		ParagraphID: s.ParagraphID,
		HTMLTag:     s.HTMLTag,

		// Source A owns citation, grammar, pronoun and provenance
		ClaimsCitation:         a.ClaimsCitation,
		IsGrammaticallyCorrect: a.IsGrammaticallyCorrect,
		HasPronoun:             a.HasPronoun,
		Source:                 a.Source,

		// Source B owns structure, quality, clarity and plagiarism
		Structure:            b.Structure,
		InfoQuality:          b.InfoQuality,
		ClaritySynthesisType: b.ClaritySynthesisType,
		IsPlagiarized:        b.IsPlagiarized,
	}
	if v.Source == "" || v.Source == model.SourceUnknown {
		v.Source = b.Source
	}
	if v.Source == "" {
		v.Source = model.SourceUnknown
	}

	v.InformativeType, v.Confidence, v.Resolution = resolveType(s.Text, a, b, c)

	v.FunctionalType = b.FunctionalType
	if a.FunctionalType != b.FunctionalType && c != nil && c.FunctionalType != "" {
		v.FunctionalType = c.FunctionalType
	}
	v.Voice = b.Voice
	if a.Voice != b.Voice && c != nil && c.Voice != "" {
		v.Voice = c.Voice
	}

	fillDefaults(&v)
	return v
}

// resolveType applies the precedence rules; the first matching rule wins
func resolveType(text string, a, b model.TagVector, c *model.Decision) (model.InformativeType, float64, model.Resolution) {
	either := func(t model.InformativeType) bool {
		return a.InformativeType == t || b.InformativeType == t
	}

	switch {
	case either(model.InfoStatistic) && detect.HasDigit(text):
		return model.InfoStatistic, ConfidenceStatistic, model.ResolutionStatisticDigit
	case either(model.InfoPrediction):
		return model.InfoPrediction, ConfidencePrediction, model.ResolutionPrediction
	case either(model.InfoOpinion) && detect.HasBeliefMarker(text):
		return model.InfoOpinion, ConfidenceOpinion, model.ResolutionBeliefOpinion
	case c != nil && c.InformativeType != "":
		return c.InformativeType, clamp01(c.Confidence), model.ResolutionEscalation
	default:
		t := b.InformativeType
		if t == "" {
			t = model.InfoUncertain
		}
		return t, ConfidenceDefault, model.ResolutionDefault
	}
}

// fillDefaults replaces empty enum fields with the vocabulary defaults
func fillDefaults(v *model.ValidatedSentence) {
	if v.FunctionalType == "" {
		v.FunctionalType = model.FunctionalDeclarative
	}
	if v.Voice == "" {
		v.Voice = model.VoiceActive
	}
	if v.Structure == "" {
		v.Structure = model.StructureSimple
	}
	if v.InfoQuality == "" {
		v.InfoQuality = model.QualityWellKnown
	}
	if v.ClaritySynthesisType == "" {
		v.ClaritySynthesisType = model.ClarityUnIndexable
	}
}

// Reconcile arbitrates every sentence, in input order. A vector missing from
// a or b is replaced by the deterministic detectors' vector.
func Reconcile(sentences []model.Sentence, a, b []model.TagVector, decisions []model.Decision) []model.ValidatedSentence {
	byA, byB := Index(a), Index(b)
	byC := make(map[string]model.Decision, len(decisions))
	for _, d := range decisions {
		if _, ok := byC[d.SentenceID]; !ok {
			byC[d.SentenceID] = d
		}
	}

	out := make([]model.ValidatedSentence, len(sentences))
	for i, s := range sentences {
		tagA, ok := byA[s.ID]
		if !ok {
			tagA = detect.Tags(s)
		}
		tagB, ok := byB[s.ID]
		if !ok {
			tagB = detect.Tags(s)
		}
		var c *model.Decision
		if d, ok := byC[s.ID]; ok {
			c = &d
		}
		out[i] = Arbitrate(s, tagA, tagB, c)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
