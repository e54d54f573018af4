// Package detect holds the deterministic sentence tag detectors. Every
// function is pure and returns a value for any input.
package detect

import (
	"strings"
	"unicode"

	"github.com/ppiankov/centauri/internal/model"
)

var (
	transitionStarts = []string{"in this section", "now that", "in this article", "let's look at", "to summarize"}
	beliefMarkers    = []string{"we believe", "i think", "i believe", "we think", "in my opinion", "in our opinion"}
	futureMarkers    = []string{"will ", "may "}
	imperativeStarts = []string{"enable ", "use "}
	citationMarkers  = []string{"according to", "as per", "we observed", "we noticed", "http://", "https://"}
	pronouns         = []string{" we ", " you ", " they ", " this ", " that ", " which ", " who ", " it "}
	coordinators     = []string{" and ", " but ", " or ", ";"}
	subordinators    = []string{" because ", " although ", " since ", " if ", " when ", " which ", " that "}
	passiveAux       = []string{"was ", "were ", "is ", "are ", "be ", "been "}
	uniqueMarkers    = []string{"our internal", "we found"}
	firstPartyMarks  = []string{"our internal", "we found", "we observed", "we noticed", "our data", "our research", "our survey", "our team"}
)

// Tags runs every detector over the sentence and returns a complete tag vector
func Tags(s model.Sentence) model.TagVector {
	return model.TagVector{
		SentenceID:             s.ID,
		InformativeType:        InformativeType(s.Text),
		FunctionalType:         FunctionalType(s.Text),
		Structure:              Structure(s.Text),
		Voice:                  Voice(s.Text),
		InfoQuality:            InfoQuality(s.Text),
		ClaritySynthesisType:   Clarity(s.Text),
		ClaimsCitation:         Citation(s.Text),
		IsGrammaticallyCorrect: Grammar(s.Text),
		HasPronoun:             Pronoun(s.Text),
		Source:                 Provenance(s.Text),
		Fallback:               true,
	}
}

// TagAll applies Tags to every sentence, preserving order
func TagAll(sentences []model.Sentence) []model.TagVector {
	out := make([]model.TagVector, len(sentences))
	for i, s := range sentences {
		out[i] = Tags(s)
	}
	return out
}

// InformativeType classifies the informational role of a sentence
func InformativeType(text string) model.InformativeType {
	t := strings.TrimSpace(text)
	lower := strings.ToLower(t)

	switch {
	case strings.HasSuffix(t, "?"):
		return model.InfoQuestion
	case hasPrefixAny(lower, transitionStarts):
		return model.InfoTransition
	case containsAny(lower, beliefMarkers):
		return model.InfoOpinion
	case containsAny(lower, futureMarkers):
		return model.InfoPrediction
	case HasDigit(t):
		return model.InfoStatistic
	case hasPrefixAny(lower, imperativeStarts):
		return model.InfoSuggestion
	default:
		return model.InfoClaim
	}
}

// FunctionalType classifies the grammatical mood of a sentence
func FunctionalType(text string) model.FunctionalType {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasSuffix(t, "?"):
		return model.FunctionalInterrogative
	case strings.HasSuffix(t, "!"):
		return model.FunctionalExclamatory
	case hasPrefixAny(strings.ToLower(t), imperativeStarts):
		return model.FunctionalImperative
	default:
		return model.FunctionalDeclarative
	}
}

// Citation reports whether the sentence carries a citation marker or URL
func Citation(text string) bool {
	return containsAny(strings.ToLower(text), citationMarkers)
}

// Grammar is a minimal plausibility check: the sentence must start with an uppercase letter
func Grammar(text string) bool {
	for _, r := range strings.TrimSpace(text) {
		return unicode.IsUpper(r)
	}
	return false
}

// Pronoun reports whether a whitespace-delimited pronoun appears
func Pronoun(text string) bool {
	return containsAny(padded(text), pronouns)
}

// Structure classifies clause structure from coordinator and subordinator markers
func Structure(text string) model.Structure {
	t := strings.TrimSpace(text)
	if !strings.Contains(t, " ") {
		return model.StructureFragment
	}

	p := padded(t)
	coord := containsAny(p, coordinators)
	sub := containsAny(p, subordinators)

	switch {
	case coord && sub:
		return model.StructureCompoundComplex
	case sub:
		return model.StructureComplex
	case coord:
		return model.StructureCompound
	default:
		return model.StructureSimple
	}
}

// Voice is Passive only when an auxiliary and an agent phrase both appear
func Voice(text string) model.Voice {
	lower := strings.ToLower(text)
	if containsAny(lower, passiveAux) && strings.Contains(lower, " by ") {
		return model.VoicePassive
	}
	return model.VoiceActive
}

// InfoQuality estimates how novel the sentence's information is
func InfoQuality(text string) model.InfoQuality {
	switch {
	case HasDigit(text):
		return model.QualityPartiallyKnown
	case len(text) > 180:
		return model.QualityDerived
	case containsAny(strings.ToLower(text), uniqueMarkers):
		return model.QualityUnique
	default:
		return model.QualityWellKnown
	}
}

// Clarity estimates how cleanly the sentence can be lifted into a synthesized answer
func Clarity(text string) model.ClaritySynthesisType {
	if WordCount(text) > 40 {
		return model.ClarityLowClarity
	}
	switch Structure(text) {
	case model.StructureSimple:
		return model.ClarityFocused
	case model.StructureCompound, model.StructureComplex:
		return model.ClarityModerateComplexity
	case model.StructureCompoundComplex:
		return model.ClarityLowClarity
	default:
		return model.ClarityUnIndexable
	}
}

// Provenance guesses where the sentence's information comes from
func Provenance(text string) model.Source {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, firstPartyMarks):
		return model.SourceFirstParty
	case strings.Contains(lower, "http://") || strings.Contains(lower, "https://") || strings.Contains(lower, "according to"):
		return model.SourceThirdParty
	case Citation(text):
		return model.SourceSecondParty
	default:
		return model.SourceUnknown
	}
}

// HasBeliefMarker reports whether the sentence contains a first-person belief marker
func HasBeliefMarker(text string) bool {
	return containsAny(strings.ToLower(text), beliefMarkers)
}

// HasDigit reports whether any decimal digit appears in the text
func HasDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// WordCount counts whitespace-separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func padded(text string) string {
	return " " + strings.ToLower(strings.Join(strings.Fields(text), " ")) + " "
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
