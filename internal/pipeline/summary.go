package pipeline

import (
	"math"

	"github.com/ppiankov/centauri/internal/model"
)

// level1Summary counts the raw attribute distributions over all validated sentences
func level1Summary(sentences []model.ValidatedSentence, escalated int) *model.Level1Summary {
	summary := &model.Level1Summary{
		TotalSentences:  len(sentences),
		Structure:       make(map[string]int),
		InformativeType: make(map[string]int),
		Citation:        map[string]int{"with_citation": 0, "without_citation": 0},
		Grammar:         map[string]int{"correct": 0, "incorrect": 0},
		EscalatedCount:  escalated,
	}
	if len(sentences) == 0 {
		return summary
	}

	var confidence float64
	for _, s := range sentences {
		summary.Structure[string(s.Structure)]++
		summary.InformativeType[string(s.InformativeType)]++
		if s.ClaimsCitation {
			summary.Citation["with_citation"]++
		} else {
			summary.Citation["without_citation"]++
		}
		if s.IsGrammaticallyCorrect {
			summary.Grammar["correct"]++
		} else {
			summary.Grammar["incorrect"]++
		}
		confidence += s.Confidence
	}
	summary.AverageConfidence = math.Round(confidence/float64(len(sentences))*1000) / 1000
	return summary
}

// sentenceMap is the compact per-sentence listing, in sentence order
func sentenceMap(sentences []model.ValidatedSentence) []model.SentenceTag {
	tags := make([]model.SentenceTag, len(sentences))
	for i, s := range sentences {
		tags[i] = model.SentenceTag{
			ID:              s.ID,
			Text:            s.Text,
			HTMLTag:         s.HTMLTag,
			InformativeType: s.InformativeType,
			Confidence:      s.Confidence,
			Source:          s.Source,
			ClaimsCitation:  s.ClaimsCitation,
		}
	}
	return tags
}
