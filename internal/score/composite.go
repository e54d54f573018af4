package score

import "github.com/ppiankov/centauri/internal/model"

// AuthorityScale lifts Level 2 authority (0..10) onto the magnitude EEAT sums over
const AuthorityScale = 10

// Relevance = Intent + Section + OriginalInfo + Keyword, clamped to 0..40
func Relevance(l2 model.Level2Scores) float64 {
	return clamp(l2.Intent+l2.Section+l2.OriginalInfo+l2.Keyword, 0, 40)
}

// Eeat = Expertise + Credibility + Authority*10, clamped to 0..30
func Eeat(l2 model.Level2Scores) float64 {
	return clamp(l2.Expertise+l2.Credibility+l2.Authority*AuthorityScale, 0, 30)
}

// Readability = Simplicity + Grammar + Variation, clamped to 0..10
func Readability(l2 model.Level2Scores) float64 {
	return clamp(l2.Simplicity+l2.Grammar+l2.Variation, 0, 10)
}

// RetrievalFactuality = 3*AnswerBlockDensity + 2.5*FactualIsolation + 1.5*EntityAlignment
func RetrievalFactuality(l2 model.Level2Scores) float64 {
	return clamp(3*l2.AnswerBlockDensity+2.5*l2.FactualIsolation+1.5*l2.EntityAlignment, 0, 56.5)
}

// SynthesisCoherence = 2*SignalToNoise + TechnicalClarity
func SynthesisCoherence(l2 model.Level2Scores) float64 {
	return clamp(2*l2.SignalToNoise+l2.TechnicalClarity, 0, 30)
}

// Level3 computes every Level 3 composite
func Level3(l2 model.Level2Scores) model.Level3Scores {
	return model.Level3Scores{
		Relevance:           Relevance(l2),
		Eeat:                Eeat(l2),
		Readability:         Readability(l2),
		RetrievalFactuality: RetrievalFactuality(l2),
		SynthesisCoherence:  SynthesisCoherence(l2),
	}
}

// Level4 computes the final composites. A Level 3 term that is not positive is
// recomputed from Level 2; when the SEO total is still not positive the AI
// indexing score is used and fallback is true.
func Level4(l2 model.Level2Scores, l3 model.Level3Scores) (scores model.Level4Scores, fallback bool) {
	scores.AiIndexing = clamp(l3.RetrievalFactuality+l3.SynthesisCoherence, 0, 100)

	relevance, eeat, readability := l3.Relevance, l3.Eeat, l3.Readability
	if relevance <= 0 {
		relevance = Relevance(l2)
	}
	if eeat <= 0 {
		eeat = Eeat(l2)
	}
	if readability <= 0 {
		readability = Readability(l2)
	}

	total := clamp(relevance+eeat+readability, 0, 100)
	if total <= 0 {
		return model.Level4Scores{AiIndexing: scores.AiIndexing, CentauriSeo: scores.AiIndexing}, true
	}
	scores.CentauriSeo = total
	return scores, false
}

// Final rounds the user-visible scores to two decimals
func Final(l2 model.Level2Scores, l3 model.Level3Scores, l4 model.Level4Scores) model.FinalScores {
	return model.FinalScores{
		CentauriSeo:         round2(l4.CentauriSeo),
		AiIndexing:          round2(l4.AiIndexing),
		Relevance:           round2(l3.Relevance),
		Eeat:                round2(l3.Eeat),
		Readability:         round2(l3.Readability),
		ReadabilityPercent:  round2(l3.Readability * 10),
		RetrievalFactuality: round2(l3.RetrievalFactuality),
		SynthesisCoherence:  round2(l3.SynthesisCoherence),
		Keyword:             round2(l2.Keyword),
		Simplicity:          round2(l2.Simplicity),
		Grammar:             round2(l2.Grammar),
	}
}
