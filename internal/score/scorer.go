// Package score aggregates validated sentences into the Level 2, 3 and 4 score hierarchy.
// Every scorer is a pure function of its input.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// Input is everything the scoring engine reads for one article
type Input struct {
	Sentences   []model.ValidatedSentence
	Outline     model.Outline
	Keyword     KeywordInput
	Competitors []model.CompetitorPage
}

// Result holds every score level plus the signals explaining them
type Result struct {
	Level2  model.Level2Scores
	Level3  model.Level3Scores
	Level4  model.Level4Scores
	Final   model.FinalScores
	Answer  model.AnswerPosition
	Section SectionResult
	Keyword KeywordResult
	Signals []model.Signal
}

// Scorer calculates the score hierarchy and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate runs Level 2, then Level 3 and Level 4 on top of it
func (s *Scorer) Calculate(in Input) Result {
	var r Result
	vs := in.Sentences
	hasKeyword := strings.TrimSpace(in.Keyword.Primary) != ""

	add := func(v float64, sig model.Signal) float64 {
		r.Signals = append(r.Signals, sig)
		return v
	}

	r.Answer = AnswerPositionOf(vs)

	l2 := &r.Level2
	l2.Intent = add(s.intent(vs, hasKeyword))
	l2.Section = add(s.section(in, hasKeyword, &r.Section))
	l2.Keyword = add(s.keyword(in, &r.Keyword))
	l2.OriginalInfo = add(s.originalInfo(vs))
	l2.Expertise = add(s.expertise(vs))
	l2.Credibility = add(s.credibility(vs))
	l2.Authority = add(s.authority(vs))
	l2.Simplicity = add(s.simplicity(vs))
	l2.Grammar = add(s.grammar(vs))
	l2.Variation = add(s.variation(vs))
	l2.Plagiarism = add(s.plagiarism(vs))
	l2.AnswerBlockDensity = add(s.answerBlockDensity(r.Answer))
	l2.FactualIsolation = add(s.factualIsolation(vs))
	l2.EntityAlignment = add(s.entityAlignment(vs))
	l2.SignalToNoise = add(s.signalToNoise(vs))
	l2.TechnicalClarity = add(s.technicalClarity(vs))

	r.Level3 = Level3(r.Level2)

	var fallback bool
	r.Level4, fallback = Level4(r.Level2, r.Level3)
	if fallback {
		r.Signals = append(r.Signals, model.Signal{
			Type:        model.SignalCentauriSeoFallback,
			Severity:    model.SeverityWarning,
			Description: "Relevance, EEAT and readability were all zero; using AI indexing score",
			Data: map[string]interface{}{
				"ai_indexing_score": r.Level4.AiIndexing,
				"formula":           "centauri_seo = ai_indexing when relevance + eeat + readability <= 0",
			},
		})
	}

	r.Final = Final(r.Level2, r.Level3, r.Level4)
	return r
}

func (s *Scorer) section(in Input, hasKeyword bool, out *SectionResult) (float64, model.Signal) {
	if !hasKeyword {
		return 0, model.Signal{
			Type:        model.SignalSection,
			Severity:    model.SeverityWarning,
			Description: "Section coverage skipped without a primary keyword",
			Data:        map[string]interface{}{"score": 0},
		}
	}
	*out = SectionCoverage(in.Outline.Headings, in.Competitors)

	severity := ratioSeverity(out.Score, 5, 2)
	description := fmt.Sprintf("Covered %d/%d required subtopics, %d original", out.Covered, out.RequiredTotal, out.Original)
	if out.RequiredTotal == 0 {
		severity = model.SeverityWarning
		description = "No subtopic is shared by enough competitors"
	}
	return out.Score, model.Signal{
		Type:        model.SignalSection,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"required_total": out.RequiredTotal,
			"covered":        out.Covered,
			"original":       out.Original,
			"missing":        out.Missing,
			"competitors":    len(in.Competitors),
			"score":          out.Score,
			"formula":        "(RS_covered / RS_total) * 10 * (1 + OG / RS_total)",
		},
	}
}

func (s *Scorer) keyword(in Input, out *KeywordResult) (float64, model.Signal) {
	*out = KeywordScore(in.Keyword)
	if strings.TrimSpace(in.Keyword.Primary) == "" {
		return 0, model.Signal{
			Type:        model.SignalKeyword,
			Severity:    model.SeverityWarning,
			Description: "Keyword checks skipped without a primary keyword",
			Data:        map[string]interface{}{"score": 0},
		}
	}
	return out.Score, model.Signal{
		Type:        model.SignalKeyword,
		Severity:    ratioSeverity(out.Score, 5, 2),
		Description: fmt.Sprintf("Keyword density %.2f%%, placement %.2f/9", out.Density, out.Placement),
		Data: map[string]interface{}{
			"placement":   out.Placement,
			"fields":      out.Fields,
			"p_score":     out.PScore,
			"occurrences": out.Occurrences,
			"density":     out.Density,
			"f_score":     out.FScore,
			"score":       out.Score,
			"formula":     "min((placement * 5 / 9) * 0.6 + f_score * 0.4, 10)",
		},
	}
}

// AnswerPositionOf locates the first answer sentence and scores how early it appears
func AnswerPositionOf(vs []model.ValidatedSentence) model.AnswerPosition {
	pos := model.AnswerPosition{FirstAnswerIndex: -1}
	for i, v := range vs {
		if !v.AnswerSentenceFlag {
			continue
		}
		pos.FirstAnswerIndex = i
		pos.FirstAnswerSentenceID = v.ID
		pos.PositionPercent = float64(i) / float64(len(vs)) * 100
		pos.PositionScore = positionScore(pos.PositionPercent)
		break
	}
	return pos
}

func positionScore(percent float64) float64 {
	switch {
	case percent <= 5:
		return 1
	case percent <= 10:
		return 0.75
	case percent <= 20:
		return 0.5
	case percent <= 30:
		return 0.25
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds half away from zero to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
