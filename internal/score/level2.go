package score

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ppiankov/centauri/internal/model"
)

func count(vs []model.ValidatedSentence, pred func(model.ValidatedSentence) bool) int {
	n := 0
	for _, v := range vs {
		if pred(v) {
			n++
		}
	}
	return n
}

func isType(types ...model.InformativeType) func(model.ValidatedSentence) bool {
	return func(v model.ValidatedSentence) bool {
		for _, t := range types {
			if v.InformativeType == t {
				return true
			}
		}
		return false
	}
}

func ratioSeverity(score, warn, critical float64) model.SignalSeverity {
	switch {
	case score < critical:
		return model.SeverityCritical
	case score < warn:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

// intent scores informational density (0..10). A missing keyword skips the check.
func (s *Scorer) intent(vs []model.ValidatedSentence, hasKeyword bool) (float64, model.Signal) {
	if !hasKeyword || len(vs) == 0 {
		return 0, model.Signal{
			Type:        model.SignalIntent,
			Severity:    model.SeverityWarning,
			Description: "Intent alignment not computed",
			Data:        map[string]interface{}{"keyword": hasKeyword, "total": len(vs), "score": 0},
		}
	}

	informational := count(vs, isType(model.InfoFact, model.InfoDefinition, model.InfoObservation))
	ratio := float64(informational) / float64(len(vs))
	score := clamp(ratio/10*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalIntent,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Informational sentences: %d/%d", informational, len(vs)),
		Data: map[string]interface{}{
			"informational": informational,
			"total":         len(vs),
			"ratio":         ratio,
			"score":         score,
			"formula":       "(informational_ratio / 10) * 10",
		},
	}
}

// originalInfo scores the share of Unique and PartiallyKnown information (0..10)
func (s *Scorer) originalInfo(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 0, emptySignal(model.SignalOriginalInfo)
	}
	original := count(vs, func(v model.ValidatedSentence) bool {
		return v.InfoQuality == model.QualityUnique || v.InfoQuality == model.QualityPartiallyKnown
	})
	score := clamp(float64(original)/float64(len(vs))*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalOriginalInfo,
		Severity:    ratioSeverity(score, 3, 1),
		Description: fmt.Sprintf("Original information: %d/%d sentences", original, len(vs)),
		Data: map[string]interface{}{
			"original": original,
			"total":    len(vs),
			"score":    score,
			"formula":  "(unique + partially_known) / total * 10",
		},
	}
}

// expertise scores experiential sentences (0..20)
func (s *Scorer) expertise(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 0, emptySignal(model.SignalExpertise)
	}
	experiential := isType(model.InfoOpinion, model.InfoPrediction, model.InfoObservation, model.InfoSuggestion)
	e := count(vs, func(v model.ValidatedSentence) bool {
		return experiential(v) || v.HasPronoun
	})
	score := clamp(float64(e)/float64(len(vs))*100/10*2, 0, 20)

	return score, model.Signal{
		Type:        model.SignalExpertise,
		Severity:    ratioSeverity(score, 6, 2),
		Description: fmt.Sprintf("Experience signals in %d/%d sentences", e, len(vs)),
		Data: map[string]interface{}{
			"experiential": e,
			"total":        len(vs),
			"score":        score,
			"formula":      "(E / total * 100) / 10 * 2",
		},
	}
}

// credibility scores sourced claims (0..10). Any statistic without a source zeroes it.
func (s *Scorer) credibility(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 0, emptySignal(model.SignalCredibility)
	}

	var uncited []string
	for _, v := range vs {
		if v.InformativeType == model.InfoStatistic && v.Source == model.SourceUnknown {
			uncited = append(uncited, v.ID)
		}
	}
	if len(uncited) > 0 {
		return 0, model.Signal{
			Type:        model.SignalCredibilityVeto,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d statistic(s) without a source force credibility to zero", len(uncited)),
			Data: map[string]interface{}{
				"uncited_statistics": uncited,
				"score":              0,
				"formula":            "0 when any Statistic has source == Unknown",
			},
		}
	}

	c := count(vs, credible)
	score := clamp(float64(c)/float64(len(vs))*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalCredibility,
		Severity:    ratioSeverity(score, 3, 1),
		Description: fmt.Sprintf("Credible sourced sentences: %d/%d", c, len(vs)),
		Data: map[string]interface{}{
			"credible": c,
			"total":    len(vs),
			"score":    score,
			"formula":  "(credible / total) * 10",
		},
	}
}

func credible(v model.ValidatedSentence) bool {
	if v.Source == model.SourceUnknown || v.Source == "" {
		return false
	}
	switch v.InformativeType {
	case model.InfoStatistic, model.InfoPrediction, model.InfoDefinition:
		return true
	case model.InfoClaim:
		switch v.InfoQuality {
		case model.QualityPartiallyKnown, model.QualityWellKnown, model.QualityUnique:
			return true
		}
	}
	return false
}

// authority averages the per-sentence authority blend (0..10)
func (s *Scorer) authority(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 0, emptySignal(model.SignalAuthority)
	}
	total := 0.0
	for _, v := range vs {
		total += SentenceAuthority(v)
	}
	avg := total / float64(len(vs))
	score := clamp(avg*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalAuthority,
		Severity:    ratioSeverity(score, 6, 3),
		Description: fmt.Sprintf("Average sentence authority: %.2f", avg),
		Data: map[string]interface{}{
			"average": avg,
			"total":   len(vs),
			"score":   score,
			"formula": "avg(0.2*functional + 0.2*structure + 0.4*informative + 0.2*voice) * 10",
		},
	}
}

// SentenceAuthority is the weighted authority of one sentence (0..1)
func SentenceAuthority(v model.ValidatedSentence) float64 {
	functional := 1.0
	switch v.FunctionalType {
	case model.FunctionalExclamatory:
		functional = 0.5
	case model.FunctionalInterrogative:
		functional = 0
	}

	structure := 1.0
	switch v.Structure {
	case model.StructureCompoundComplex:
		structure = 0.5
	case model.StructureFragment:
		structure = 0
	}

	informative := 0.5
	switch v.InformativeType {
	case model.InfoFact, model.InfoObservation, model.InfoDefinition, model.InfoStatistic,
		model.InfoClaim, model.InfoSuggestion, model.InfoOpinion, model.InfoPrediction:
		informative = 1
	case model.InfoQuestion:
		informative = 0
	}

	voice := 1.0
	if v.Voice == model.VoicePassive || v.Voice == model.VoiceBoth {
		voice = 0.5
	}

	return 0.2*functional + 0.2*structure + 0.4*informative + 0.2*voice
}

// simplicity penalises complex structures (0..10); empty input scores 10/3
func (s *Scorer) simplicity(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 10.0 / 3, model.Signal{
			Type:        model.SignalSimplicity,
			Severity:    model.SeverityWarning,
			Description: "No sentences (placeholder score)",
			Data:        map[string]interface{}{"total": 0, "score": 10.0 / 3},
		}
	}
	complexCount := count(vs, func(v model.ValidatedSentence) bool {
		return v.Structure == model.StructureComplex || v.Structure == model.StructureCompoundComplex
	})
	ratio := float64(complexCount) / float64(len(vs))
	score := clamp(10-ratio*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalSimplicity,
		Severity:    ratioSeverity(score, 5, 2),
		Description: fmt.Sprintf("Complex sentences: %d/%d", complexCount, len(vs)),
		Data: map[string]interface{}{
			"complex": complexCount,
			"total":   len(vs),
			"score":   score,
			"formula": "10 - (complex_ratio * 10)",
		},
	}
}

// grammar scores correct sentences, exempting incorrect fragments of at most two words (0..10)
func (s *Scorer) grammar(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 10, model.Signal{
			Type:        model.SignalGrammar,
			Severity:    model.SeverityInfo,
			Description: "No sentences to check",
			Data:        map[string]interface{}{"total": 0, "score": 10},
		}
	}
	correct, exempt := 0, 0
	for _, v := range vs {
		switch {
		case v.IsGrammaticallyCorrect:
			correct++
		case wordCount(v.Text) <= 2:
			exempt++
		}
	}
	score := clamp(float64(correct+exempt)/float64(len(vs))*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalGrammar,
		Severity:    ratioSeverity(score, 7, 2),
		Description: fmt.Sprintf("Grammatically acceptable: %d/%d", correct+exempt, len(vs)),
		Data: map[string]interface{}{
			"correct":      correct,
			"short_exempt": exempt,
			"total":        len(vs),
			"score":        score,
			"formula":      "(correct + short_incorrect_exempt) / total * 10",
		},
	}
}

// tagBucket maps an originating html tag onto the variation buckets
func tagBucket(tag string) string {
	switch tag {
	case "p", "span":
		return "paragraph"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "header"
	case "ul", "ol", "li":
		return "list"
	case "table", "tr", "td", "th":
		return "table"
	case "img":
		return "image"
	default:
		return ""
	}
}

var buckets = []string{"paragraph", "header", "list", "table", "image"}

// variation is the normalised entropy of html tag buckets (0..10)
func (s *Scorer) variation(vs []model.ValidatedSentence) (float64, model.Signal) {
	counts := make(map[string]int)
	tagged := 0
	for _, v := range vs {
		if b := tagBucket(v.HTMLTag); b != "" {
			counts[b]++
			tagged++
		}
	}
	if tagged == 0 {
		return 0, emptySignal(model.SignalVariation)
	}

	p := make([]float64, len(buckets))
	for i, b := range buckets {
		p[i] = float64(counts[b]) / float64(tagged)
	}
	entropy := stat.Entropy(p) / math.Ln2
	score := clamp(entropy/math.Log2(float64(len(buckets)))*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalVariation,
		Severity:    ratioSeverity(score, 3, 1),
		Description: fmt.Sprintf("Content format entropy: %.2f bits", entropy),
		Data: map[string]interface{}{
			"distribution": counts,
			"entropy":      entropy,
			"score":        score,
			"formula":      "(entropy / log2(5)) * 10",
		},
	}
}

// plagiarism scores the share of original sentences (0..10); empty input scores 10
func (s *Scorer) plagiarism(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 10, model.Signal{
			Type:        model.SignalPlagiarism,
			Severity:    model.SeverityInfo,
			Description: "Nothing to flag",
			Data:        map[string]interface{}{"total": 0, "score": 10},
		}
	}
	plagiarized := count(vs, func(v model.ValidatedSentence) bool { return v.IsPlagiarized })
	score := clamp(float64(len(vs)-plagiarized)/float64(len(vs))*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalPlagiarism,
		Severity:    ratioSeverity(score, 9, 7),
		Description: fmt.Sprintf("Plagiarized sentences: %d/%d", plagiarized, len(vs)),
		Data: map[string]interface{}{
			"plagiarized": plagiarized,
			"total":       len(vs),
			"score":       score,
			"formula":     "((total - plagiarized) / total) * 10",
		},
	}
}

// AnswerBlockDensity maps the first answer index (0-based, -1 for none) to 10, 6, 3 or 0
func AnswerBlockDensity(firstAnswerIndex int) float64 {
	switch {
	case firstAnswerIndex < 0:
		return 0
	case firstAnswerIndex <= 4:
		return 10
	case firstAnswerIndex <= 14:
		return 6
	default:
		return 3
	}
}

func (s *Scorer) answerBlockDensity(answer model.AnswerPosition) (float64, model.Signal) {
	score := AnswerBlockDensity(answer.FirstAnswerIndex)
	description := "No direct answer sentence found"
	if answer.FirstAnswerIndex >= 0 {
		description = fmt.Sprintf("First answer at sentence %s (index %d)", answer.FirstAnswerSentenceID, answer.FirstAnswerIndex)
	}
	return score, model.Signal{
		Type:        model.SignalAnswerBlockDensity,
		Severity:    ratioSeverity(score, 6, 3),
		Description: description,
		Data: map[string]interface{}{
			"first_answer_index": answer.FirstAnswerIndex,
			"score":              score,
			"formula":            "index <= 4 -> 10, <= 14 -> 6, else 3, none -> 0",
		},
	}
}

// factualIsolation is the share of facts and statistics that sit in purely factual paragraphs (0..10)
func (s *Scorer) factualIsolation(vs []model.ValidatedSentence) (float64, model.Signal) {
	factual := isType(model.InfoFact, model.InfoStatistic)
	pure := isType(model.InfoFact, model.InfoStatistic, model.InfoDefinition)

	mixed := make(map[string]bool)
	for _, v := range vs {
		if !pure(v) {
			mixed[v.ParagraphID] = true
		}
	}

	facts, isolated := 0, 0
	for _, v := range vs {
		if !factual(v) {
			continue
		}
		facts++
		if !mixed[v.ParagraphID] {
			isolated++
		}
	}
	if facts == 0 {
		return 0, emptySignal(model.SignalFactualIsolation)
	}
	score := clamp(float64(isolated)/float64(facts)*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalFactualIsolation,
		Severity:    ratioSeverity(score, 4, 1),
		Description: fmt.Sprintf("Isolated factual sentences: %d/%d", isolated, facts),
		Data: map[string]interface{}{
			"isolated": isolated,
			"factual":  facts,
			"score":    score,
			"formula":  "(factual sentences in purely factual paragraphs / factual sentences) * 10",
		},
	}
}

// entityAlignment is confident entity sentences over entity mentions (0..1)
func (s *Scorer) entityAlignment(vs []model.ValidatedSentence) (float64, model.Signal) {
	mentions := 0
	for _, v := range vs {
		mentions += v.EntityCount
	}
	if mentions == 0 {
		return 0, emptySignal(model.SignalEntityAlignment)
	}
	confident := count(vs, func(v model.ValidatedSentence) bool { return v.EntityConfidenceFlag })
	score := clamp(float64(confident)/float64(mentions), 0, 1)

	return score, model.Signal{
		Type:        model.SignalEntityAlignment,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Confident entity sentences: %d over %d mentions", confident, mentions),
		Data: map[string]interface{}{
			"confident": confident,
			"mentions":  mentions,
			"score":     score,
			"formula":   "confident_entity_sentences / entity_mentions",
		},
	}
}

// Clustering penalty applied per paragraph holding more than one filler sentence
const (
	fillerClusterPenalty = 0.02
	maxClusterPenalty    = 0.20
)

// signalToNoise compares informative to noise sentences (0..10)
func (s *Scorer) signalToNoise(vs []model.ValidatedSentence) (float64, model.Signal) {
	signal := count(vs, isType(model.InfoFact, model.InfoClaim, model.InfoDefinition, model.InfoStatistic))
	noise := count(vs, isType(model.InfoFiller, model.InfoTransition, model.InfoUncertain))
	if signal+noise == 0 {
		return 0, emptySignal(model.SignalSignalToNoise)
	}

	fillers := make(map[string]int)
	for _, v := range vs {
		if v.InformativeType == model.InfoFiller {
			fillers[v.ParagraphID]++
		}
	}
	clustered := 0
	for _, n := range fillers {
		if n > 1 {
			clustered++
		}
	}
	penalty := math.Min(float64(clustered)*fillerClusterPenalty, maxClusterPenalty)

	ratio := float64(signal) / float64(signal+noise)
	score := clamp(ratio-penalty, 0, 1) * 10

	return score, model.Signal{
		Type:        model.SignalSignalToNoise,
		Severity:    ratioSeverity(score, 6, 3),
		Description: fmt.Sprintf("Signal %d vs noise %d sentences", signal, noise),
		Data: map[string]interface{}{
			"signal":               signal,
			"noise":                noise,
			"clustered_paragraphs": clustered,
			"penalty":              penalty,
			"score":                score,
			"formula":              "clamp(S/(S+N) - min(0.02*clustered, 0.20), 0, 1) * 10",
		},
	}
}

func structureQuality(st model.Structure) float64 {
	switch st {
	case model.StructureSimple:
		return 1
	case model.StructureCompound, model.StructureComplex:
		return 0.85
	case model.StructureCompoundComplex:
		return 0.5
	default:
		return 0.3
	}
}

func clarityWeight(c model.ClaritySynthesisType) float64 {
	switch c {
	case model.ClarityFocused:
		return 1
	case model.ClarityModerateComplexity:
		return 0.5
	case model.ClarityLowClarity:
		return 0.1
	default:
		return 0
	}
}

// technicalClarity blends grammar, structure, clarity and entity relevance (0..10)
func (s *Scorer) technicalClarity(vs []model.ValidatedSentence) (float64, model.Signal) {
	if len(vs) == 0 {
		return 0, emptySignal(model.SignalTechnicalClarity)
	}
	n := float64(len(vs))

	var grammarOK, structure, clarity, entities float64
	for _, v := range vs {
		if v.IsGrammaticallyCorrect || v.Structure == model.StructureFragment {
			grammarOK++
		}
		structure += structureQuality(v.Structure)
		clarity += clarityWeight(v.ClaritySynthesisType)
		if v.EntityConfidenceFlag && v.RelevanceScore > 0 {
			entities++
		}
	}
	ga, sq, cs, er := grammarOK/n, structure/n, clarity/n, entities/n
	score := clamp((0.3*ga+0.3*sq+0.2*cs+0.2*er)*10, 0, 10)

	return score, model.Signal{
		Type:        model.SignalTechnicalClarity,
		Severity:    ratioSeverity(score, 6, 3),
		Description: fmt.Sprintf("Technical clarity %.2f", score),
		Data: map[string]interface{}{
			"grammar_ratio":   ga,
			"structure_ratio": sq,
			"clarity_ratio":   cs,
			"entity_ratio":    er,
			"score":           score,
			"formula":         "(0.3*grammar + 0.3*structure + 0.2*clarity + 0.2*entity_relevance) * 10",
		},
	}
}

func emptySignal(t model.SignalType) model.Signal {
	return model.Signal{
		Type:        t,
		Severity:    model.SeverityWarning,
		Description: "No qualifying sentences",
		Data:        map[string]interface{}{"score": 0},
	}
}
