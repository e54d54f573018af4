package model

import "time"

// Report is the complete Centauri analysis result
type Report struct {
	AnalysisID string    `json:"analysis_id"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Subject    string    `json:"subject,omitempty"` // Title, URL subject or primary keyword
	SourceURL  string    `json:"source_url,omitempty"`

	PrimaryKeyword    string   `json:"primary_keyword,omitempty"`
	SecondaryKeywords []string `json:"secondary_keywords,omitempty"`

	InputIntegrity InputIntegrity `json:"input_integrity"`

	Sentences          []Sentence          `json:"-"`
	ValidatedSentences []ValidatedSentence `json:"validated_sentences,omitempty"`
	SentenceMap        []SentenceTag       `json:"sentence_map,omitempty"`
	Sections           []Section           `json:"sections,omitempty"`

	Level1      *Level1Summary  `json:"level1,omitempty"`
	Level2      *Level2Scores   `json:"level2,omitempty"`
	Level3      *Level3Scores   `json:"level3,omitempty"`
	Level4      *Level4Scores   `json:"level4,omitempty"`
	FinalScores *FinalScores    `json:"final_scores,omitempty"`
	Answer      *AnswerPosition `json:"answer_position,omitempty"`

	Signals         []Signal         `json:"signals,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// SentenceTag is the compact per-sentence view used in reports
type SentenceTag struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	HTMLTag         string          `json:"html_tag,omitempty"`
	InformativeType InformativeType `json:"informative_type"`
	Confidence      float64         `json:"confidence"`
	Source          Source          `json:"source"`
	ClaimsCitation  bool            `json:"claims_citation"`
}

// Level1Summary holds the raw sentence attribute distributions
type Level1Summary struct {
	TotalSentences    int            `json:"total_sentences"`
	Structure         map[string]int `json:"structure"`
	InformativeType   map[string]int `json:"informative_type"`
	Citation          map[string]int `json:"citation"`
	Grammar           map[string]int `json:"grammar"`
	EscalatedCount    int            `json:"escalated_count"`
	AverageConfidence float64        `json:"average_confidence"`
}

// AnswerPosition locates the first direct answer sentence
type AnswerPosition struct {
	FirstAnswerSentenceID string  `json:"first_answer_sentence_id,omitempty"`
	FirstAnswerIndex      int     `json:"first_answer_index"` // 0-based, -1 when none
	PositionPercent       float64 `json:"position_percent"`
	PositionScore         float64 `json:"position_score"`
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formula and inputs
}

// SignalType names the metric a signal explains
type SignalType string

const (
	SignalIntent              SignalType = "intent"
	SignalSection             SignalType = "section_coverage"
	SignalKeyword             SignalType = "keyword"
	SignalOriginalInfo        SignalType = "original_info"
	SignalExpertise           SignalType = "expertise"
	SignalCredibility         SignalType = "credibility"
	SignalCredibilityVeto     SignalType = "credibility_veto" // Uncited statistic zeroed credibility
	SignalAuthority           SignalType = "authority"
	SignalSimplicity          SignalType = "simplicity"
	SignalGrammar             SignalType = "grammar"
	SignalVariation           SignalType = "variation"
	SignalPlagiarism          SignalType = "plagiarism"
	SignalAnswerBlockDensity  SignalType = "answer_block_density"
	SignalFactualIsolation    SignalType = "factual_isolation"
	SignalEntityAlignment     SignalType = "entity_alignment"
	SignalSignalToNoise       SignalType = "signal_to_noise"
	SignalTechnicalClarity    SignalType = "technical_clarity"
	SignalCentauriSeoFallback SignalType = "centauri_seo_fallback"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Recommendation is a fixed remediation suggestion for a below-threshold score
type Recommendation struct {
	Issue        string         `json:"issue"`
	WhatToChange string         `json:"what_to_change"`
	Examples     ExamplePair    `json:"examples"`
	Improves     []string       `json:"improves"`
	Metric       string         `json:"metric"`
	Score        float64        `json:"score"`
	Threshold    float64        `json:"threshold"`
	Severity     SignalSeverity `json:"severity,omitempty"`
}

// ExamplePair is a literal bad/good rewrite
type ExamplePair struct {
	Bad  string `json:"bad"`
	Good string `json:"good"`
}

// Integrity statuses
const (
	IntegritySuccess = "success"
	IntegrityPartial = "partial"
	IntegrityFailed  = "failed"
)

// InputIntegrity reports which inputs were present and what was skipped as a result
type InputIntegrity struct {
	Status          string          `json:"status"`
	Received        map[string]bool `json:"received"`
	MissingInputs   []string        `json:"missing_inputs"`
	InvalidInputs   []string        `json:"invalid_inputs"`
	DefaultsApplied []string        `json:"defaults_applied"`
	SkippedChecks   []string        `json:"skipped_checks"`
	Messages        []string        `json:"messages,omitempty"`
}

// HasMissing reports whether name is listed as missing
func (i InputIntegrity) HasMissing(name string) bool {
	for _, m := range i.MissingInputs {
		if m == name {
			return true
		}
	}
	return false
}

// HasSkipped reports whether a check was skipped
func (i InputIntegrity) HasSkipped(check string) bool {
	for _, c := range i.SkippedChecks {
		if c == check {
			return true
		}
	}
	return false
}

// Diagnostics records how the analysis ran
type Diagnostics struct {
	DurationMS           int64             `json:"duration_ms"`
	StageMS              map[string]int64  `json:"stage_ms,omitempty"`
	Classifiers          map[string]string `json:"classifiers,omitempty"` // role -> provider
	EscalatedSentenceIDs []string          `json:"escalated_sentence_ids,omitempty"`
	FallbackBatches      map[string]int    `json:"fallback_batches,omitempty"`
	AICalls              []AICall          `json:"ai_calls,omitempty"`
	Warnings             []string          `json:"warnings,omitempty"`
}

// AICall is one tracked call to an external model
type AICall struct {
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Tokens    int    `json:"tokens,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CompetitorPage is one ranking page's heading outline
type CompetitorPage struct {
	URL      string   `json:"url"`
	Headings []string `json:"headings"`
	Intent   string   `json:"intent,omitempty"` // Informational, Navigational, Transactional, Commercial
}

// VariantType qualifies how closely a keyword variant matches the primary keyword
type VariantType string

const (
	VariantExact         VariantType = "Exact"
	VariantLexical       VariantType = "Lexical"
	VariantSemantic      VariantType = "Semantic"
	VariantSearchDerived VariantType = "SearchDerived"
	VariantMorphological VariantType = "Morphological"
)

// MatchWeight is the placement multiplier for a variant type
func (v VariantType) MatchWeight() float64 {
	switch v {
	case VariantExact:
		return 1.0
	case VariantLexical:
		return 0.95
	case VariantSemantic:
		return 0.90
	case VariantSearchDerived:
		return 0.85
	case VariantMorphological:
		return 0.80
	default:
		return 0
	}
}

// ParseVariantType maps raw research output onto a variant type (default Semantic)
func ParseVariantType(s string) VariantType {
	return lookup(s, []VariantType{
		VariantExact, VariantLexical, VariantSemantic, VariantSearchDerived, VariantMorphological,
	}, VariantSemantic)
}

// KeywordVariant is a registered alternative phrasing of the primary keyword
type KeywordVariant struct {
	Text string      `json:"text"`
	Type VariantType `json:"type"`
}

// Research is the competitor context used by section and keyword scoring
type Research struct {
	Keyword     string           `json:"keyword"`
	Competitors []CompetitorPage `json:"competitors"`
	Variants    []KeywordVariant `json:"variants"`
}
