package model

// Sentence is an immutable unit of analysis produced by the segmenter
type Sentence struct {
	ID          string `json:"id"`                 // S1..Sn
	Text        string `json:"text"`               // Trimmed, never empty
	ParagraphID string `json:"paragraph_id"`       // Groups sentences from the same block
	HTMLTag     string `json:"html_tag,omitempty"` // Originating tag ("p" for plain text)
}

// TagVector is one classifier's opinion about one sentence
type TagVector struct {
	SentenceID             string               `json:"sentence_id"`
	InformativeType        InformativeType      `json:"informative_type"`
	FunctionalType         FunctionalType       `json:"functional_type"`
	Structure              Structure            `json:"structure"`
	Voice                  Voice                `json:"voice"`
	InfoQuality            InfoQuality          `json:"info_quality"`
	ClaritySynthesisType   ClaritySynthesisType `json:"clarity_synthesis_type"`
	ClaimsCitation         bool                 `json:"claims_citation"`
	IsGrammaticallyCorrect bool                 `json:"is_grammatically_correct"`
	HasPronoun             bool                 `json:"has_pronoun"`
	IsPlagiarized          bool                 `json:"is_plagiarized"`
	Source                 Source               `json:"source"`

	// Fallback is set when the vector came from the deterministic detectors
	// instead of the external classifier.
	Fallback bool `json:"fallback,omitempty"`
}

// Decision is the escalation classifier's verdict for one mismatched sentence
type Decision struct {
	SentenceID      string          `json:"sentence_id"`
	InformativeType InformativeType `json:"final_informative_type"`
	FunctionalType  FunctionalType  `json:"functional_type,omitempty"` // Empty when the classifier gave none
	Voice           Voice           `json:"voice,omitempty"`
	Confidence      float64         `json:"confidence"`
	Reason          string          `json:"reason"`
}

// Resolution names the arbitration rule that produced a sentence's informative type
type Resolution string

const (
	ResolutionStatisticDigit Resolution = "statistic_with_digit"
	ResolutionPrediction     Resolution = "prediction_precedence"
	ResolutionBeliefOpinion  Resolution = "opinion_with_belief_marker"
	ResolutionEscalation     Resolution = "escalation"
	ResolutionDefault        Resolution = "default_secondary"
)

// ValidatedSentence is the single authoritative record per sentence after arbitration
type ValidatedSentence struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	ParagraphID string `json:"paragraph_id"`
	HTMLTag     string `json:"html_tag,omitempty"`

	InformativeType        InformativeType      `json:"informative_type"`
	FunctionalType         FunctionalType       `json:"functional_type"`
	Structure              Structure            `json:"structure"`
	Voice                  Voice                `json:"voice"`
	InfoQuality            InfoQuality          `json:"info_quality"`
	ClaritySynthesisType   ClaritySynthesisType `json:"clarity_synthesis_type"`
	ClaimsCitation         bool                 `json:"claims_citation"`
	IsGrammaticallyCorrect bool                 `json:"is_grammatically_correct"`
	HasPronoun             bool                 `json:"has_pronoun"`
	IsPlagiarized          bool                 `json:"is_plagiarized"`
	Source                 Source               `json:"source"`

	Confidence float64    `json:"confidence"`
	Resolution Resolution `json:"resolution"`

	// AI-indexing signals
	AnswerSentenceFlag   bool     `json:"answer_sentence_flag"`
	EntityMentionFlag    bool     `json:"entity_mention_flag"`
	EntityCount          int      `json:"entity_count"`
	Entities             []string `json:"entities,omitempty"`
	EntityConfidenceFlag bool     `json:"entity_confidence_flag"`
	RelevanceScore       float64  `json:"relevance_score"`
}

// SentenceSignals are the AI-indexing attributes attached after arbitration
type SentenceSignals struct {
	SentenceID           string   `json:"sentence_id"`
	AnswerSentenceFlag   bool     `json:"answer_sentence_flag"`
	EntityCount          int      `json:"entity_count"`
	Entities             []string `json:"entities,omitempty"`
	EntityConfidenceFlag bool     `json:"entity_confidence_flag"`
	RelevanceScore       float64  `json:"relevance_score"`
}

// Apply copies the signals onto a validated sentence
func (s SentenceSignals) Apply(v *ValidatedSentence) {
	v.AnswerSentenceFlag = s.AnswerSentenceFlag
	v.EntityCount = s.EntityCount
	v.EntityMentionFlag = s.EntityCount > 0
	v.Entities = s.Entities
	v.EntityConfidenceFlag = s.EntityConfidenceFlag
	v.RelevanceScore = s.RelevanceScore
}

// Section groups sentences under an h2-h4 heading
type Section struct {
	ID          string   `json:"id"`
	Heading     string   `json:"heading"`
	Level       string   `json:"level"`
	SentenceIDs []string `json:"sentence_ids"`
}

// Outline is the page structure the keyword and section scorers read
type Outline struct {
	H1         string    `json:"h1,omitempty"`
	Headings   []string  `json:"headings,omitempty"` // h2 and h3 text in document order
	Sections   []Section `json:"sections,omitempty"`
	BodyText   string    `json:"-"`
	WordCount  int       `json:"word_count"`
	IsHTML     bool      `json:"is_html"`
	Paragraphs int       `json:"paragraphs"`
}
