package model

// Level2Scores are the per-metric component scores computed over validated sentences
type Level2Scores struct {
	Intent       float64 `json:"intent_score"`        // 0..10
	Section      float64 `json:"section_score"`       // 0..10
	Keyword      float64 `json:"keyword_score"`       // 0..10
	OriginalInfo float64 `json:"original_info_score"` // 0..10
	Expertise    float64 `json:"expertise_score"`     // 0..20
	Credibility  float64 `json:"credibility_score"`   // 0..10
	Authority    float64 `json:"authority_score"`     // 0..10, scaled x10 before EEAT
	Simplicity   float64 `json:"simplicity_score"`    // 0..10
	Grammar      float64 `json:"grammar_score"`       // 0..10
	Variation    float64 `json:"variation_score"`     // 0..10
	Plagiarism   float64 `json:"plagiarism_score"`    // 0..10

	AnswerBlockDensity float64 `json:"answer_block_density_score"` // 0..10
	FactualIsolation   float64 `json:"factual_isolation_score"`    // 0..10
	EntityAlignment    float64 `json:"entity_alignment_score"`     // 0..1
	SignalToNoise      float64 `json:"signal_to_noise_score"`      // 0..10
	TechnicalClarity   float64 `json:"technical_clarity_score"`    // 0..10
}

// Level3Scores are composites of Level 2
type Level3Scores struct {
	Relevance           float64 `json:"relevance_score"`            // 0..40
	Eeat                float64 `json:"eeat_score"`                 // 0..30
	Readability         float64 `json:"readability_score"`          // 0..10
	RetrievalFactuality float64 `json:"retrieval_factuality_score"` // 0..56.5
	SynthesisCoherence  float64 `json:"synthesis_coherence_score"`  // 0..30
}

// Level4Scores are the final composites
type Level4Scores struct {
	AiIndexing  float64 `json:"ai_indexing_score"`  // 0..100
	CentauriSeo float64 `json:"centauri_seo_score"` // 0..100
}

// FinalScores are the user-visible values, rounded to two decimals
type FinalScores struct {
	CentauriSeo         float64 `json:"centauri_seo_score"`
	AiIndexing          float64 `json:"ai_indexing_score"`
	Relevance           float64 `json:"relevance_score"`
	Eeat                float64 `json:"eeat_score"`
	Readability         float64 `json:"readability_score"`
	ReadabilityPercent  float64 `json:"readability_percent"` // Readability x10
	RetrievalFactuality float64 `json:"retrieval_factuality_score"`
	SynthesisCoherence  float64 `json:"synthesis_coherence_score"`
	Keyword             float64 `json:"keyword_score"`
	Simplicity          float64 `json:"simplicity_score"`
	Grammar             float64 `json:"grammar_score"`
}

// Range is a closed numeric interval a score must stay within
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Level2Ranges documents the declared range of every Level 2 field
var Level2Ranges = map[string]Range{
	"intent_score":               {0, 10},
	"section_score":              {0, 10},
	"keyword_score":              {0, 10},
	"original_info_score":        {0, 10},
	"expertise_score":            {0, 20},
	"credibility_score":          {0, 10},
	"authority_score":            {0, 10},
	"simplicity_score":           {0, 10},
	"grammar_score":              {0, 10},
	"variation_score":            {0, 10},
	"plagiarism_score":           {0, 10},
	"answer_block_density_score": {0, 10},
	"factual_isolation_score":    {0, 10},
	"entity_alignment_score":     {0, 1},
	"signal_to_noise_score":      {0, 10},
	"technical_clarity_score":    {0, 10},
}

// Fields returns the Level 2 scores keyed by their JSON names
func (s Level2Scores) Fields() map[string]float64 {
	return map[string]float64{
		"intent_score":               s.Intent,
		"section_score":              s.Section,
		"keyword_score":              s.Keyword,
		"original_info_score":        s.OriginalInfo,
		"expertise_score":            s.Expertise,
		"credibility_score":          s.Credibility,
		"authority_score":            s.Authority,
		"simplicity_score":           s.Simplicity,
		"grammar_score":              s.Grammar,
		"variation_score":            s.Variation,
		"plagiarism_score":           s.Plagiarism,
		"answer_block_density_score": s.AnswerBlockDensity,
		"factual_isolation_score":    s.FactualIsolation,
		"entity_alignment_score":     s.EntityAlignment,
		"signal_to_noise_score":      s.SignalToNoise,
		"technical_clarity_score":    s.TechnicalClarity,
	}
}

// Level3Ranges documents the declared range of every Level 3 field
var Level3Ranges = map[string]Range{
	"relevance_score":            {0, 40},
	"eeat_score":                 {0, 30},
	"readability_score":          {0, 10},
	"retrieval_factuality_score": {0, 56.5},
	"synthesis_coherence_score":  {0, 30},
}

// Fields returns the Level 3 scores keyed by their JSON names
func (s Level3Scores) Fields() map[string]float64 {
	return map[string]float64{
		"relevance_score":            s.Relevance,
		"eeat_score":                 s.Eeat,
		"readability_score":          s.Readability,
		"retrieval_factuality_score": s.RetrievalFactuality,
		"synthesis_coherence_score":  s.SynthesisCoherence,
	}
}

// Level4Ranges documents the declared range of every Level 4 field
var Level4Ranges = map[string]Range{
	"ai_indexing_score":  {0, 100},
	"centauri_seo_score": {0, 100},
}

// Fields returns the Level 4 scores keyed by their JSON names
func (s Level4Scores) Fields() map[string]float64 {
	return map[string]float64{
		"ai_indexing_score":  s.AiIndexing,
		"centauri_seo_score": s.CentauriSeo,
	}
}
