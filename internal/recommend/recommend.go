// Package recommend turns below-threshold scores into fixed remediation advice.
package recommend

import (
	"github.com/ppiankov/centauri/internal/model"
)

// Scores is the slice of the score hierarchy the rules read
type Scores struct {
	Level2 model.Level2Scores
	Level3 model.Level3Scores
	Level4 model.Level4Scores
}

// Rule fires when its metric falls strictly below Threshold
type Rule struct {
	Metric       string
	Threshold    float64
	Issue        string
	WhatToChange string
	Examples     model.ExamplePair
	Improves     []string
	value        func(Scores) float64
}

// Rules is the fixed rule table, evaluated in order
var Rules = []Rule{
	{
		Metric:       "simplicity_score",
		Threshold:    2,
		Issue:        "Poor sentence simplicity",
		WhatToChange: "Split complex and compound-complex sentences into short declarative ones.",
		Examples: model.ExamplePair{
			Bad:  "Although the setup is complex, the results are worth the effort, and most users finish it within an hour.",
			Good: "The setup is complex. The results are worth the effort. Most users finish it within an hour.",
		},
		Improves: []string{"readability_score", "simplicity_score"},
		value:    func(s Scores) float64 { return s.Level2.Simplicity },
	},
	{
		Metric:       "grammar_score",
		Threshold:    2,
		Issue:        "Grammar issues",
		WhatToChange: "Start sentences with a capital letter, end them with punctuation and fix tense and subject agreement.",
		Examples: model.ExamplePair{
			Bad:  "the system generate the report successful",
			Good: "The system generated the report successfully.",
		},
		Improves: []string{"grammar_score", "readability_score"},
		value:    func(s Scores) float64 { return s.Level2.Grammar },
	},
	{
		Metric:       "keyword_score",
		Threshold:    5,
		Issue:        "Weak keyword signals",
		WhatToChange: "Place the primary keyword or a close variant in the H1, meta title, meta description or URL slug. Avoid stuffing the body.",
		Examples: model.ExamplePair{
			Bad:  "H1: Improve writing",
			Good: "H1: How an AI content checker improves on-page SEO",
		},
		Improves: []string{"keyword_score", "relevance_score"},
		value:    func(s Scores) float64 { return s.Level2.Keyword },
	},
	{
		Metric:       "readability_score",
		Threshold:    7,
		Issue:        "Low readability",
		WhatToChange: "Shorten paragraphs, add headings and lists and drop filler sentences.",
		Examples: model.ExamplePair{
			Bad:  "A long paragraph that covers several ideas without a single heading.",
			Good: "An H2 that names the idea, followed by two short paragraphs or a list.",
		},
		Improves: []string{"readability_score"},
		value:    func(s Scores) float64 { return s.Level3.Readability },
	},
	{
		Metric:       "eeat_score",
		Threshold:    18,
		Issue:        "Low EEAT",
		WhatToChange: "Cite a source for every statistic, add first-hand observations or internal data and state the author's credentials.",
		Examples: model.ExamplePair{
			Bad:  "Retention increased by 22 percent.",
			Good: "Retention increased by 22 percent according to the 2024 SaaS Benchmarks Report.",
		},
		Improves: []string{"eeat_score", "credibility_score"},
		value:    func(s Scores) float64 { return s.Level3.Eeat },
	},
	{
		Metric:       "ai_indexing_score",
		Threshold:    50,
		Issue:        "Poor AI-indexing signals",
		WhatToChange: "Open with a short direct answer, keep facts in their own paragraphs and use headers for subtopics.",
		Examples: model.ExamplePair{
			Bad:  "An opinion paragraph that mixes facts with advice.",
			Good: "Answer: Use feature X to achieve Y. Then a short sourced list of facts.",
		},
		Improves: []string{"ai_indexing_score", "retrieval_factuality_score"},
		value:    func(s Scores) float64 { return s.Level4.AiIndexing },
	},
	{
		Metric:       "centauri_seo_score",
		Threshold:    40,
		Issue:        "Low overall SEO score",
		WhatToChange: "Revise the article around missing competitor subtopics, source its statistics and improve readability and keyword placement.",
		Examples: model.ExamplePair{
			Bad:  "The article skips key subtopics and quotes unsourced numbers.",
			Good: "One H2 per required subtopic, sourced statistics and the primary keyword in the H1 and meta title.",
		},
		Improves: []string{"centauri_seo_score", "relevance_score", "eeat_score", "readability_score"},
		value:    func(s Scores) float64 { return s.Level4.CentauriSeo },
	},
}

// Generate returns one recommendation per rule whose metric is below its threshold.
// Rules are independent; the result follows table order and is never nil.
func Generate(s Scores) []model.Recommendation {
	out := []model.Recommendation{}
	for _, r := range Rules {
		v := r.value(s)
		if v >= r.Threshold {
			continue
		}
		out = append(out, model.Recommendation{
			Issue:        r.Issue,
			WhatToChange: r.WhatToChange,
			Examples:     r.Examples,
			Improves:     append([]string(nil), r.Improves...),
			Metric:       r.Metric,
			Score:        v,
			Threshold:    r.Threshold,
			Severity:     severity(v, r.Threshold),
		})
	}
	return out
}

// severity is critical below half the threshold
func severity(v, threshold float64) model.SignalSeverity {
	if v < threshold/2 {
		return model.SeverityCritical
	}
	return model.SeverityWarning
}
