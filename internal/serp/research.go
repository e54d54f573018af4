// Package serp gathers competitor context for a primary keyword: the heading
// outlines of ranking pages and registered keyword variants.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/worker"
)

const researchSystem = `You research search results for SEO content analysis.
For the given primary keyword, list the pages that rank for it and the H2/H3 headings each page uses,
plus alternative phrasings of the keyword.
Variant types: Exact, Lexical, Semantic, SearchDerived, Morphological.
Intent values: Informational, Navigational, Transactional, Commercial.
Respond with JSON only: {"competitors":[{"url":"...","headings":["..."],"intent":"..."}],"variants":[{"text":"...","type":"..."}]}`

// researchSchema is enforced on every research reply
var researchSchema = &llm.Schema{
	Name: "competitor_research",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"competitors"},
		"properties": map[string]any{
			"competitors": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"headings"},
					"properties": map[string]any{
						"url":      map[string]any{"type": "string"},
						"headings": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"intent":   map[string]any{"type": "string"},
					},
				},
			},
			"variants": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"text"},
					"properties": map[string]any{
						"text": map[string]any{"type": "string"},
						"type": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// MaxCompetitors caps how many competitor outlines are kept
const MaxCompetitors = 10

// Researcher asks the research model role for competitor outlines and keyword variants
type Researcher struct {
	Provider llm.Provider
	Cache    cache.ResponseStore
	Limiter  *worker.Limiter
	Log      io.Writer
}

type rawResearch struct {
	Competitors []struct {
		URL      string   `json:"url"`
		Headings []string `json:"headings"`
		Intent   string   `json:"intent"`
	} `json:"competitors"`
	Variants []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"variants"`
}

// Enabled reports whether research can run
func (r *Researcher) Enabled() bool {
	return r != nil && r.Provider != nil
}

// Research returns competitor context for keyword. Without a provider or a
// keyword it returns an empty result and no error.
func (r *Researcher) Research(ctx context.Context, keyword string) (model.Research, error) {
	keyword = strings.TrimSpace(keyword)
	result := model.Research{Keyword: keyword}
	if !r.Enabled() || keyword == "" {
		return result, nil
	}

	req := llm.Request{
		System:      researchSystem,
		Prompt:      "Primary keyword: " + keyword,
		Schema:      researchSchema,
		Temperature: 0.2,
		Purpose:     "research",
	}
	payload := req.System + "\n" + req.Prompt
	key := cache.RequestKey(r.Provider.Name(), payload)

	if r.Cache != nil {
		if content, ok := r.Cache.Lookup(key); ok {
			if parsed, err := parseResearch(content, keyword); err == nil {
				llm.CallLogFrom(ctx).Record(model.AICall{Provider: r.Provider.Name(), Purpose: req.Purpose, Cached: true})
				return parsed, nil
			}
		}
	}

	if err := r.Limiter.Wait(ctx, r.Provider.Name()); err != nil {
		return result, err
	}
	resp, err := r.Provider.Complete(ctx, req)
	if err != nil {
		return result, fmt.Errorf("research %q: %w", keyword, err)
	}
	parsed, err := parseResearch(resp.Content, keyword)
	if err != nil {
		return result, fmt.Errorf("research %q: %w", keyword, err)
	}

	if r.Cache != nil {
		if err := r.Cache.Save(key, payload, resp.Content, r.Provider.Name()); err != nil && r.Log != nil {
			fmt.Fprintf(r.Log, "Warning: research cache write failed: %v\n", err)
		}
	}
	return parsed, nil
}

// parseResearch validates content against the research schema and normalises it
func parseResearch(content, keyword string) (model.Research, error) {
	content = llm.StripFences(content)
	if err := llm.ValidateJSON(researchSchema, content); err != nil {
		return model.Research{}, err
	}

	var raw rawResearch
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.Research{}, fmt.Errorf("decode research: %w", err)
	}

	out := model.Research{Keyword: keyword}
	for _, c := range raw.Competitors {
		var headings []string
		for _, h := range c.Headings {
			if h = strings.TrimSpace(h); h != "" {
				headings = append(headings, h)
			}
		}
		if len(headings) == 0 {
			continue
		}
		out.Competitors = append(out.Competitors, model.CompetitorPage{
			URL:      strings.TrimSpace(c.URL),
			Headings: headings,
			Intent:   strings.TrimSpace(c.Intent),
		})
		if len(out.Competitors) == MaxCompetitors {
			break
		}
	}

	seen := map[string]bool{strings.ToLower(keyword): true}
	for _, v := range raw.Variants {
		text := strings.TrimSpace(v.Text)
		if text == "" || seen[strings.ToLower(text)] {
			continue
		}
		seen[strings.ToLower(text)] = true
		out.Variants = append(out.Variants, model.KeywordVariant{Text: text, Type: model.ParseVariantType(v.Type)})
	}
	return out, nil
}
