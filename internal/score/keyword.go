package score

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// Placement field weights
const (
	weightH1              = 3.0
	weightMetaTitle       = 3.0
	weightURLSlug         = 2.0
	weightMetaDescription = 1.0
	maxPlacement          = weightH1 + weightMetaTitle + weightURLSlug + weightMetaDescription
)

// KeywordInput is everything keyword placement and frequency look at
type KeywordInput struct {
	Primary         string
	Variants        []model.KeywordVariant
	H1              string
	MetaTitle       string
	MetaDescription string
	URL             string
	BodyText        string
}

// KeywordResult is the breakdown behind KeywordScore
type KeywordResult struct {
	Placement   float64            `json:"placement"` // raw, max 9
	PScore      float64            `json:"p_score"`   // 0..5
	Occurrences int                `json:"occurrences"`
	WordCount   int                `json:"word_count"`
	Density     float64            `json:"density_percent"`
	FScore      float64            `json:"f_score"` // 0..10
	Fields      map[string]float64 `json:"fields"`
	Score       float64            `json:"score"`
}

// KeywordScore computes P*0.6 + F*0.4, capped at 10. An empty primary keyword scores 0.
func KeywordScore(in KeywordInput) KeywordResult {
	result := KeywordResult{Fields: map[string]float64{}}
	primary := strings.TrimSpace(in.Primary)
	if primary == "" {
		return result
	}

	candidates := append([]model.KeywordVariant{{Text: primary, Type: model.VariantExact}}, in.Variants...)
	fields := []struct {
		name   string
		text   string
		weight float64
	}{
		{"h1", in.H1, weightH1},
		{"meta_title", in.MetaTitle, weightMetaTitle},
		{"url_slug", URLSlug(in.URL), weightURLSlug},
		{"meta_description", in.MetaDescription, weightMetaDescription},
	}
	for _, f := range fields {
		contribution := bestMatch(f.text, candidates) * f.weight
		result.Fields[f.name] = contribution
		result.Placement += contribution
	}
	result.PScore = result.Placement * 5 / maxPlacement

	result.WordCount = len(strings.Fields(in.BodyText))
	result.Occurrences = countPhrase(in.BodyText, primary)
	if result.WordCount > 0 {
		result.Density = float64(result.Occurrences) / float64(result.WordCount) * 100
	}
	result.FScore = densityScore(result.Density)

	result.Score = clamp(result.PScore*0.6+result.FScore*0.4, 0, 10)
	return result
}

// densityScore maps keyword density (percent) to the frequency score
func densityScore(density float64) float64 {
	switch {
	case density >= 0.5 && density <= 1.5:
		return 10
	case density > 1.5:
		return 7
	case density > 0:
		return 5
	default:
		return 0
	}
}

// bestMatch returns the highest match weight of any candidate found in text
func bestMatch(text string, candidates []model.KeywordVariant) float64 {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return 0
	}
	best := 0.0
	for _, c := range candidates {
		phrase := strings.ToLower(strings.TrimSpace(c.Text))
		if phrase == "" || !strings.Contains(text, phrase) {
			continue
		}
		if w := c.Type.MatchWeight(); w > best {
			best = w
		}
	}
	return best
}

func countPhrase(text, phrase string) int {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// URLSlug returns the last path segment of raw with separators turned into spaces
func URLSlug(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	path := raw
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.Host != "") {
		path = u.Path
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	slug := segments[len(segments)-1]
	if i := strings.LastIndex(slug, "."); i > 0 {
		slug = slug[:i]
	}
	return strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(slug)
}
