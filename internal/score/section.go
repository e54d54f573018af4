package score

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/ppiankov/centauri/internal/model"
)

// RequiredSources is how many distinct competitors must share a subtopic before it is required
const RequiredSources = 3

// CoverageThreshold is the minimum heading similarity that counts as covering a subtopic
const CoverageThreshold = 0.90

var (
	digitsPattern    = regexp.MustCompile(`\d+`)
	punctPattern     = regexp.MustCompile(`[^\w\s]`)
	stopwordsPattern = regexp.MustCompile(`\b(how|what|why|guide|overview|explained|the|a|an)\b`)
	synonymPattern   = regexp.MustCompile(`\b(pricing|prices|price|fees|fee|costs)\b`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// NormalizeHeading folds a heading to its subtopic key
func NormalizeHeading(h string) string {
	h = strings.ToLower(h)
	h = digitsPattern.ReplaceAllString(h, "")
	h = punctPattern.ReplaceAllString(h, "")
	h = stopwordsPattern.ReplaceAllString(h, "")
	h = synonymPattern.ReplaceAllString(h, "cost")
	h = spacePattern.ReplaceAllString(h, " ")
	return strings.TrimSpace(h)
}

// HeadingSimilarity is 1 - editDistance/maxLen over runes; 0 when either side is empty
func HeadingSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(levenshtein.Distance(a, b, nil))/float64(maxLen)
}

// SectionResult is the heading coverage breakdown behind SectionScore
type SectionResult struct {
	RequiredTotal int      `json:"required_total"`
	Covered       int      `json:"covered"`
	Original      int      `json:"original"`
	Missing       []string `json:"missing,omitempty"`
	Score         float64  `json:"score"`
}

// SectionCoverage compares the article's headings with competitor headings.
// Score = (covered/required) * 10 * (1 + original/required), clamped to 0..10.
func SectionCoverage(own []string, competitors []model.CompetitorPage) SectionResult {
	frequency := make(map[string]map[string]bool)
	for i, c := range competitors {
		source := c.URL
		if source == "" {
			source = fmt.Sprintf("#%d", i)
		}
		for _, h := range c.Headings {
			key := NormalizeHeading(h)
			if key == "" {
				continue
			}
			if frequency[key] == nil {
				frequency[key] = make(map[string]bool)
			}
			frequency[key][source] = true
		}
	}

	var required []string
	for key, sources := range frequency {
		if len(sources) >= RequiredSources {
			required = append(required, key)
		}
	}
	sort.Strings(required)

	seen := make(map[string]bool)
	var normalized []string
	for _, h := range own {
		key := NormalizeHeading(h)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, key)
	}

	result := SectionResult{RequiredTotal: len(required)}
	for _, rs := range required {
		covered := false
		for _, h := range normalized {
			if HeadingSimilarity(h, rs) >= CoverageThreshold {
				covered = true
				break
			}
		}
		if covered {
			result.Covered++
		} else {
			result.Missing = append(result.Missing, rs)
		}
	}
	for _, h := range normalized {
		if _, ok := frequency[h]; !ok {
			result.Original++
		}
	}

	if result.RequiredTotal == 0 {
		return result
	}
	total := float64(result.RequiredTotal)
	result.Score = clamp(float64(result.Covered)/total*10*(1+float64(result.Original)/total), 0, 10)
	return result
}
