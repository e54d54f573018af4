package serp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// MaxSecondaryKeywords caps the generated secondary keyword list
const MaxSecondaryKeywords = 15

var (
	nonWordPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	stopwords      = map[string]bool{
		"the": true, "is": true, "are": true, "a": true, "an": true, "and": true, "or": true,
		"of": true, "to": true, "for": true, "with": true, "in": true, "on": true, "by": true,
		"how": true, "what": true, "when": true, "who": true, "do": true, "does": true,
		"you": true, "your": true, "from": true, "if": true,
	}
)

// SecondaryKeywords derives up to 15 phrases from competitor headings. Candidates are
// 2-4 word n-grams sharing at least one token with the primary keyword, ranked by
// frequency and then by length.
func SecondaryKeywords(primary string, headings []string) []string {
	primaryTokens := make(map[string]bool)
	for _, t := range tokenize(primary) {
		primaryTokens[t] = true
	}
	if len(primaryTokens) == 0 {
		return nil
	}
	exact := strings.Join(tokenize(primary), " ")

	frequency := make(map[string]int)
	var order []string
	for _, h := range headings {
		for _, phrase := range ngrams(tokenize(h), 2, 4) {
			if phrase == exact || !overlaps(phrase, primaryTokens) {
				continue
			}
			if frequency[phrase] == 0 {
				order = append(order, phrase)
			}
			frequency[phrase]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		fi, fj := frequency[order[i]], frequency[order[j]]
		if fi != fj {
			return fi > fj
		}
		return len(strings.Fields(order[i])) > len(strings.Fields(order[j]))
	})
	if len(order) > MaxSecondaryKeywords {
		order = order[:MaxSecondaryKeywords]
	}
	return order
}

func tokenize(text string) []string {
	var out []string
	for _, t := range strings.Fields(nonWordPattern.ReplaceAllString(strings.ToLower(text), "")) {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

func ngrams(tokens []string, shortest, longest int) []string {
	var out []string
	for n := shortest; n <= longest; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func overlaps(phrase string, tokens map[string]bool) bool {
	for _, t := range strings.Fields(phrase) {
		if tokens[t] {
			return true
		}
	}
	return false
}

// CompetitorHeadings flattens competitor heading lists in order
func CompetitorHeadings(pages []model.CompetitorPage) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.Headings...)
	}
	return out
}
