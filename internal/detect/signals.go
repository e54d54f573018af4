package detect

import (
	"strings"
	"unicode"

	"github.com/ppiankov/centauri/internal/model"
)

// entityStopwords are capitalised words that rarely name an entity
var entityStopwords = map[string]bool{
	"I": true, "The": true, "A": true, "An": true, "This": true, "That": true,
	"It": true, "We": true, "You": true, "They": true, "Our": true, "In": true,
}

// Entities returns capitalised word runs that look like named entities.
// The first word of the sentence is skipped unless it is part of a longer run.
func Entities(text string) []string {
	words := strings.Fields(text)
	var (
		out  []string
		run  []string
		seen = make(map[string]bool)
	)

	flush := func() {
		if len(run) == 0 {
			return
		}
		name := strings.Join(run, " ")
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		run = nil
	}

	for i, w := range words {
		clean := strings.TrimFunc(w, func(r rune) bool { return unicode.IsPunct(r) })
		if clean == "" || !startsUpper(clean) || entityStopwords[clean] {
			flush()
			continue
		}
		if i == 0 && (len(words) == 1 || !startsUpper(strings.TrimFunc(words[1], unicode.IsPunct))) {
			continue
		}
		run = append(run, clean)
		if strings.ContainsAny(w, ",.;:!?") {
			flush()
		}
	}
	flush()
	return out
}

// KeywordTokens lowercases and splits a keyword into alphanumeric tokens
func KeywordTokens(keyword string) []string {
	return strings.FieldsFunc(strings.ToLower(keyword), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Relevance is the fraction of keyword tokens present in the sentence (0..1)
func Relevance(text, keyword string) float64 {
	tokens := KeywordTokens(keyword)
	if len(tokens) == 0 {
		return 0
	}
	words := make(map[string]bool)
	for _, w := range KeywordTokens(text) {
		words[w] = true
	}
	hit := 0
	for _, t := range tokens {
		if words[t] {
			hit++
		}
	}
	return float64(hit) / float64(len(tokens))
}

// IsAnswer reports whether the sentence reads as a direct answer for the keyword:
// declarative, reasonably short and mentioning every keyword token.
func IsAnswer(text, keyword string) bool {
	if keyword == "" || strings.HasSuffix(strings.TrimSpace(text), "?") {
		return false
	}
	n := WordCount(text)
	if n < 4 || n > 40 {
		return false
	}
	return Relevance(text, keyword) == 1
}

// Signals derives the AI-indexing signals for one sentence
func Signals(s model.Sentence, keyword string) model.SentenceSignals {
	entities := Entities(s.Text)
	return model.SentenceSignals{
		SentenceID:           s.ID,
		AnswerSentenceFlag:   IsAnswer(s.Text, keyword),
		EntityCount:          len(entities),
		Entities:             entities,
		EntityConfidenceFlag: len(entities) > 0 && !Pronoun(s.Text),
		RelevanceScore:       Relevance(s.Text, keyword),
	}
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
