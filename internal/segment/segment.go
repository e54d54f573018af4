// Package segment splits article text or HTML into ordered sentence records.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/centauri/internal/model"
)

var (
	htmlPattern      = regexp.MustCompile(`(?i)<\s*(p|h[1-6]|li|ul|ol|div|span|td|th|table|img|meta|body|html|article|section|br)\b`)
	numberingPattern = regexp.MustCompile(`(?i)^(\d+|[ivxlcdm]{1,4}|[a-z])[.)]$`)
	headingLine      = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listLine         = regexp.MustCompile(`^(\s*[-*•]\s+|\s*\d+[.)]\s+)`)
	quoteReplacer    = strings.NewReplacer(
		"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'",
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`,
		"\u00a0", " ", "\u200b", "",
	)
)

// block is a run of text that came from one paragraph-level element
type block struct {
	tag  string
	text string
}

// Segmenter turns raw article input into sentences and a page outline
type Segmenter struct{}

// New creates a new segmenter
func New() *Segmenter {
	return &Segmenter{}
}

// Segment splits the article into sentences with ids S1..Sn. HTML input is
// detected automatically; plain text gets html tag "p" (or h1-h6/li for
// markdown-style headings and list items).
func (s *Segmenter) Segment(article string) ([]model.Sentence, model.Outline) {
	article = quoteReplacer.Replace(article)

	var blocks []block
	isHTML := IsHTML(article)
	if isHTML {
		blocks = htmlBlocks(article)
	} else {
		blocks = textBlocks(article)
	}

	outline := model.Outline{IsHTML: isHTML}
	var (
		sentences []model.Sentence
		current   *model.Section
		body      []string
	)

	paragraph := 0
	for _, b := range blocks {
		parts := SplitSentences(b.text)
		kept := parts[:0]
		for _, p := range parts {
			if keepFragment(p) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		paragraph++
		pid := fmt.Sprintf("P%d", paragraph)

		if isHeading(b.tag) {
			heading := strings.Join(kept, " ")
			switch b.tag {
			case "h1":
				if outline.H1 == "" {
					outline.H1 = heading
				}
			case "h2", "h3":
				outline.Headings = append(outline.Headings, heading)
			}
			if b.tag == "h2" || b.tag == "h3" || b.tag == "h4" {
				if current != nil {
					outline.Sections = append(outline.Sections, *current)
				}
				current = &model.Section{
					ID:      fmt.Sprintf("sec-%d", len(outline.Sections)+1),
					Heading: heading,
					Level:   b.tag,
				}
			}
		}

		for _, text := range kept {
			id := fmt.Sprintf("S%d", len(sentences)+1)
			sentences = append(sentences, model.Sentence{
				ID:          id,
				Text:        text,
				ParagraphID: pid,
				HTMLTag:     b.tag,
			})
			if current != nil {
				current.SentenceIDs = append(current.SentenceIDs, id)
			}
			if !isHeading(b.tag) && b.tag != "meta" && b.tag != "img" {
				body = append(body, text)
			}
		}
	}
	if current != nil {
		outline.Sections = append(outline.Sections, *current)
	}

	outline.Paragraphs = paragraph
	outline.BodyText = strings.Join(body, " ")
	outline.WordCount = len(strings.Fields(outline.BodyText))

	return sentences, outline
}

// IsHTML reports whether the input looks like markup rather than plain text
func IsHTML(s string) bool {
	return htmlPattern.MatchString(s)
}

// textBlocks splits plain text on line boundaries, recognising markdown headings and list items
func textBlocks(text string) []block {
	var blocks []block
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := headingLine.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, block{tag: fmt.Sprintf("h%d", len(m[1])), text: m[2]})
			continue
		}
		if loc := listLine.FindStringIndex(line); loc != nil {
			blocks = append(blocks, block{tag: "li", text: line[loc[1]:]})
			continue
		}
		blocks = append(blocks, block{tag: "p", text: line})
	}
	return blocks
}

// SplitSentences splits a block on sentence-ending punctuation followed by whitespace
func SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)

	var (
		out   []string
		start int
	)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Absorb runs like "?!" or "..." and closing quotes/brackets
		j := i + 1
		for j < len(runes) && strings.ContainsRune(".!?\"')]", runes[j]) {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start:j])); sentence != "" {
			out = append(out, sentence)
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
			out = append(out, rest)
		}
	}
	return out
}

// keepFragment drops fragments with fewer than 3 meaningful characters,
// no letters at all, or bare list numbering like "1." or "iv)".
func keepFragment(s string) bool {
	meaningful := 0
	letter := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			meaningful++
		}
		if unicode.IsLetter(r) {
			letter = true
		}
	}
	if meaningful < 3 || !letter {
		return false
	}
	return !numberingPattern.MatchString(strings.TrimSpace(s))
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}
