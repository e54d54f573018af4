package classify

import (
	"context"
	"strings"

	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/model"
)

var (
	lexPrediction  = []string{"will ", "may ", "is expected to", "are expected to", "going to", "forecast", "by 2030", "next year"}
	lexDefinition  = []string{" is defined as ", " refers to ", " means ", " is a term for "}
	lexObservation = []string{"we observed", "we noticed", "we found", "we saw", "in our tests", "in our experience"}
	lexOpinion     = []string{"we believe", "i think", "i believe", "we think", "in my opinion", "in our opinion", "arguably", "the best "}
	lexSuggestion  = []string{"you should", "we recommend", "consider ", "try ", "make sure", "avoid ", "use ", "enable ", "add ", "start "}
	lexTransition  = []string{"in this section", "now that", "in this article", "let's look at", "to summarize", "next,", "finally,", "in conclusion"}
	lexFiller      = []string{"basically", "as you can see", "needless to say", "it goes without saying", "at the end of the day", "in today's world"}
	lexFactVerbs   = []string{" is ", " are ", " was ", " were ", " has ", " have "}
)

// LexiconAdapter is an offline second source. It reads the same vocabulary as
// the detectors through a wider lexicon and a different precedence: future
// markers are checked before belief markers.
type LexiconAdapter struct{}

func (LexiconAdapter) Name() string { return "lexicon" }

func (LexiconAdapter) TagSentences(_ context.Context, sentences []model.Sentence) []model.TagVector {
	out := make([]model.TagVector, len(sentences))
	for i, s := range sentences {
		v := detect.Tags(s)
		v.InformativeType = LexiconType(s.Text)
		v.Fallback = false
		out[i] = v
	}
	return out
}

// LexiconType classifies the informational role of a sentence using the wider lexicon
func LexiconType(text string) model.InformativeType {
	t := strings.TrimSpace(text)
	lower := " " + strings.ToLower(t)
	start := strings.TrimSpace(lower)

	switch {
	case t == "":
		return model.InfoUncertain
	case strings.HasSuffix(t, "?"):
		return model.InfoQuestion
	case startsWithAny(start, lexTransition):
		return model.InfoTransition
	case startsWithAny(start, lexFiller) || detect.WordCount(t) < 3:
		return model.InfoFiller
	case containsAny(lower, lexPrediction):
		return model.InfoPrediction
	case detect.HasDigit(t):
		return model.InfoStatistic
	case containsAny(lower, lexDefinition):
		return model.InfoDefinition
	case containsAny(lower, lexObservation):
		return model.InfoObservation
	case containsAny(lower, lexOpinion):
		return model.InfoOpinion
	case startsWithAny(start, lexSuggestion) || strings.Contains(lower, "you should"):
		return model.InfoSuggestion
	case detect.Citation(t):
		return model.InfoFact
	case containsAny(lower, lexFactVerbs):
		return model.InfoClaim
	default:
		return model.InfoUncertain
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
