package pipeline

import (
	"errors"
	"net/url"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// ErrArticleMissing is the only fatal input failure: the article body is empty
var ErrArticleMissing = errors.New("article is missing or empty")

// Input is one analysis request. SecondaryKeywords is nil when the caller did not send it.
type Input struct {
	Article           string                 `json:"article"`
	PrimaryKeyword    string                 `json:"primary_keyword,omitempty"`
	SecondaryKeywords []string               `json:"secondary_keywords,omitempty"`
	MetaTitle         string                 `json:"meta_title,omitempty"`
	MetaDescription   string                 `json:"meta_description,omitempty"`
	URL               string                 `json:"url,omitempty"`
	Competitors       []model.CompetitorPage `json:"competitors,omitempty"`
	Variants          []model.KeywordVariant `json:"variants,omitempty"`
}

// Input field names used in the integrity report
const (
	FieldArticle           = "article"
	FieldPrimaryKeyword    = "primary_keyword"
	FieldSecondaryKeywords = "secondary_keywords"
	FieldMetaTitle         = "meta_title"
	FieldMetaDescription   = "meta_description"
	FieldURL               = "url"
)

// Checks skipped when the input they depend on is missing
const (
	CheckKeywordPresence        = "keyword_presence"
	CheckIntentAlignment        = "intent_alignment"
	CheckSectionCoverage        = "section_coverage"
	CheckMetaTitleKeyword       = "meta_title_keyword_checks"
	CheckMetaDescriptionKeyword = "meta_description_keyword_checks"
	CheckURLSlugKeyword         = "url_slug_keyword_checks"
)

// Defaults recorded in the integrity report
const (
	DefaultSecondaryEmpty     = "secondary_keywords_defaulted_to_empty"
	DefaultSecondaryGenerated = "secondary_keywords_generated_from_competitors"
)

// CheckIntegrity reports which inputs are present and valid and which checks they disable.
// It never fails; a missing article sets status "failed".
func CheckIntegrity(in Input) model.InputIntegrity {
	ii := model.InputIntegrity{
		Received:        map[string]bool{},
		MissingInputs:   []string{},
		InvalidInputs:   []string{},
		DefaultsApplied: []string{},
		SkippedChecks:   []string{},
	}

	present := func(field, value string) bool {
		ok := strings.TrimSpace(value) != ""
		ii.Received[field] = ok
		if !ok {
			ii.MissingInputs = append(ii.MissingInputs, field)
		}
		return ok
	}

	if !present(FieldArticle, in.Article) {
		ii.Status = model.IntegrityFailed
		ii.Messages = append(ii.Messages, "Article body is required; no scores were computed.")
		return ii
	}

	if !present(FieldPrimaryKeyword, in.PrimaryKeyword) {
		ii.SkippedChecks = append(ii.SkippedChecks, CheckKeywordPresence, CheckIntentAlignment, CheckSectionCoverage)
		ii.Messages = append(ii.Messages, "No primary keyword: keyword, intent and section scores default to 0.")
	}

	ii.Received[FieldSecondaryKeywords] = in.SecondaryKeywords != nil
	if in.SecondaryKeywords == nil {
		ii.DefaultsApplied = append(ii.DefaultsApplied, DefaultSecondaryEmpty)
	}

	if !present(FieldMetaTitle, in.MetaTitle) {
		ii.SkippedChecks = append(ii.SkippedChecks, CheckMetaTitleKeyword)
	}
	if !present(FieldMetaDescription, in.MetaDescription) {
		ii.SkippedChecks = append(ii.SkippedChecks, CheckMetaDescriptionKeyword)
	}

	rawURL := strings.TrimSpace(in.URL)
	switch {
	case rawURL == "":
		ii.Received[FieldURL] = false
		ii.MissingInputs = append(ii.MissingInputs, FieldURL)
		ii.SkippedChecks = append(ii.SkippedChecks, CheckURLSlugKeyword)
	case !ValidURL(rawURL):
		ii.Received[FieldURL] = true
		ii.InvalidInputs = append(ii.InvalidInputs, FieldURL)
		ii.MissingInputs = append(ii.MissingInputs, FieldURL)
		ii.SkippedChecks = append(ii.SkippedChecks, CheckURLSlugKeyword)
		ii.Messages = append(ii.Messages, "URL is not an absolute http(s) URL and was ignored.")
	default:
		ii.Received[FieldURL] = true
	}

	ii.Status = model.IntegritySuccess
	if len(ii.MissingInputs) > 0 || len(ii.SkippedChecks) > 0 {
		ii.Status = model.IntegrityPartial
	}
	return ii
}

// ValidURL reports whether raw is an absolute http(s) URL with a host
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
