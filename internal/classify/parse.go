package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/centauri/internal/detect"
	"github.com/ppiankov/centauri/internal/model"
)

// flexBool accepts true/false, "true"/"yes"/"1" and numbers
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*b = flexBool(x)
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		*b = flexBool(s == "true" || s == "yes" || s == "1")
	case float64:
		*b = flexBool(x != 0)
	default:
		*b = false
	}
	return nil
}

// flexFloat accepts numbers and numeric strings
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*f = flexFloat(x)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(strings.TrimSpace(x), "%g", &parsed); err == nil {
			*f = flexFloat(parsed)
		}
	}
	return nil
}

// rawTag is the permissive shape of one classifier tag object. Enum fields stay
// strings until they pass the allow-list parsers.
type rawTag struct {
	SentenceID             string    `json:"sentence_id"`
	ID                     string    `json:"id"`
	InformativeType        string    `json:"informative_type"`
	FunctionalType         string    `json:"functional_type"`
	Structure              string    `json:"structure"`
	Voice                  string    `json:"voice"`
	InfoQuality            string    `json:"info_quality"`
	ClaritySynthesisType   string    `json:"clarity_synthesis_type"`
	ClaimsCitation         *flexBool `json:"claims_citation"`
	IsGrammaticallyCorrect *flexBool `json:"is_grammatically_correct"`
	HasPronoun             *flexBool `json:"has_pronoun"`
	IsPlagiarized          *flexBool `json:"is_plagiarized"`
	Source                 string    `json:"source"`
}

// decodeArray decodes a JSON array, or the first array-valued field of a wrapping object
func decodeArray(content string, out any) error {
	data := bytes.TrimSpace([]byte(content))
	if len(data) == 0 {
		return fmt.Errorf("empty response")
	}
	if data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return fmt.Errorf("decode wrapper: %w", err)
		}
		found := false
		for _, v := range wrapper {
			if trimmed := bytes.TrimSpace(v); len(trimmed) > 0 && trimmed[0] == '[' {
				data, found = trimmed, true
				break
			}
		}
		if !found {
			return fmt.Errorf("no array in response object")
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode array: %w", err)
	}
	return nil
}

// parseTags decodes a classifier reply positionally aligned to sentences.
// Any decode failure or count mismatch fails the whole batch.
func parseTags(content string, sentences []model.Sentence) ([]model.TagVector, error) {
	var raws []rawTag
	if err := decodeArray(content, &raws); err != nil {
		return nil, err
	}
	if len(raws) != len(sentences) {
		return nil, fmt.Errorf("expected %d tags, got %d", len(sentences), len(raws))
	}

	out := make([]model.TagVector, len(sentences))
	for i, r := range raws {
		out[i] = r.toVector(sentences[i])
	}
	return out, nil
}

// toVector maps every field through its allow-list; the sentence id always comes from the input
func (r rawTag) toVector(s model.Sentence) model.TagVector {
	v := model.TagVector{
		SentenceID:             s.ID,
		InformativeType:        model.ParseInformativeType(r.InformativeType),
		FunctionalType:         model.ParseFunctionalType(r.FunctionalType),
		Structure:              model.ParseStructure(r.Structure),
		Voice:                  model.ParseVoice(r.Voice),
		InfoQuality:            model.ParseInfoQuality(r.InfoQuality),
		ClaritySynthesisType:   model.ParseClaritySynthesisType(r.ClaritySynthesisType),
		ClaimsCitation:         boolOr(r.ClaimsCitation, false),
		IsGrammaticallyCorrect: boolOr(r.IsGrammaticallyCorrect, true),
		HasPronoun:             boolOr(r.HasPronoun, false),
		IsPlagiarized:          boolOr(r.IsPlagiarized, false),
		Source:                 model.ParseSource(r.Source),
	}
	if strings.TrimSpace(r.Source) == "" {
		v.Source = detect.Provenance(s.Text)
	}
	return v
}

func boolOr(b *flexBool, def bool) bool {
	if b == nil {
		return def
	}
	return bool(*b)
}
