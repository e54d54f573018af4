package classify

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

// FallbackConfidence is assigned to decisions synthesized when escalation fails
const FallbackConfidence = 0.9

const escalationSystem = `You arbitrate between two sentence classifiers that disagree.
For each sentence you receive its text and both candidate tags. Decide the correct
informative_type, and when the candidates disagree on them, the functional_type and voice.
Return ONLY a JSON array with one object per sentence:
{"sentence_id": "...", "final_informative_type": "...", "functional_type": "...", "voice": "...",
"confidence": 0.0-1.0, "reason": "short explanation"}
` + vocabulary

// Escalator is the tie-breaking classifier (Source C)
type Escalator struct {
	Provider   llm.Provider
	Cache      cache.ResponseStore
	Limiter    *worker.Limiter
	MaxRetries int
	Log        io.Writer
}

type escalationItem struct {
	SentenceID string          `json:"sentence_id"`
	Text       string          `json:"text"`
	TagA       model.TagVector `json:"tag_a"`
	TagB       model.TagVector `json:"tag_b"`
}

type rawDecision struct {
	SentenceID      string    `json:"sentence_id"`
	ID              string    `json:"id"`
	Final           string    `json:"final_informative_type"`
	InformativeType string    `json:"informative_type"`
	FunctionalType  string    `json:"functional_type"`
	Voice           string    `json:"voice"`
	Confidence      flexFloat `json:"confidence"`
	Reason          string    `json:"reason"`
}

// Arbitrate asks the escalation classifier about the mismatched sentences.
// It returns nil without a provider. With a provider, every mismatched sentence
// gets exactly one decision; unusable replies become fallback decisions.
func (e *Escalator) Arbitrate(ctx context.Context, mismatched []model.Sentence, a, b map[string]model.TagVector) []model.Decision {
	if e == nil || e.Provider == nil || len(mismatched) == 0 {
		return nil
	}

	ids := make([]string, len(mismatched))
	items := make([]escalationItem, len(mismatched))
	for i, s := range mismatched {
		ids[i] = s.ID
		items[i] = escalationItem{SentenceID: s.ID, Text: s.Text, TagA: a[s.ID], TagB: b[s.ID]}
	}
	statsFrom(ctx).escalate(ids...)

	payload, err := json.Marshal(items)
	if err != nil {
		return fallbackDecisions(mismatched, b, "fallback: "+err.Error())
	}

	attempts := e.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		var decisions []model.Decision
		_, lastErr = complete(ctx, completion{
			provider: e.Provider,
			cache:    e.Cache,
			limiter:  e.Limiter,
			request: llm.Request{
				System:      escalationSystem,
				Prompt:      "Arbitrate these sentences:\n" + string(payload),
				Purpose:     "escalation",
				Temperature: 0,
			},
			accept: func(content string) error {
				var err error
				decisions, err = parseDecisions(content)
				return err
			},
		})
		if lastErr == nil {
			return completeDecisions(mismatched, b, decisions)
		}
		logf(e.Log, "escalation attempt %d/%d failed: %v", attempt, attempts, lastErr)
	}

	statsFrom(ctx).warn("escalation fell back to secondary tags: %v", lastErr)
	return fallbackDecisions(mismatched, b, "fallback")
}

// parseDecisions decodes and allow-lists an escalation reply
func parseDecisions(content string) ([]model.Decision, error) {
	var raws []rawDecision
	if err := decodeArray(content, &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("no decisions in response")
	}

	out := make([]model.Decision, 0, len(raws))
	for _, r := range raws {
		id := strings.TrimSpace(r.SentenceID)
		if id == "" {
			id = strings.TrimSpace(r.ID)
		}
		final := r.Final
		if final == "" {
			final = r.InformativeType
		}
		if id == "" || !model.IsValidInformativeType(final) {
			continue
		}
		d := model.Decision{
			SentenceID:      id,
			InformativeType: model.ParseInformativeType(final),
			Confidence:      clamp01(float64(r.Confidence)),
			Reason:          r.Reason,
		}
		if r.FunctionalType != "" {
			d.FunctionalType = model.ParseFunctionalType(r.FunctionalType)
		}
		if r.Voice != "" {
			d.Voice = model.ParseVoice(r.Voice)
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid decisions in response")
	}
	return out, nil
}

// completeDecisions keeps one decision per mismatched sentence, in input order.
// Unknown ids are dropped and missing ones get a fallback decision.
func completeDecisions(mismatched []model.Sentence, b map[string]model.TagVector, decisions []model.Decision) []model.Decision {
	byID := make(map[string]model.Decision, len(decisions))
	for _, d := range decisions {
		if _, seen := byID[d.SentenceID]; !seen {
			byID[d.SentenceID] = d
		}
	}

	out := make([]model.Decision, len(mismatched))
	for i, s := range mismatched {
		if d, ok := byID[s.ID]; ok {
			out[i] = d
			continue
		}
		out[i] = fallbackDecision(s.ID, b, "fallback")
	}
	return out
}

func fallbackDecisions(mismatched []model.Sentence, b map[string]model.TagVector, reason string) []model.Decision {
	out := make([]model.Decision, len(mismatched))
	for i, s := range mismatched {
		out[i] = fallbackDecision(s.ID, b, reason)
	}
	return out
}

func fallbackDecision(id string, b map[string]model.TagVector, reason string) model.Decision {
	tag, ok := b[id]
	if !ok {
		tag.InformativeType = model.InfoUncertain
	}
	return model.Decision{
		SentenceID:      id,
		InformativeType: tag.InformativeType,
		FunctionalType:  tag.FunctionalType,
		Voice:           tag.Voice,
		Confidence:      FallbackConfidence,
		Reason:          reason,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
