package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/pipeline"
	"github.com/ppiankov/centauri/internal/recommend"
)

// AnalyzeURLRequest asks the server to fetch and analyze a published article
type AnalyzeURLRequest struct {
	URL               string                 `json:"url"`
	PrimaryKeyword    string                 `json:"primary_keyword,omitempty"`
	SecondaryKeywords []string               `json:"secondary_keywords,omitempty"`
	Competitors       []model.CompetitorPage `json:"competitors,omitempty"`
	Variants          []model.KeywordVariant `json:"variants,omitempty"`
}

// failureResponse carries the integrity block when the article is missing
type failureResponse struct {
	Error          string               `json:"error"`
	InputIntegrity model.InputIntegrity `json:"input_integrity"`
}

// RuleResponse describes one recommendation trigger
type RuleResponse struct {
	Metric    string   `json:"metric"`
	Threshold float64  `json:"threshold"`
	Issue     string   `json:"issue"`
	Improves  []string `json:"improves"`
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var in pipeline.Input
	if err := s.decode(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.analyze(w, r, in)
}

func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeURLRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !pipeline.ValidURL(req.URL) {
		respondError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return
	}

	in, err := s.analyzer.LoadSource(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, pipeline.ErrRobotsDisallowed) {
			respondError(w, http.StatusForbidden, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if req.PrimaryKeyword != "" {
		in.PrimaryKeyword = req.PrimaryKeyword
	}
	if req.SecondaryKeywords != nil {
		in.SecondaryKeywords = req.SecondaryKeywords
	}
	if len(req.Competitors) > 0 {
		in.Competitors = req.Competitors
	}
	if len(req.Variants) > 0 {
		in.Variants = req.Variants
	}
	s.analyze(w, r, in)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := make([]RuleResponse, len(recommend.Rules))
	for i, rule := range recommend.Rules {
		rules[i] = RuleResponse{
			Metric:    rule.Metric,
			Threshold: rule.Threshold,
			Issue:     rule.Issue,
			Improves:  rule.Improves,
		}
	}
	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, in pipeline.Input) {
	report, err := s.analyzer.Analyze(r.Context(), in)
	if err != nil {
		if errors.Is(err, pipeline.ErrArticleMissing) {
			resp := failureResponse{Error: err.Error()}
			if report != nil {
				resp.InputIntegrity = report.InputIntegrity
			}
			respondJSON(w, http.StatusBadRequest, resp)
			return
		}
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.New("invalid request body")
	}
	return nil
}
