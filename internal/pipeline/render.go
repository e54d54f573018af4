package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

const banner = "═══════════════════════════════════════════════════════════"

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	Out           io.Writer
	includeFooter bool
}

// NewRenderer creates a renderer that prints summaries to stdout
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{Out: os.Stdout, includeFooter: includeFooter}
}

// RenderJSON writes the indented JSON report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0o644)
}

// Markdown formats a report for humans
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	title := report.Subject
	if title == "" {
		title = "Article"
	}
	fmt.Fprintf(&b, "# Centauri SEO Report: %s\n\n", title)
	fmt.Fprintf(&b, "- Analysis ID: `%s`\n", report.AnalysisID)
	fmt.Fprintf(&b, "- Analyzed: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	if report.PrimaryKeyword != "" {
		fmt.Fprintf(&b, "- Primary keyword: %s\n", report.PrimaryKeyword)
	}
	if len(report.SecondaryKeywords) > 0 {
		fmt.Fprintf(&b, "- Secondary keywords: %s\n", strings.Join(report.SecondaryKeywords, ", "))
	}
	fmt.Fprintf(&b, "- Input integrity: **%s**\n\n", report.InputIntegrity.Status)

	for _, msg := range report.InputIntegrity.Messages {
		fmt.Fprintf(&b, "> %s\n", msg)
	}
	if len(report.InputIntegrity.Messages) > 0 {
		b.WriteString("\n")
	}

	if f := report.FinalScores; f != nil {
		b.WriteString("## Scores\n\n| Metric | Score |\n|---|---|\n")
		rows := []struct {
			name  string
			value float64
		}{
			{"Centauri SEO", f.CentauriSeo},
			{"AI Indexing", f.AiIndexing},
			{"Relevance", f.Relevance},
			{"EEAT", f.Eeat},
			{"Readability", f.Readability},
			{"Retrieval Factuality", f.RetrievalFactuality},
			{"Synthesis Coherence", f.SynthesisCoherence},
			{"Keyword", f.Keyword},
			{"Simplicity", f.Simplicity},
			{"Grammar", f.Grammar},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %.2f |\n", row.name, row.value)
		}
		b.WriteString("\n")
	}

	if a := report.Answer; a != nil {
		b.WriteString("## Answer Position\n\n")
		if a.FirstAnswerIndex < 0 {
			b.WriteString("No direct answer sentence found.\n\n")
		} else {
			fmt.Fprintf(&b, "First answer at %s (%.0f%% into the article), position score %.2f.\n\n",
				a.FirstAnswerSentenceID, a.PositionPercent, a.PositionScore)
		}
	}

	if l1 := report.Level1; l1 != nil && l1.TotalSentences > 0 {
		b.WriteString("## Sentence Types\n\n")
		for _, k := range sortedKeys(l1.InformativeType) {
			fmt.Fprintf(&b, "- %s: %d\n", k, l1.InformativeType[k])
		}
		fmt.Fprintf(&b, "\n%d sentences, %d escalated, average confidence %.2f.\n\n",
			l1.TotalSentences, l1.EscalatedCount, l1.AverageConfidence)
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "### %s (%s %.2f < %.0f)\n\n", rec.Issue, rec.Metric, rec.Score, rec.Threshold)
			fmt.Fprintf(&b, "%s\n\n", rec.WhatToChange)
			fmt.Fprintf(&b, "- Bad: %s\n- Good: %s\n", rec.Examples.Bad, rec.Examples.Good)
			fmt.Fprintf(&b, "- Improves: %s\n\n", strings.Join(rec.Improves, ", "))
		}
	}

	if len(report.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Signals {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Severity, s.Type, s.Description)
		}
		b.WriteString("\n")
	}

	if len(report.SentenceMap) > 0 {
		b.WriteString("## Sentence Map\n\n| ID | Type | Confidence | Source | Text |\n|---|---|---|---|---|\n")
		for _, s := range report.SentenceMap {
			fmt.Fprintf(&b, "| %s | %s | %.2f | %s | %s |\n",
				s.ID, s.InformativeType, s.Confidence, s.Source, strings.ReplaceAll(s.Text, "|", "\\|"))
		}
		b.WriteString("\n")
	}

	if len(report.Diagnostics.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range report.Diagnostics.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n_Generated by Centauri. Scores are deterministic for identical classifier outputs._\n")
	}
	return b.String()
}

// RenderSummary prints the headline scores and recommendations to Out
func (r *Renderer) RenderSummary(report *model.Report) {
	w := r.Out
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "  Centauri SEO Report: %s\n", report.Subject)
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Input integrity: %s\n", report.InputIntegrity.Status)
	for _, msg := range report.InputIntegrity.Messages {
		fmt.Fprintf(w, "  ! %s\n", msg)
	}

	if f := report.FinalScores; f != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Centauri SEO score:  %6.2f / 100\n", f.CentauriSeo)
		fmt.Fprintf(w, "AI indexing score:   %6.2f / 100\n", f.AiIndexing)
		fmt.Fprintf(w, "Relevance:           %6.2f / 40\n", f.Relevance)
		fmt.Fprintf(w, "EEAT:                %6.2f / 30\n", f.Eeat)
		fmt.Fprintf(w, "Readability:         %6.2f%%\n", f.ReadabilityPercent)
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  ✗ %s (%s %.2f)\n", rec.Issue, rec.Metric, rec.Score)
		}
	} else if report.FinalScores != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "✓ No recommendations")
	}
	fmt.Fprintln(w, banner)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
