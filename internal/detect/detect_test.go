package detect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/centauri/internal/model"
)

func TestInformativeType(t *testing.T) {
	tests := []struct {
		text string
		want model.InformativeType
	}{
		{"What is an AI content checker?", model.InfoQuestion},
		{"In this section we cover pricing.", model.InfoTransition},
		{"We believe this trend will continue.", model.InfoOpinion},
		{"Prices will rise next quarter.", model.InfoPrediction},
		{"Our revenue grew 40% last year.", model.InfoStatistic},
		{"Use short paragraphs for mobile readers.", model.InfoSuggestion},
		{"Content quality matters for rankings.", model.InfoClaim},
	}
	for _, tt := range tests {
		if got := InformativeType(tt.text); got != tt.want {
			t.Errorf("InformativeType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestCitation(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"According to our internal report, retention improved.", true},
		{"As per the 2024 survey, churn fell.", true},
		{"See https://example.com/report for details.", true},
		{"We noticed a drop in bounce rate.", true},
		{"Retention improved.", false},
	}
	for _, tt := range tests {
		if got := Citation(tt.text); got != tt.want {
			t.Errorf("Citation(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGrammar(t *testing.T) {
	if !Grammar("The report is ready.") {
		t.Error("expected capitalised sentence to pass")
	}
	if Grammar("the system generate the report") {
		t.Error("expected lowercase sentence to fail")
	}
	if Grammar("") {
		t.Error("expected empty text to fail")
	}
}

func TestPronoun(t *testing.T) {
	if !Pronoun("It works because we tested it twice.") {
		t.Error("expected pronoun at sentence start to be detected")
	}
	if Pronoun("Thistle grows in Scotland.") {
		t.Error("substring inside a word must not count")
	}
}

func TestStructure(t *testing.T) {
	tests := []struct {
		text string
		want model.Structure
	}{
		{"Hello.", model.StructureFragment},
		{"The setup is simple.", model.StructureSimple},
		{"The setup is simple and the results are good.", model.StructureCompound},
		{"The setup is simple because the wizard helps.", model.StructureComplex},
		{"Although setup is hard, results are good and users stay.", model.StructureCompoundComplex},
		{"The setup is hard because of legacy code, but results are good.", model.StructureCompoundComplex},
	}
	for _, tt := range tests {
		if got := Structure(tt.text); got != tt.want {
			t.Errorf("Structure(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestVoice(t *testing.T) {
	if got := Voice("The report was written by the team."); got != model.VoicePassive {
		t.Errorf("expected Passive, got %s", got)
	}
	if got := Voice("The report was written quickly."); got != model.VoiceActive {
		t.Errorf("expected Active without agent phrase, got %s", got)
	}
}

func TestInfoQuality(t *testing.T) {
	long := strings.Repeat("content ", 25) + "matters."
	tests := []struct {
		text string
		want model.InfoQuality
	}{
		{"Retention rose 22 percent.", model.QualityPartiallyKnown},
		{long, model.QualityDerived},
		{"We found that short intros convert better.", model.QualityUnique},
		{"Water is wet.", model.QualityWellKnown},
	}
	for _, tt := range tests {
		if got := InfoQuality(tt.text); got != tt.want {
			t.Errorf("InfoQuality(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestProvenance(t *testing.T) {
	tests := []struct {
		text string
		want model.Source
	}{
		{"According to our internal report, retention improved.", model.SourceFirstParty},
		{"According to Gartner, spend grew.", model.SourceThirdParty},
		{"As per the vendor, uptime is high.", model.SourceSecondParty},
		{"Our revenue grew 40% last year.", model.SourceUnknown},
	}
	for _, tt := range tests {
		if got := Provenance(tt.text); got != tt.want {
			t.Errorf("Provenance(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestTags_CompleteVector(t *testing.T) {
	inputs := []string{"", "?", "1", "a", strings.Repeat("x", 500)}
	for i, text := range inputs {
		v := Tags(model.Sentence{ID: "S1", Text: text})
		if v.SentenceID != "S1" {
			t.Errorf("input %d: sentence id not carried", i)
		}
		if v.InformativeType == "" || v.FunctionalType == "" || v.Structure == "" ||
			v.Voice == "" || v.InfoQuality == "" || v.ClaritySynthesisType == "" || v.Source == "" {
			t.Errorf("input %d: incomplete vector %+v", i, v)
		}
		if !v.Fallback {
			t.Errorf("input %d: detector vectors must be marked as fallback", i)
		}
	}
}

func TestEntities(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"The platform runs on Google Cloud.", []string{"Google Cloud"}},
		{"New York and Paris lead adoption.", []string{"New York", "Paris"}},
		{"It is fast.", nil},
	}
	for _, tt := range tests {
		if got := Entities(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Entities(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSignals(t *testing.T) {
	s := model.Sentence{ID: "S2", Text: "An AI content checker scores drafts against Google guidelines."}
	sig := Signals(s, "AI content checker")
	if !sig.AnswerSentenceFlag {
		t.Error("expected answer flag for keyword-complete declarative sentence")
	}
	if sig.RelevanceScore != 1 {
		t.Errorf("expected relevance 1, got %v", sig.RelevanceScore)
	}
	if sig.EntityCount != 2 || !sig.EntityConfidenceFlag {
		t.Errorf("expected two confident entities, got %+v", sig)
	}

	q := Signals(model.Sentence{ID: "S3", Text: "What is an AI content checker?"}, "AI content checker")
	if q.AnswerSentenceFlag {
		t.Error("questions are never answers")
	}
	if got := Signals(s, "").RelevanceScore; got != 0 {
		t.Errorf("expected zero relevance without keyword, got %v", got)
	}
}
