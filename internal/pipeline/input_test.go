package pipeline

import (
	"reflect"
	"testing"

	"github.com/ppiankov/centauri/internal/model"
)

func TestCheckIntegrity(t *testing.T) {
	full := Input{
		Article:           "Body text.",
		PrimaryKeyword:    "ai content checker",
		SecondaryKeywords: []string{"content checker"},
		MetaTitle:         "AI Content Checker",
		MetaDescription:   "Check drafts.",
		URL:               "https://example.com/ai-content-checker",
	}

	tests := []struct {
		name        string
		mutate      func(in *Input)
		wantStatus  string
		wantMissing []string
		wantInvalid []string
		wantSkipped []string
		wantDefault []string
	}{
		{
			name:        "complete input",
			mutate:      func(*Input) {},
			wantStatus:  model.IntegritySuccess,
			wantMissing: []string{},
			wantInvalid: []string{},
			wantSkipped: []string{},
			wantDefault: []string{},
		},
		{
			name:        "missing article is fatal",
			mutate:      func(in *Input) { in.Article = " \n\t" },
			wantStatus:  model.IntegrityFailed,
			wantMissing: []string{FieldArticle},
			wantInvalid: []string{},
			wantSkipped: []string{},
			wantDefault: []string{},
		},
		{
			name:        "no keyword",
			mutate:      func(in *Input) { in.PrimaryKeyword = "" },
			wantStatus:  model.IntegrityPartial,
			wantMissing: []string{FieldPrimaryKeyword},
			wantInvalid: []string{},
			wantSkipped: []string{CheckKeywordPresence, CheckIntentAlignment, CheckSectionCoverage},
			wantDefault: []string{},
		},
		{
			name:        "secondary keywords not sent",
			mutate:      func(in *Input) { in.SecondaryKeywords = nil },
			wantStatus:  model.IntegritySuccess,
			wantMissing: []string{},
			wantInvalid: []string{},
			wantSkipped: []string{},
			wantDefault: []string{DefaultSecondaryEmpty},
		},
		{
			name:        "meta fields missing",
			mutate:      func(in *Input) { in.MetaTitle, in.MetaDescription = "", "" },
			wantStatus:  model.IntegrityPartial,
			wantMissing: []string{FieldMetaTitle, FieldMetaDescription},
			wantInvalid: []string{},
			wantSkipped: []string{CheckMetaTitleKeyword, CheckMetaDescriptionKeyword},
			wantDefault: []string{},
		},
		{
			name:        "relative url",
			mutate:      func(in *Input) { in.URL = "/blog/post" },
			wantStatus:  model.IntegrityPartial,
			wantMissing: []string{FieldURL},
			wantInvalid: []string{FieldURL},
			wantSkipped: []string{CheckURLSlugKeyword},
			wantDefault: []string{},
		},
		{
			name:        "no url",
			mutate:      func(in *Input) { in.URL = "" },
			wantStatus:  model.IntegrityPartial,
			wantMissing: []string{FieldURL},
			wantInvalid: []string{},
			wantSkipped: []string{CheckURLSlugKeyword},
			wantDefault: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := full
			tt.mutate(&in)
			got := CheckIntegrity(in)

			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if !reflect.DeepEqual(got.MissingInputs, tt.wantMissing) {
				t.Errorf("missing = %v, want %v", got.MissingInputs, tt.wantMissing)
			}
			if !reflect.DeepEqual(got.InvalidInputs, tt.wantInvalid) {
				t.Errorf("invalid = %v, want %v", got.InvalidInputs, tt.wantInvalid)
			}
			if !reflect.DeepEqual(got.SkippedChecks, tt.wantSkipped) {
				t.Errorf("skipped = %v, want %v", got.SkippedChecks, tt.wantSkipped)
			}
			if !reflect.DeepEqual(got.DefaultsApplied, tt.wantDefault) {
				t.Errorf("defaults = %v, want %v", got.DefaultsApplied, tt.wantDefault)
			}
		})
	}
}

func TestCheckIntegrity_Received(t *testing.T) {
	got := CheckIntegrity(Input{Article: "Body.", URL: "ftp://example.com/file"})
	want := map[string]bool{
		FieldArticle:           true,
		FieldPrimaryKeyword:    false,
		FieldSecondaryKeywords: false,
		FieldMetaTitle:         false,
		FieldMetaDescription:   false,
		FieldURL:               true,
	}
	if !reflect.DeepEqual(got.Received, want) {
		t.Errorf("received = %v, want %v", got.Received, want)
	}
	if len(got.Messages) != 2 {
		t.Errorf("expected keyword and url messages, got %v", got.Messages)
	}
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{" http://example.com ", true},
		{"example.com/a", false},
		{"mailto:a@example.com", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidURL(tt.in); got != tt.want {
			t.Errorf("ValidURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
