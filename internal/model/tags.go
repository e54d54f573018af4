package model

import "strings"

// InformativeType classifies what kind of information a sentence carries
type InformativeType string

const (
	InfoFact        InformativeType = "Fact"
	InfoClaim       InformativeType = "Claim"
	InfoDefinition  InformativeType = "Definition"
	InfoOpinion     InformativeType = "Opinion"
	InfoPrediction  InformativeType = "Prediction"
	InfoStatistic   InformativeType = "Statistic"
	InfoObservation InformativeType = "Observation"
	InfoSuggestion  InformativeType = "Suggestion"
	InfoQuestion    InformativeType = "Question"
	InfoTransition  InformativeType = "Transition"
	InfoFiller      InformativeType = "Filler"
	InfoUncertain   InformativeType = "Uncertain"
)

// FunctionalType is the grammatical mood of a sentence
type FunctionalType string

const (
	FunctionalDeclarative   FunctionalType = "Declarative"
	FunctionalInterrogative FunctionalType = "Interrogative"
	FunctionalImperative    FunctionalType = "Imperative"
	FunctionalExclamatory   FunctionalType = "Exclamatory"
)

// Structure is the clause structure of a sentence
type Structure string

const (
	StructureSimple          Structure = "Simple"
	StructureCompound        Structure = "Compound"
	StructureComplex         Structure = "Complex"
	StructureCompoundComplex Structure = "CompoundComplex"
	StructureFragment        Structure = "Fragment"
)

// Voice is the grammatical voice of a sentence
type Voice string

const (
	VoiceActive  Voice = "Active"
	VoicePassive Voice = "Passive"
	VoiceBoth    Voice = "Both"
)

// InfoQuality describes how novel the information in a sentence is.
// There is deliberately no unknown member.
type InfoQuality string

const (
	QualityWellKnown      InfoQuality = "WellKnown"
	QualityPartiallyKnown InfoQuality = "PartiallyKnown"
	QualityDerived        InfoQuality = "Derived"
	QualityUnique         InfoQuality = "Unique"
	QualityFalse          InfoQuality = "False"
)

// ClaritySynthesisType describes how easily a sentence can be lifted into an AI answer
type ClaritySynthesisType string

const (
	ClarityFocused            ClaritySynthesisType = "Focused"
	ClarityModerateComplexity ClaritySynthesisType = "ModerateComplexity"
	ClarityLowClarity         ClaritySynthesisType = "LowClarity"
	ClarityUnIndexable        ClaritySynthesisType = "UnIndexable"
)

// Source is the provenance of the information in a sentence
type Source string

const (
	SourceUnknown     Source = "Unknown"
	SourceFirstParty  Source = "FirstParty"
	SourceSecondParty Source = "SecondParty"
	SourceThirdParty  Source = "ThirdParty"
)

var (
	informativeTypes = []InformativeType{
		InfoFact, InfoClaim, InfoDefinition, InfoOpinion, InfoPrediction, InfoStatistic,
		InfoObservation, InfoSuggestion, InfoQuestion, InfoTransition, InfoFiller, InfoUncertain,
	}
	functionalTypes = []FunctionalType{
		FunctionalDeclarative, FunctionalInterrogative, FunctionalImperative, FunctionalExclamatory,
	}
	structures = []Structure{
		StructureSimple, StructureCompound, StructureComplex, StructureCompoundComplex, StructureFragment,
	}
	voices        = []Voice{VoiceActive, VoicePassive, VoiceBoth}
	infoQualities = []InfoQuality{
		QualityWellKnown, QualityPartiallyKnown, QualityDerived, QualityUnique, QualityFalse,
	}
	clarityTypes = []ClaritySynthesisType{
		ClarityFocused, ClarityModerateComplexity, ClarityLowClarity, ClarityUnIndexable,
	}
	sources = []Source{SourceUnknown, SourceFirstParty, SourceSecondParty, SourceThirdParty}
)

// enumKey folds case and separators so "compound-complex", "COMPOUND_COMPLEX"
// and "CompoundComplex" compare equal.
func enumKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lookup[T ~string](raw string, allowed []T, def T) T {
	key := enumKey(raw)
	if key == "" {
		return def
	}
	for _, v := range allowed {
		if enumKey(string(v)) == key {
			return v
		}
	}
	return def
}

// ParseInformativeType maps raw classifier output onto the closed vocabulary (default Uncertain)
func ParseInformativeType(s string) InformativeType {
	return lookup(s, informativeTypes, InfoUncertain)
}

// ParseFunctionalType maps raw classifier output onto the closed vocabulary (default Declarative)
func ParseFunctionalType(s string) FunctionalType {
	return lookup(s, functionalTypes, FunctionalDeclarative)
}

// ParseStructure maps raw classifier output onto the closed vocabulary (default Simple)
func ParseStructure(s string) Structure {
	return lookup(s, structures, StructureSimple)
}

// ParseVoice maps raw classifier output onto the closed vocabulary (default Active)
func ParseVoice(s string) Voice {
	return lookup(s, voices, VoiceActive)
}

// ParseInfoQuality maps raw classifier output onto one of the five qualities.
// Anything unrecognised, including "Uncertain", becomes WellKnown.
func ParseInfoQuality(s string) InfoQuality {
	return lookup(s, infoQualities, QualityWellKnown)
}

// ParseClaritySynthesisType maps raw classifier output onto the closed vocabulary (default UnIndexable)
func ParseClaritySynthesisType(s string) ClaritySynthesisType {
	return lookup(s, clarityTypes, ClarityUnIndexable)
}

// ParseSource maps raw classifier output onto the provenance vocabulary (default Unknown)
func ParseSource(s string) Source {
	return lookup(s, sources, SourceUnknown)
}

// IsValidInformativeType reports whether s names a member of the vocabulary
func IsValidInformativeType(s string) bool {
	key := enumKey(s)
	for _, v := range informativeTypes {
		if enumKey(string(v)) == key {
			return true
		}
	}
	return false
}

// InformativeTypes returns the closed vocabulary in declaration order
func InformativeTypes() []InformativeType {
	out := make([]InformativeType, len(informativeTypes))
	copy(out, informativeTypes)
	return out
}
