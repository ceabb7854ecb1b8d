package v1alpha1

// RequirementLevel classifies how binding a requirement is.
type RequirementLevel string

const (
	RequirementMust   RequirementLevel = "MUST"
	RequirementShould RequirementLevel = "SHOULD"
	RequirementInfo   RequirementLevel = "INFO"
)

// RiskSeverity classifies the impact of a risk.
type RiskSeverity string

const (
	RiskHigh   RiskSeverity = "high"
	RiskMedium RiskSeverity = "medium"
	RiskLow    RiskSeverity = "low"
)

// EvidenceCandidate is a located excerpt of the extracted document text
// substantiating a finding. Immutable once produced.
type EvidenceCandidate struct {
	ID       string `json:"id"`
	Excerpt  string `json:"excerpt"`
	Location string `json:"location,omitempty"`
}

type Requirement struct {
	Level       RequirementLevel `json:"level"`
	Text        string           `json:"text"`
	RefKey      string           `json:"refKey,omitempty"`
	EvidenceIDs []string         `json:"evidenceIds,omitempty"`
}

type Risk struct {
	Severity    RiskSeverity `json:"severity"`
	Title       string       `json:"title"`
	Detail      string       `json:"detail,omitempty"`
	RefKey      string       `json:"refKey,omitempty"`
	EvidenceIDs []string     `json:"evidenceIds,omitempty"`
}

type Clarification struct {
	Question string `json:"question"`
	RefKey   string `json:"refKey,omitempty"`
}

type OutlineSection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
	RefKey  string   `json:"refKey,omitempty"`
}

// Analysis is the normalized set of findings produced for one document.
// The AI boundary converts the model's loosely structured output into this
// shape before anything else touches it.
type Analysis struct {
	Requirements   []Requirement       `json:"requirements"`
	Risks          []Risk              `json:"risks"`
	Clarifications []Clarification     `json:"clarifications"`
	Outline        []OutlineSection    `json:"outline"`
	Evidence       []EvidenceCandidate `json:"evidence,omitempty"`
}

func StringToRequirementLevel(s string) RequirementLevel {
	switch s {
	case string(RequirementMust):
		return RequirementMust
	case string(RequirementShould):
		return RequirementShould
	default:
		return RequirementInfo
	}
}

func StringToRiskSeverity(s string) RiskSeverity {
	switch s {
	case string(RiskHigh):
		return RiskHigh
	case string(RiskMedium):
		return RiskMedium
	default:
		return RiskLow
	}
}
