package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
)

// rawAnalysis mirrors the loosely structured shape the model returns.
type rawAnalysis struct {
	Requirements   []rawRequirement  `json:"requirements"`
	Risks          []rawRisk         `json:"risks"`
	Clarifications []json.RawMessage `json:"clarifications"`
	Outline        []rawSection      `json:"outline"`
}

type rawRequirement struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type rawRisk struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

type rawSection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Normalize validates the model's raw JSON and converts it into the tagged
// variants the rest of the system understands. All schema drift stops here.
func Normalize(data []byte) (*api.Analysis, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding analysis payload: %w", err)
	}

	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding analysis payload: %w", err)
	}

	out := &api.Analysis{
		Requirements:   make([]api.Requirement, 0, len(raw.Requirements)),
		Risks:          make([]api.Risk, 0, len(raw.Risks)),
		Clarifications: make([]api.Clarification, 0, len(raw.Clarifications)),
		Outline:        make([]api.OutlineSection, 0, len(raw.Outline)),
	}

	for _, r := range raw.Requirements {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		out.Requirements = append(out.Requirements, api.Requirement{
			Level: api.StringToRequirementLevel(strings.ToUpper(strings.TrimSpace(r.Level))),
			Text:  text,
		})
	}

	for _, r := range raw.Risks {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out.Risks = append(out.Risks, api.Risk{
			Severity: api.StringToRiskSeverity(strings.ToLower(strings.TrimSpace(r.Severity))),
			Title:    title,
			Detail:   strings.TrimSpace(r.Detail),
		})
	}

	for _, c := range raw.Clarifications {
		question := decodeClarification(c)
		if question == "" {
			continue
		}
		out.Clarifications = append(out.Clarifications, api.Clarification{Question: question})
	}

	for _, s := range raw.Outline {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		bullets := make([]string, 0, len(s.Bullets))
		for _, b := range s.Bullets {
			if b = strings.TrimSpace(b); b != "" {
				bullets = append(bullets, b)
			}
		}
		out.Outline = append(out.Outline, api.OutlineSection{Title: title, Bullets: bullets})
	}

	return out, nil
}

// decodeClarification accepts both the bare-string and the object form the
// model alternates between.
func decodeClarification(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Question)
	}
	return ""
}
