package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GeneratedExperience is one experience entry as produced by the model.
// Any of the identifying fields may come back empty; the reconciler decides
// whether the list is trustworthy on its own or must be merged against the
// authoritative profile record.
type GeneratedExperience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Details   []string `json:"details"`
}

// SkillCategory is one labeled group of skills. Label formatting and value
// formatting follow different presentation rules, so they stay separate.
type SkillCategory struct {
	Label  string
	Skills []string
}

// SkillList preserves the category order the model emitted. A plain Go map
// would lose JSON key order, and insertion order is the presentation order.
type SkillList []SkillCategory

// UnmarshalJSON decodes a JSON object into categories in document order.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("skills: expected JSON object, got %v", tok)
	}

	out := make(SkillList, 0, 4)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("skills: expected string key, got %v", tok)
		}

		var skills []string
		if err := dec.Decode(&skills); err != nil {
			return fmt.Errorf("skills: category %q: %w", label, err)
		}
		out = append(out, SkillCategory{Label: label, Skills: skills})
	}

	*s = out
	return nil
}

// MarshalJSON encodes the categories back into an object in list order.
func (s SkillList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(cat.Label)
		if err != nil {
			return nil, err
		}
		skills, err := json.Marshal(cat.Skills)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(skills)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResumeContent is the structured contract the model must produce. It is
// parsed once from model output, mutated in place by the reconciler's
// normalization passes, and consumed once by the rendering adapter.
type ResumeContent struct {
	Title      string                `json:"title"`
	Summary    string                `json:"summary"`
	Skills     SkillList             `json:"skills"`
	Experience []GeneratedExperience `json:"experience"`
}
