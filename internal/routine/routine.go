// Package routine models the consultation artifact: the personalized plan
// generated once the profile is confirmed.
package routine

import (
	"encoding/json"
	"fmt"
)

// Step is a single entry in a morning or evening plan.
type Step struct {
	Order              int    `json:"order"`
	StepName           string `json:"step_name"`
	IngredientCategory string `json:"ingredient_category"`
	Why                string `json:"why"`
	UsageTip           string `json:"usage_tip,omitempty"`
	TimeExpectation    string `json:"time_expectation,omitempty"`
}

// Routine is the full artifact returned by the planning delegate call.
type Routine struct {
	NarrativeSummary   string   `json:"narrative_summary"`
	Morning            []Step   `json:"morning,omitempty"`
	Evening            []Step   `json:"evening,omitempty"`
	KeyNotes           []string `json:"key_notes,omitempty"`
	IngredientsToAvoid []string `json:"ingredients_to_avoid,omitempty"`
}

// Decode parses a stored artifact blob. Empty input yields (nil, nil): the
// absence of an artifact is a normal state, not an error.
func Decode(raw []byte) (*Routine, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var r Routine
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode routine: %w", err)
	}
	return &r, nil
}

// Encode serializes the artifact for storage.
func Encode(r *Routine) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode routine: %w", err)
	}
	return data, nil
}
