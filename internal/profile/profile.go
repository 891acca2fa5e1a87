package profile

import (
	"encoding/json"
	"fmt"
)

type SkinType string

const (
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinNormal      SkinType = "normal"
	SkinSensitive   SkinType = "sensitive"
)

type SunExposure string

const (
	SunMinimal  SunExposure = "minimal"
	SunModerate SunExposure = "moderate"
	SunHigh     SunExposure = "high"
)

type BudgetRange string

const (
	BudgetLow  BudgetRange = "budget"
	BudgetMid  BudgetRange = "mid_range"
	BudgetHigh BudgetRange = "high_end"
)

type KnowledgeLevel string

const (
	KnowledgeBeginner     KnowledgeLevel = "beginner"
	KnowledgeIntermediate KnowledgeLevel = "intermediate"
	KnowledgeAdvanced     KnowledgeLevel = "advanced"
)

// Health holds the safety-critical sub-record. Nil booleans mean "not yet asked".
type Health struct {
	IsPregnant        *bool    `json:"is_pregnant,omitempty"`
	IsNursing         *bool    `json:"is_nursing,omitempty"`
	PlanningPregnancy *bool    `json:"planning_pregnancy,omitempty"`
	Medications       []string `json:"medications,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
	Sensitivities     []string `json:"sensitivities,omitempty"`
}

// Profile is the canonical collected record for one identity. It is owned by
// the orchestrator and mutated only through Merge.
type Profile struct {
	SkinType              SkinType       `json:"skin_type,omitempty"`
	Concerns              []string       `json:"concerns,omitempty"`
	Health                Health         `json:"health"`
	SunExposure           SunExposure    `json:"sun_exposure,omitempty"`
	Budget                BudgetRange    `json:"budget,omitempty"`
	Preferences           []string       `json:"preferences,omitempty"`
	CurrentRoutineMorning string         `json:"current_routine_morning,omitempty"`
	CurrentRoutineEvening string         `json:"current_routine_evening,omitempty"`
	KnowledgeLevel        KnowledgeLevel `json:"knowledge_level,omitempty"`
	Notes                 string         `json:"notes,omitempty"`
	ImageAnalysis         string         `json:"image_analysis,omitempty"`

	AgeVerified          bool   `json:"age_verified"`
	Language             string `json:"language"`
	HealthScreened       bool   `json:"health_screened"`
	TurnsSinceSufficient int    `json:"turns_since_sufficient"`
}

// New returns an empty profile defaulting to English.
func New() Profile {
	return Profile{Language: "english"}
}

// Reset clears everything except the detected language.
func (p Profile) Reset() Profile {
	out := New()
	if p.Language != "" {
		out.Language = p.Language
	}
	return out
}

// Sufficient reports whether all required intake categories are filled. It is
// deliberately pure so the generative delegate can never end the interview on
// its own judgment.
func Sufficient(p Profile) bool {
	healthChecked := p.Health.IsPregnant != nil ||
		p.Health.IsNursing != nil ||
		p.Health.PlanningPregnancy != nil
	hasRoutine := p.CurrentRoutineMorning != "" || p.CurrentRoutineEvening != ""
	return p.AgeVerified &&
		p.SkinType != "" &&
		len(p.Concerns) > 0 &&
		healthChecked &&
		p.HealthScreened &&
		p.SunExposure != "" &&
		p.Budget != "" &&
		hasRoutine
}

// Decode parses a stored profile blob; an empty blob yields a fresh profile.
func Decode(raw []byte) (Profile, error) {
	if len(raw) == 0 {
		return New(), nil
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if p.Language == "" {
		p.Language = "english"
	}
	return p, nil
}

// Encode serializes the profile for storage.
func Encode(p Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return data, nil
}
