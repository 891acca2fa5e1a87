package profile

// Updates is the sparse per-turn update record returned by the delegate.
// A nil field means "no change" — never "clear". The delegate's output is
// advisory per turn and must not destructively erase confirmed data.
type Updates struct {
	SkinType              *SkinType       `json:"skin_type,omitempty"`
	Concerns              []string        `json:"concerns,omitempty"`
	AgeVerified           *bool           `json:"age_verified,omitempty"`
	IsPregnant            *bool           `json:"is_pregnant,omitempty"`
	IsNursing             *bool           `json:"is_nursing,omitempty"`
	PlanningPregnancy     *bool           `json:"planning_pregnancy,omitempty"`
	Medications           []string        `json:"medications,omitempty"`
	Allergies             []string        `json:"allergies,omitempty"`
	Sensitivities         []string        `json:"sensitivities,omitempty"`
	SunExposure           *SunExposure    `json:"sun_exposure,omitempty"`
	Budget                *BudgetRange    `json:"budget,omitempty"`
	Preferences           []string        `json:"preferences,omitempty"`
	CurrentRoutineMorning *string         `json:"current_routine_morning,omitempty"`
	CurrentRoutineEvening *string         `json:"current_routine_evening,omitempty"`
	KnowledgeLevel        *KnowledgeLevel `json:"knowledge_level,omitempty"`
	Notes                 *string         `json:"notes,omitempty"`
	ImageAnalysis         *string         `json:"image_analysis,omitempty"`
	HealthScreened        *bool           `json:"health_screened,omitempty"`
}

// Merge applies u onto p, overwriting only fields u actually sets. The health
// sub-record is merged field-by-field under the same rule. Purely structural:
// no business validation happens here.
func Merge(p Profile, u *Updates) Profile {
	if u == nil {
		return p
	}
	if u.SkinType != nil {
		p.SkinType = *u.SkinType
	}
	if u.Concerns != nil {
		p.Concerns = u.Concerns
	}
	if u.AgeVerified != nil {
		p.AgeVerified = *u.AgeVerified
	}
	if u.IsPregnant != nil {
		p.Health.IsPregnant = u.IsPregnant
	}
	if u.IsNursing != nil {
		p.Health.IsNursing = u.IsNursing
	}
	if u.PlanningPregnancy != nil {
		p.Health.PlanningPregnancy = u.PlanningPregnancy
	}
	if u.Medications != nil {
		p.Health.Medications = u.Medications
	}
	if u.Allergies != nil {
		p.Health.Allergies = u.Allergies
	}
	if u.Sensitivities != nil {
		p.Health.Sensitivities = u.Sensitivities
	}
	if u.SunExposure != nil {
		p.SunExposure = *u.SunExposure
	}
	if u.Budget != nil {
		p.Budget = *u.Budget
	}
	if u.Preferences != nil {
		p.Preferences = u.Preferences
	}
	if u.CurrentRoutineMorning != nil {
		p.CurrentRoutineMorning = *u.CurrentRoutineMorning
	}
	if u.CurrentRoutineEvening != nil {
		p.CurrentRoutineEvening = *u.CurrentRoutineEvening
	}
	if u.KnowledgeLevel != nil {
		p.KnowledgeLevel = *u.KnowledgeLevel
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.ImageAnalysis != nil {
		p.ImageAnalysis = *u.ImageAnalysis
	}
	if u.HealthScreened != nil {
		p.HealthScreened = *u.HealthScreened
	}
	return p
}
