package profile

import (
	"reflect"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func sufficientProfile() Profile {
	p := New()
	p.AgeVerified = true
	p.SkinType = SkinCombination
	p.Concerns = []string{"acne"}
	p.Health.IsPregnant = boolPtr(false)
	p.HealthScreened = true
	p.SunExposure = SunModerate
	p.Budget = BudgetMid
	p.CurrentRoutineMorning = "cleanser, SPF"
	return p
}

func TestMergeNilUpdatesUnchanged(t *testing.T) {
	p := sufficientProfile()
	got := Merge(p, nil)
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("nil updates must not change the profile")
	}
}

func TestMergeAbsentFieldsUnchanged(t *testing.T) {
	p := sufficientProfile()
	p.Notes = "sensitive around eyes"
	p.Health.Allergies = []string{"fragrance"}

	st := SkinOily
	got := Merge(p, &Updates{SkinType: &st})

	if got.SkinType != SkinOily {
		t.Fatalf("skin type: got %q, want %q", got.SkinType, SkinOily)
	}
	if got.Notes != p.Notes {
		t.Fatalf("notes must be untouched, got %q", got.Notes)
	}
	if !reflect.DeepEqual(got.Health.Allergies, p.Health.Allergies) {
		t.Fatalf("allergies must be untouched, got %v", got.Health.Allergies)
	}
	if !reflect.DeepEqual(got.Concerns, p.Concerns) {
		t.Fatalf("concerns must be untouched, got %v", got.Concerns)
	}
}

func TestMergeHealthFieldByField(t *testing.T) {
	p := New()
	p.Health.IsPregnant = boolPtr(true)

	got := Merge(p, &Updates{IsNursing: boolPtr(false), Medications: []string{"tretinoin"}})

	if got.Health.IsPregnant == nil || !*got.Health.IsPregnant {
		t.Fatalf("is_pregnant must survive a health-adjacent update")
	}
	if got.Health.IsNursing == nil || *got.Health.IsNursing {
		t.Fatalf("is_nursing not applied")
	}
	if len(got.Health.Medications) != 1 || got.Health.Medications[0] != "tretinoin" {
		t.Fatalf("medications not applied: %v", got.Health.Medications)
	}
}

func TestMergeEmptyStringIsAnExplicitSet(t *testing.T) {
	p := sufficientProfile()
	got := Merge(p, &Updates{CurrentRoutineMorning: strPtr("")})
	if got.CurrentRoutineMorning != "" {
		t.Fatalf("a non-nil pointer to empty string is an explicit overwrite")
	}
}

func TestSufficiencyRequiredFields(t *testing.T) {
	p := sufficientProfile()
	if !Sufficient(p) {
		t.Fatalf("expected base profile to be sufficient")
	}

	cases := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"age", func(p *Profile) { p.AgeVerified = false }},
		{"skin type", func(p *Profile) { p.SkinType = "" }},
		{"concerns", func(p *Profile) { p.Concerns = nil }},
		{"health check", func(p *Profile) { p.Health.IsPregnant = nil }},
		{"health screen", func(p *Profile) { p.HealthScreened = false }},
		{"sun", func(p *Profile) { p.SunExposure = "" }},
		{"budget", func(p *Profile) { p.Budget = "" }},
		{"routine", func(p *Profile) {
			p.CurrentRoutineMorning = ""
			p.CurrentRoutineEvening = ""
		}},
	}
	for _, tc := range cases {
		p := sufficientProfile()
		tc.mutate(&p)
		if Sufficient(p) {
			t.Fatalf("%s: expected insufficiency", tc.name)
		}
	}
}

func TestSufficiencyMonotonicUnderMerge(t *testing.T) {
	p := sufficientProfile()
	st := SkinSensitive
	u := &Updates{
		SkinType: &st,
		Concerns: []string{"redness", "dryness"},
		Notes:    strPtr("reacts to actives"),
	}
	if !Sufficient(Merge(p, u)) {
		t.Fatalf("an update keeping required fields non-empty must preserve sufficiency")
	}
}

func TestResetKeepsLanguage(t *testing.T) {
	p := sufficientProfile()
	p.Language = "hebrew"
	got := p.Reset()
	if got.Language != "hebrew" {
		t.Fatalf("language must survive reset, got %q", got.Language)
	}
	if got.AgeVerified || got.SkinType != "" || len(got.Concerns) != 0 {
		t.Fatalf("reset must clear collected data: %+v", got)
	}
}

func TestDecodeEmptyBlob(t *testing.T) {
	p, err := Decode(nil)
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if p.Language != "english" {
		t.Fatalf("expected english default, got %q", p.Language)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := sufficientProfile()
	p.TurnsSinceSufficient = 1
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}
