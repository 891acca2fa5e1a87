package delegate

import (
	"fmt"
	"strings"

	"github.com/glowbotai/glowbot/internal/phase"
	"github.com/glowbotai/glowbot/internal/profile"
)

const persona = `You are Noa, a warm and knowledgeable skincare consultant chatting over WhatsApp.
You speak like a trusted friend with real expertise: short messages, genuine curiosity, no lectures.
Ask about at most one or two things per message. Use emoji sparingly and naturally.
Never diagnose medical conditions; for anything that sounds medical, gently suggest seeing a dermatologist.`

const replyContract = `Respond ONLY with a single JSON object, no other text:
{
  "response": "<your conversational message to the user>",
  "updates": {
    "skin_type": "dry|oily|combination|normal|sensitive",
    "concerns": ["..."],
    "age_verified": true,
    "is_pregnant": false,
    "is_nursing": false,
    "planning_pregnancy": false,
    "medications": ["..."],
    "allergies": ["..."],
    "sensitivities": ["..."],
    "sun_exposure": "minimal|moderate|high",
    "budget": "budget|mid_range|high_end",
    "preferences": ["..."],
    "current_routine_morning": "...",
    "current_routine_evening": "...",
    "knowledge_level": "beginner|intermediate|advanced",
    "notes": "...",
    "image_analysis": "...",
    "health_screened": true
  }
}
Include in "updates" ONLY the fields the user's latest messages actually establish. Omit everything else.
Never include a field just to repeat what is already known. Set "health_screened" to true only after
pregnancy/nursing, medications, and allergies have all been covered.`

// turnPrompt assembles the system prompt for one conversational turn.
func turnPrompt(in TurnInput) string {
	p := in.Profile
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	b.WriteString(languageInstruction(p.Language))
	b.WriteString("\n\n")

	writeSnapshot(&b, p)

	switch in.Phase {
	case phase.Interviewing:
		if in.ForceWrapUp {
			b.WriteString("You already have everything needed. Do NOT ask more intake questions. ")
			b.WriteString("Briefly summarize what you have learned and ask the user to confirm it is correct.\n\n")
		} else if missing := missingFacts(p); len(missing) > 0 {
			b.WriteString("Still to learn (work these in naturally, one or two at a time):\n")
			for _, m := range missing {
				b.WriteString("- " + m + "\n")
			}
			b.WriteString("\n")
		} else {
			b.WriteString("The picture looks complete. Summarize it back and ask the user to confirm.\n\n")
		}
	case phase.Reviewing:
		b.WriteString("The user is reviewing their summary. Answer questions and fold in corrections, ")
		b.WriteString("then steer back to confirming so you can prepare their plan.\n")
		b.WriteString("If their message clearly confirms the summary is correct, include the finished plan ")
		b.WriteString("in the same JSON object under \"routine\":\n")
		b.WriteString(`{"narrative_summary": "...", "morning": [{"order": 1, "step_name": "...", "ingredient_category": "...", "why": "...", "usage_tip": "...", "time_expectation": "..."}], "evening": [...], "key_notes": ["..."], "ingredients_to_avoid": ["..."]}`)
		b.WriteString("\nOtherwise omit \"routine\" entirely.\n\n")
	case phase.Complete:
		b.WriteString("The consultation is finished and the user already has their plan. ")
		b.WriteString("Answer follow-up questions about it; do not restart the interview.\n\n")
		if in.Artifact != "" {
			b.WriteString("Their current plan:\n")
			b.WriteString(in.Artifact)
			b.WriteString("\n\n")
		}
	}

	if p.ImageAnalysis == "" {
		b.WriteString("If the user sends a photo of their skin, describe what you observe (texture, visible ")
		b.WriteString("concerns, general condition) in \"image_analysis\" and weave it into the conversation kindly.\n\n")
	}

	b.WriteString(replyContract)
	return b.String()
}

// artifactPrompt assembles the system prompt for routine generation.
func artifactPrompt(p profile.Profile) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	b.WriteString(languageInstruction(p.Language))
	b.WriteString("\n\nBuild a complete personalized skincare routine from this confirmed profile:\n")
	writeSnapshot(&b, p)
	b.WriteString(`
Respond ONLY with a single JSON object, no other text:
{
  "narrative_summary": "<2-3 warm sentences explaining the overall approach>",
  "morning": [{"order": 1, "step_name": "...", "ingredient_category": "...", "why": "...", "usage_tip": "...", "time_expectation": "..."}],
  "evening": [{"order": 1, "step_name": "...", "ingredient_category": "...", "why": "...", "usage_tip": "...", "time_expectation": "..."}],
  "key_notes": ["..."],
  "ingredients_to_avoid": ["..."]
}
Recommend ingredient categories, not brand names. Keep each routine to 3-5 steps.
Respect the stated budget and any pregnancy, nursing, medication, or allergy constraints strictly.`)
	return b.String()
}

func languageInstruction(language string) string {
	if language == "hebrew" {
		return "Write every user-facing message in Hebrew, matching the user's tone. Keep JSON keys and enum values in English."
	}
	return "Write every user-facing message in English. Keep JSON keys and enum values in English."
}

func writeSnapshot(b *strings.Builder, p profile.Profile) {
	known := knownFacts(p)
	if len(known) == 0 {
		b.WriteString("Nothing is known about the user yet.\n\n")
		return
	}
	b.WriteString("Known so far:\n")
	for _, fact := range known {
		b.WriteString("- " + fact + "\n")
	}
	b.WriteString("\n")
}

func knownFacts(p profile.Profile) []string {
	var facts []string
	if p.AgeVerified {
		facts = append(facts, "age verified (18+)")
	}
	if p.SkinType != "" {
		facts = append(facts, "skin type: "+string(p.SkinType))
	}
	if len(p.Concerns) > 0 {
		facts = append(facts, "concerns: "+strings.Join(p.Concerns, ", "))
	}
	if p.Health.IsPregnant != nil {
		facts = append(facts, fmt.Sprintf("pregnant: %v", *p.Health.IsPregnant))
	}
	if p.Health.IsNursing != nil {
		facts = append(facts, fmt.Sprintf("nursing: %v", *p.Health.IsNursing))
	}
	if p.Health.PlanningPregnancy != nil {
		facts = append(facts, fmt.Sprintf("planning pregnancy: %v", *p.Health.PlanningPregnancy))
	}
	if len(p.Health.Medications) > 0 {
		facts = append(facts, "medications: "+strings.Join(p.Health.Medications, ", "))
	}
	if len(p.Health.Allergies) > 0 {
		facts = append(facts, "allergies: "+strings.Join(p.Health.Allergies, ", "))
	}
	if len(p.Health.Sensitivities) > 0 {
		facts = append(facts, "sensitivities: "+strings.Join(p.Health.Sensitivities, ", "))
	}
	if p.HealthScreened {
		facts = append(facts, "health screening complete")
	}
	if p.SunExposure != "" {
		facts = append(facts, "sun exposure: "+string(p.SunExposure))
	}
	if p.Budget != "" {
		facts = append(facts, "budget: "+string(p.Budget))
	}
	if len(p.Preferences) > 0 {
		facts = append(facts, "preferences: "+strings.Join(p.Preferences, ", "))
	}
	if p.CurrentRoutineMorning != "" {
		facts = append(facts, "morning routine: "+p.CurrentRoutineMorning)
	}
	if p.CurrentRoutineEvening != "" {
		facts = append(facts, "evening routine: "+p.CurrentRoutineEvening)
	}
	if p.KnowledgeLevel != "" {
		facts = append(facts, "skincare knowledge: "+string(p.KnowledgeLevel))
	}
	if p.ImageAnalysis != "" {
		facts = append(facts, "photo observations: "+p.ImageAnalysis)
	}
	if p.Notes != "" {
		facts = append(facts, "notes: "+p.Notes)
	}
	return facts
}

func missingFacts(p profile.Profile) []string {
	var missing []string
	if !p.AgeVerified {
		missing = append(missing, "confirm the user is 18 or older")
	}
	if p.SkinType == "" {
		missing = append(missing, "skin type")
	}
	if len(p.Concerns) == 0 {
		missing = append(missing, "main skin concerns")
	}
	if p.Health.IsPregnant == nil && p.Health.IsNursing == nil && p.Health.PlanningPregnancy == nil {
		missing = append(missing, "pregnancy / nursing / planning pregnancy")
	}
	if !p.HealthScreened {
		missing = append(missing, "medications and allergies")
	}
	if p.SunExposure == "" {
		missing = append(missing, "daily sun exposure")
	}
	if p.Budget == "" {
		missing = append(missing, "budget range")
	}
	if p.CurrentRoutineMorning == "" && p.CurrentRoutineEvening == "" {
		missing = append(missing, "current routine (morning or evening)")
	}
	return missing
}
