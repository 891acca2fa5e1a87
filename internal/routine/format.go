package routine

import (
	"fmt"
	"strings"
)

// FormatShort renders the scannable bullet summary sent right after the plan
// is generated.
func FormatShort(r *Routine) string {
	if r == nil {
		return ""
	}
	var lines []string
	lines = append(lines, r.NarrativeSummary, "")

	if len(r.Morning) > 0 {
		lines = append(lines, "*☀️ Morning*")
		for _, step := range r.Morning {
			lines = append(lines, fmt.Sprintf("  %d. %s", step.Order, step.StepName))
		}
		lines = append(lines, "")
	}
	if len(r.Evening) > 0 {
		lines = append(lines, "*🌙 Evening*")
		for _, step := range r.Evening {
			lines = append(lines, fmt.Sprintf("  %d. %s", step.Order, step.StepName))
		}
		lines = append(lines, "")
	}
	if len(r.IngredientsToAvoid) > 0 {
		lines = append(lines, fmt.Sprintf("*🚫 Avoid:* %s", strings.Join(r.IngredientsToAvoid, ", ")))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// FormatDetailed renders the expanded view with application tips and
// timelines, served from storage with no delegate involvement.
func FormatDetailed(r *Routine) string {
	if r == nil {
		return ""
	}
	var lines []string

	if len(r.Morning) > 0 {
		lines = append(lines, "*☀️ Morning Routine — Detailed*", "")
		lines = appendDetailedSteps(lines, r.Morning)
	}
	if len(r.Evening) > 0 {
		lines = append(lines, "*🌙 Evening Routine — Detailed*", "")
		lines = appendDetailedSteps(lines, r.Evening)
	}
	if len(r.KeyNotes) > 0 {
		lines = append(lines, "*📝 Key Notes*")
		for _, note := range r.KeyNotes {
			lines = append(lines, fmt.Sprintf("  • %s", note))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatCondensed renders the compact listing embedded in delegate context
// during the post-plan phase.
func FormatCondensed(r *Routine) string {
	if r == nil {
		return ""
	}
	var lines []string
	if len(r.Morning) > 0 {
		lines = append(lines, "Morning:")
		for _, step := range r.Morning {
			lines = append(lines, fmt.Sprintf("  %d. %s — %s", step.Order, step.StepName, step.IngredientCategory))
		}
	}
	if len(r.Evening) > 0 {
		lines = append(lines, "Evening:")
		for _, step := range r.Evening {
			lines = append(lines, fmt.Sprintf("  %d. %s — %s", step.Order, step.StepName, step.IngredientCategory))
		}
	}
	if len(r.IngredientsToAvoid) > 0 {
		lines = append(lines, fmt.Sprintf("Avoid: %s", strings.Join(r.IngredientsToAvoid, ", ")))
	}
	if len(r.KeyNotes) > 0 {
		lines = append(lines, "Notes: "+strings.Join(r.KeyNotes, "; "))
	}
	return strings.Join(lines, "\n")
}

func appendDetailedSteps(lines []string, steps []Step) []string {
	for _, step := range steps {
		lines = append(lines, fmt.Sprintf("*%d. %s*", step.Order, step.StepName))
		lines = append(lines, fmt.Sprintf("  _%s_", step.IngredientCategory))
		lines = append(lines, fmt.Sprintf("  %s", step.Why))
		if step.UsageTip != "" {
			lines = append(lines, fmt.Sprintf("  💡 %s", step.UsageTip))
		}
		if step.TimeExpectation != "" {
			lines = append(lines, fmt.Sprintf("  ⏱ %s", step.TimeExpectation))
		}
		lines = append(lines, "")
	}
	return lines
}
