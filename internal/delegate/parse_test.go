package delegate

import (
	"testing"
)

func TestParseReplyPlainJSON(t *testing.T) {
	raw := `{"response": "Got it! What's your budget like?", "updates": {"skin_type": "oily", "age_verified": true}}`
	reply := parseReply(raw)
	if reply.Message != "Got it! What's your budget like?" {
		t.Fatalf("message: got %q", reply.Message)
	}
	if reply.Updates == nil || reply.Updates.SkinType == nil || *reply.Updates.SkinType != "oily" {
		t.Fatalf("updates not parsed: %+v", reply.Updates)
	}
	if reply.Updates.AgeVerified == nil || !*reply.Updates.AgeVerified {
		t.Fatalf("age_verified not parsed: %+v", reply.Updates)
	}
}

func TestParseReplyCodeFence(t *testing.T) {
	raw := "```json\n{\"response\": \"hello\", \"updates\": {\"budget\": \"mid_range\"}}\n```"
	reply := parseReply(raw)
	if reply.Message != "hello" {
		t.Fatalf("message: got %q", reply.Message)
	}
	if reply.Updates == nil || reply.Updates.Budget == nil || *reply.Updates.Budget != "mid_range" {
		t.Fatalf("updates: %+v", reply.Updates)
	}
}

func TestParseReplyLeadingProse(t *testing.T) {
	raw := "Sure, here's my reply:\n{\"response\": \"ok {with braces}\", \"updates\": {}}"
	reply := parseReply(raw)
	if reply.Message != "ok {with braces}" {
		t.Fatalf("message: got %q", reply.Message)
	}
}

func TestParseReplyUnstructuredFallsBackToText(t *testing.T) {
	raw := "  I couldn't produce JSON, sorry!  "
	reply := parseReply(raw)
	if reply.Message != "I couldn't produce JSON, sorry!" {
		t.Fatalf("message: got %q", reply.Message)
	}
	if reply.Updates != nil {
		t.Fatalf("unstructured reply must carry no updates")
	}
}

func TestParseReplyNoUpdatesKey(t *testing.T) {
	reply := parseReply(`{"response": "just chatting"}`)
	if reply.Message != "just chatting" {
		t.Fatalf("message: got %q", reply.Message)
	}
	if reply.Updates != nil {
		t.Fatalf("absent updates must stay nil")
	}
}

func TestParseReplyInlineRoutine(t *testing.T) {
	raw := `{"response": "All set!", "updates": {}, "routine": {"narrative_summary": "Gentle plan.", "morning": [{"order": 1, "step_name": "Cleanser", "ingredient_category": "gel cleanser", "why": "clears oil"}]}}`
	reply := parseReply(raw)
	if reply.Message != "All set!" {
		t.Fatalf("message: got %q", reply.Message)
	}
	if reply.Routine == nil || reply.Routine.NarrativeSummary != "Gentle plan." {
		t.Fatalf("inline routine not parsed: %+v", reply.Routine)
	}
	if len(reply.Routine.Morning) != 1 {
		t.Fatalf("morning steps: %+v", reply.Routine)
	}
}

func TestParseReplyEmptyRoutineIgnored(t *testing.T) {
	reply := parseReply(`{"response": "still chatting", "routine": {}}`)
	if reply.Routine != nil {
		t.Fatalf("empty routine object must not read as a finished plan: %+v", reply.Routine)
	}
}

func TestParseRoutine(t *testing.T) {
	raw := "```json\n" + `{
		"narrative_summary": "A gentle plan for oily skin.",
		"morning": [{"order": 1, "step_name": "Cleanser", "ingredient_category": "gel cleanser", "why": "removes oil"}],
		"evening": [{"order": 1, "step_name": "Cleanser", "ingredient_category": "gel cleanser", "why": "removes the day"}],
		"key_notes": ["patch test new products"],
		"ingredients_to_avoid": ["fragrance"]
	}` + "\n```"
	r, err := parseRoutine(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.NarrativeSummary != "A gentle plan for oily skin." {
		t.Fatalf("summary: %q", r.NarrativeSummary)
	}
	if len(r.Morning) != 1 || r.Morning[0].StepName != "Cleanser" {
		t.Fatalf("morning: %+v", r.Morning)
	}
	if len(r.IngredientsToAvoid) != 1 {
		t.Fatalf("avoid list: %+v", r.IngredientsToAvoid)
	}
}

func TestParseRoutineRejectsGarbage(t *testing.T) {
	if _, err := parseRoutine("no json here at all"); err == nil {
		t.Fatalf("expected error for missing object")
	}
	if _, err := parseRoutine(`{"unrelated": true}`); err == nil {
		t.Fatalf("expected error for empty routine")
	}
}

func TestExtractObjectStringAware(t *testing.T) {
	text := `prefix {"a": "close me } not", "b": {"c": 1}} suffix`
	got, ok := extractObject(text)
	if !ok {
		t.Fatalf("expected an object")
	}
	want := `{"a": "close me } not", "b": {"c": 1}}`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractObjectUnbalanced(t *testing.T) {
	if _, ok := extractObject(`{"never": "closed"`); ok {
		t.Fatalf("unbalanced object must not parse")
	}
}
