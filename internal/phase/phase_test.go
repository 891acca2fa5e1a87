package phase

import "testing"

func TestParseFoldsLegacyPhases(t *testing.T) {
	cases := map[string]Phase{
		"interviewing": Interviewing,
		"reviewing":    Reviewing,
		"complete":     Complete,
		"recommending": Interviewing,
		"":             Interviewing,
		"garbage":      Interviewing,
	}
	for raw, want := range cases {
		if got := Parse(raw); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestGateTransitionsExactlyAtThreshold(t *testing.T) {
	ph := Interviewing
	turns := 0

	// Sufficiency holds from turn 1: first turn must stay interviewing.
	ph, turns = Gate(ph, true, turns, 2, false)
	if ph != Interviewing || turns != 1 {
		t.Fatalf("turn 1: got %q/%d, want interviewing/1", ph, turns)
	}

	// Second sufficient turn reaches the threshold.
	ph, turns = Gate(ph, true, turns, 2, false)
	if ph != Reviewing || turns != 0 {
		t.Fatalf("turn 2: got %q/%d, want reviewing/0", ph, turns)
	}
}

func TestGateResetsCounterWhenSufficiencyLost(t *testing.T) {
	_, turns := Gate(Interviewing, true, 0, 2, false)
	if turns != 1 {
		t.Fatalf("setup: want counter 1, got %d", turns)
	}
	ph, turns := Gate(Interviewing, false, turns, 2, false)
	if ph != Interviewing || turns != 0 {
		t.Fatalf("losing sufficiency must reset: got %q/%d", ph, turns)
	}
}

func TestGateForceFlag(t *testing.T) {
	ph, _ := Gate(Interviewing, true, 0, 5, true)
	if ph != Reviewing {
		t.Fatalf("force flag must transition regardless of counter, got %q", ph)
	}
}

func TestGateIgnoresOtherPhases(t *testing.T) {
	for _, current := range []Phase{Reviewing, Complete} {
		ph, turns := Gate(current, true, 3, 2, true)
		if ph != current || turns != 3 {
			t.Fatalf("%q: gate must not touch non-interviewing phases", current)
		}
	}
}

func TestWantsRestart(t *testing.T) {
	positives := []string{
		"restart",
		"please start over",
		"Reset!",
		"I'd like a new consultation please",
		"בואי נתחיל מחדש",
	}
	for _, msg := range positives {
		if !WantsRestart(msg) {
			t.Fatalf("expected restart match for %q", msg)
		}
	}

	negatives := []string{
		"I love the presets you mentioned",
		"my skin is restarting to break out", // no standalone signal word
		"more details please",
	}
	for _, msg := range negatives {
		if WantsRestart(msg) {
			t.Fatalf("unexpected restart match for %q", msg)
		}
	}
}

func TestIsConfirmation(t *testing.T) {
	if !IsConfirmation("Yes, looks good!") {
		t.Fatalf("expected confirmation")
	}
	if !IsConfirmation("כן") {
		t.Fatalf("expected hebrew confirmation")
	}
	if IsConfirmation("change my budget") {
		t.Fatalf("correction must not read as confirmation")
	}
}

func TestWantsDetails(t *testing.T) {
	if !WantsDetails("can I get the detailed version?") {
		t.Fatalf("expected details match")
	}
	if !WantsDetails("פירוט בבקשה") {
		t.Fatalf("expected hebrew details match")
	}
	if WantsDetails("thank you") {
		t.Fatalf("unexpected details match")
	}
}
