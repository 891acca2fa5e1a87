package phase

// Phase tracks where a conversation is in the intake flow. Transitions are
// forward-only (interviewing → reviewing → complete) except for an explicit
// restart, which returns to interviewing from anywhere.
type Phase string

const (
	Interviewing Phase = "interviewing"
	Reviewing    Phase = "reviewing"
	Complete     Phase = "complete"
)

// Parse maps a stored phase value onto a current one. The retired
// "recommending" phase and anything unrecognized fold back to interviewing so
// stale rows from older deployments keep working.
func Parse(raw string) Phase {
	switch Phase(raw) {
	case Interviewing, Reviewing, Complete:
		return Phase(raw)
	default:
		return Interviewing
	}
}

// Gate applies the code-enforced interviewing→reviewing rule: reaching
// sufficiency never transitions immediately. The turn counter grows while
// sufficiency holds and the transition fires only at threshold (or when the
// force flag was already set this turn), giving the delegate at least one
// natural wrap-up turn. Losing sufficiency resets the counter.
//
// Returns the next phase and the updated counter.
func Gate(current Phase, sufficient bool, turns int, threshold int, force bool) (Phase, int) {
	if current != Interviewing {
		return current, turns
	}
	if !sufficient {
		return Interviewing, 0
	}
	turns++
	if turns >= threshold || force {
		return Reviewing, 0
	}
	return Interviewing, turns
}
