// Package delegate talks to the generative model. It owns prompt assembly and
// reply parsing; conversation policy (phases, sufficiency, persistence) stays
// with the orchestrator, which treats the delegate's structured updates as
// advisory input.
package delegate

import (
	"context"

	"github.com/glowbotai/glowbot/internal/history"
	"github.com/glowbotai/glowbot/internal/phase"
	"github.com/glowbotai/glowbot/internal/profile"
	"github.com/glowbotai/glowbot/internal/routine"
)

// TurnInput carries everything the delegate may see for one turn.
type TurnInput struct {
	Identity    string
	Message     string
	MediaURL    string
	Profile     profile.Profile
	Phase       phase.Phase
	History     []history.Turn
	ForceWrapUp bool

	// Artifact is the condensed rendering of the stored plan, present only in
	// the post-plan phase so follow-up answers can reference it.
	Artifact string
}

// Reply is the parsed model output for a conversational turn. Updates is nil
// when the model proposed no profile changes or its output was not parseable.
// Routine is set when the model finished the consultation inline (the user
// confirmed in words the fixed signal list does not recognize).
type Reply struct {
	Message string
	Updates *profile.Updates
	Routine *routine.Routine
	Raw     string
}

// Delegate is the model-facing seam the orchestrator depends on.
type Delegate interface {
	Respond(ctx context.Context, in TurnInput) (Reply, error)
	GenerateArtifact(ctx context.Context, p profile.Profile, turns []history.Turn) (routine.Routine, error)
}
