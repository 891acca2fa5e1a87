// Package orchestrator runs one conversational turn end to end: load state,
// apply the deterministic rule chain, consult the delegate when no rule fires,
// merge updates, advance the phase, and persist — all or nothing.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowbotai/glowbot/internal/delegate"
	"github.com/glowbotai/glowbot/internal/eventlog"
	"github.com/glowbotai/glowbot/internal/history"
	"github.com/glowbotai/glowbot/internal/lang"
	"github.com/glowbotai/glowbot/internal/phase"
	"github.com/glowbotai/glowbot/internal/profile"
	"github.com/glowbotai/glowbot/internal/routine"
	"github.com/glowbotai/glowbot/internal/segment"
	"github.com/glowbotai/glowbot/internal/state"
)

type Options struct {
	ChunkLimit      int
	HistoryPairs    int
	ReviewThreshold int
}

func (o Options) withDefaults() Options {
	if o.ChunkLimit <= 0 {
		o.ChunkLimit = segment.DefaultLimit
	}
	if o.HistoryPairs <= 0 {
		o.HistoryPairs = 20
	}
	if o.ReviewThreshold <= 0 {
		o.ReviewThreshold = 2
	}
	return o
}

// Inbound is one coalesced batch of user input.
type Inbound struct {
	Identity    string
	DisplayName string
	Text        string
	MediaURL    string
}

type Orchestrator struct {
	store    *state.Store
	delegate delegate.Delegate
	events   *eventlog.Log
	detector lang.Detector
	opts     Options
	log      zerolog.Logger
}

func New(store *state.Store, dlg delegate.Delegate, events *eventlog.Log, detector lang.Detector, opts Options, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		delegate: dlg,
		events:   events,
		detector: detector,
		opts:     opts.withDefaults(),
		log:      log,
	}
}

// HandleTurn processes one inbound batch and returns the outbound chunks in
// send order. A delegate failure yields a localized apology and leaves stored
// state untouched; the failure itself goes to the event trail, not the caller.
func (o *Orchestrator) HandleTurn(ctx context.Context, in Inbound) ([]string, error) {
	conv, err := o.store.GetOrCreate(ctx, in.Identity, in.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	prof, err := profile.Decode(conv.Profile)
	if err != nil {
		// A corrupt blob must not brick the conversation; start the intake
		// over rather than refusing to answer.
		o.log.Error().Err(err).Str("identity", in.Identity).Msg("stored profile unreadable, resetting")
		prof = profile.New()
	}
	if in.Text != "" {
		prof.Language = o.detector.Detect(in.Text)
	}

	o.recordInbound(ctx, in)

	ph := phase.Parse(conv.Phase)
	turns := history.Deserialize(conv.History, o.log)
	stored, err := routine.Decode(conv.Routine)
	if err != nil {
		o.log.Error().Err(err).Str("identity", in.Identity).Msg("stored routine unreadable, dropping")
		stored = nil
	}

	out, err := o.runTurn(ctx, in, conv, prof, ph, turns, stored)
	if err != nil {
		words := localized(prof.Language)
		o.recordError(ctx, in.Identity, err)
		return []string{words.apology}, nil
	}
	return out, nil
}

// runTurn is the rule chain proper. Any error aborts before persistence.
func (o *Orchestrator) runTurn(ctx context.Context, in Inbound, conv state.Conversation, prof profile.Profile, ph phase.Phase, turns []history.Turn, stored *routine.Routine) ([]string, error) {
	words := localized(prof.Language)

	// Restart outranks everything, from any phase.
	if phase.WantsRestart(in.Text) {
		return o.finishTurn(ctx, in, conv, turnResult{
			profile: prof.Reset(),
			phase:   phase.Interviewing,
			routine: nil,
			history: nil,
			reply:   words.restart,
		})
	}

	// Confirmation while reviewing triggers plan generation.
	if ph == phase.Reviewing && phase.IsConfirmation(in.Text) {
		generated, err := o.delegate.GenerateArtifact(ctx, prof, turns)
		if err != nil {
			return nil, err
		}
		reply := routine.FormatShort(&generated) + "\n\n" + words.detailCTA
		return o.finishTurn(ctx, in, conv, turnResult{
			profile: prof,
			phase:   phase.Complete,
			routine: &generated,
			history: appendPair(turns, in.Text, reply, o.opts.HistoryPairs),
			reply:   reply,
			preface: words.reviewAck,
		})
	}

	// Post-plan detail request is served straight from storage. A bare
	// confirmation counts only right after the detail call-to-action; later
	// "ok"s are ordinary chat and go to the delegate.
	if ph == phase.Complete && stored != nil &&
		(phase.WantsDetails(in.Text) || (phase.IsConfirmation(in.Text) && awaitingDetailOptIn(turns))) {
		reply := routine.FormatDetailed(stored)
		return o.finishTurn(ctx, in, conv, turnResult{
			profile: prof,
			phase:   ph,
			routine: stored,
			history: appendPair(turns, in.Text, reply, o.opts.HistoryPairs),
			reply:   reply,
		})
	}

	// No rule fired: hand the turn to the delegate.
	force := ph == phase.Interviewing &&
		profile.Sufficient(prof) &&
		prof.TurnsSinceSufficient+1 >= o.opts.ReviewThreshold

	turnInput := delegate.TurnInput{
		Identity:    in.Identity,
		Message:     in.Text,
		MediaURL:    in.MediaURL,
		Profile:     prof,
		Phase:       ph,
		History:     turns,
		ForceWrapUp: force,
		Artifact:    routine.FormatCondensed(stored),
	}
	reply, err := o.delegate.Respond(ctx, turnInput)
	if err != nil {
		return nil, err
	}

	prof = profile.Merge(prof, reply.Updates)

	// An inline artifact ends the consultation regardless of how the user
	// phrased their confirmation.
	if reply.Routine != nil {
		prof.TurnsSinceSufficient = 0
		message := reply.Message
		if message == "" {
			message = routine.FormatShort(reply.Routine) + "\n\n" + words.detailCTA
		}
		return o.finishTurn(ctx, in, conv, turnResult{
			profile: prof,
			phase:   phase.Complete,
			routine: reply.Routine,
			history: appendPair(turns, in.Text, message, o.opts.HistoryPairs),
			reply:   message,
		})
	}

	if ph == phase.Interviewing {
		ph, prof.TurnsSinceSufficient = phase.Gate(ph, profile.Sufficient(prof), prof.TurnsSinceSufficient, o.opts.ReviewThreshold, force)
	}

	return o.finishTurn(ctx, in, conv, turnResult{
		profile: prof,
		phase:   ph,
		routine: stored,
		history: appendPair(turns, in.Text, reply.Message, o.opts.HistoryPairs),
		reply:   reply.Message,
	})
}

// awaitingDetailOptIn reports whether the previous outbound message ended with
// the detail call-to-action, making the very next confirmation an opt-in.
func awaitingDetailOptIn(turns []history.Turn) bool {
	if len(turns) == 0 {
		return false
	}
	last := turns[len(turns)-1]
	if last.Kind != history.KindResponse {
		return false
	}
	for _, words := range phrasebook {
		if strings.Contains(last.Content, words.detailCTA) {
			return true
		}
	}
	return false
}

type turnResult struct {
	profile profile.Profile
	phase   phase.Phase
	routine *routine.Routine
	history []history.Turn
	reply   string
	// preface is sent as its own chunk ahead of the segmented reply.
	preface string
}

// finishTurn persists the whole record, then records and returns the outbound
// chunks. Persistence failure drops the reply: better to repeat a question
// next turn than to send answers the stored state never saw.
func (o *Orchestrator) finishTurn(ctx context.Context, in Inbound, conv state.Conversation, res turnResult) ([]string, error) {
	profileBlob, err := profile.Encode(res.profile)
	if err != nil {
		return nil, err
	}
	historyBlob, err := history.Serialize(res.history)
	if err != nil {
		return nil, err
	}
	routineBlob, err := routine.Encode(res.routine)
	if err != nil {
		return nil, err
	}

	conv.Profile = profileBlob
	conv.Phase = string(res.phase)
	conv.History = historyBlob
	conv.Routine = routineBlob
	if in.DisplayName != "" && conv.DisplayName == "" {
		conv.DisplayName = in.DisplayName
	}
	if err := o.store.Save(ctx, conv); err != nil {
		return nil, err
	}

	var out []string
	audit := res.reply
	if res.preface != "" {
		out = append(out, res.preface)
		audit = res.preface + "\n\n" + res.reply
	}
	out = append(out, segment.Split(res.reply, o.opts.ChunkLimit)...)

	o.recordOutbound(ctx, in.Identity, audit, out)
	o.log.Info().
		Str("identity", in.Identity).
		Str("phase", string(res.phase)).
		Int("chunks", len(out)).
		Msg("turn complete")
	return out, nil
}

func appendPair(turns []history.Turn, request, response string, pairs int) []history.Turn {
	now := time.Now().UTC()
	turns = append(turns,
		history.Turn{Kind: history.KindRequest, Role: "user", Content: request, CreatedAt: now},
		history.Turn{Kind: history.KindResponse, Role: "assistant", Content: response, CreatedAt: now},
	)
	return history.Trim(turns, pairs)
}

func (o *Orchestrator) recordInbound(ctx context.Context, in Inbound) {
	if err := o.store.LogMessage(ctx, in.Identity, state.RoleUser, in.Text, in.MediaURL); err != nil {
		o.log.Warn().Err(err).Msg("message log write failed")
	}
	var metadata map[string]string
	if in.MediaURL != "" {
		metadata = map[string]string{"media_url": in.MediaURL}
	}
	if _, err := o.events.Append(ctx, in.Identity, eventlog.KindInbound, in.Text, metadata); err != nil {
		o.log.Warn().Err(err).Msg("event log write failed")
	}
}

func (o *Orchestrator) recordOutbound(ctx context.Context, identity, full string, chunks []string) {
	if err := o.store.LogMessage(ctx, identity, state.RoleAssistant, full, ""); err != nil {
		o.log.Warn().Err(err).Msg("message log write failed")
	}
	for i, chunk := range chunks {
		metadata := map[string]string{"part": fmt.Sprintf("%d/%d", i+1, len(chunks))}
		if _, err := o.events.Append(ctx, identity, eventlog.KindOutbound, chunk, metadata); err != nil {
			o.log.Warn().Err(err).Msg("event log write failed")
		}
	}
}

func (o *Orchestrator) recordError(ctx context.Context, identity string, turnErr error) {
	o.log.Error().Err(turnErr).Str("identity", identity).Msg("turn failed")
	if _, err := o.events.Append(ctx, identity, eventlog.KindError, turnErr.Error(), nil); err != nil {
		o.log.Warn().Err(err).Msg("event log write failed")
	}
}
