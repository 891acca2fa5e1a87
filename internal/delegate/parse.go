package delegate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glowbotai/glowbot/internal/profile"
	"github.com/glowbotai/glowbot/internal/routine"
)

type wireReply struct {
	Response string           `json:"response"`
	Updates  *profile.Updates `json:"updates"`
	Routine  *routine.Routine `json:"routine"`
}

// parseReply extracts the structured reply from raw model output. Models
// sometimes wrap JSON in code fences or lead with prose; we dig out the first
// balanced object. If nothing parseable is found, the whole text becomes the
// user-facing message with no updates.
func parseReply(raw string) Reply {
	candidate, ok := extractObject(raw)
	if ok {
		var wire wireReply
		if err := json.Unmarshal([]byte(candidate), &wire); err == nil && wire.Response != "" {
			reply := Reply{Message: wire.Response, Updates: wire.Updates, Raw: raw}
			// An empty routine object is noise, not a finished plan.
			if wire.Routine != nil && (wire.Routine.NarrativeSummary != "" || len(wire.Routine.Morning) > 0 || len(wire.Routine.Evening) > 0) {
				reply.Routine = wire.Routine
			}
			return reply
		}
	}
	return Reply{Message: strings.TrimSpace(raw), Raw: raw}
}

func parseRoutine(raw string) (routine.Routine, error) {
	candidate, ok := extractObject(raw)
	if !ok {
		return routine.Routine{}, fmt.Errorf("no JSON object in model output")
	}
	var r routine.Routine
	if err := json.Unmarshal([]byte(candidate), &r); err != nil {
		return routine.Routine{}, fmt.Errorf("parse routine: %w", err)
	}
	if r.NarrativeSummary == "" && len(r.Morning) == 0 && len(r.Evening) == 0 {
		return routine.Routine{}, fmt.Errorf("routine output was empty")
	}
	return r, nil
}

// extractObject returns the first balanced top-level JSON object in text,
// tolerating code fences and surrounding prose. Brace counting is
// string-aware so braces inside values do not confuse it.
func extractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
