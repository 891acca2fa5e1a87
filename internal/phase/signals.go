package phase

import (
	"regexp"
	"strings"
)

// Restart must never fire on a substring of an unrelated word ("reset" inside
// "presets"), so it is matched with explicit boundaries instead of a plain
// contains check. \b is useless for Hebrew (regexp word chars are ASCII), so
// boundaries are whitespace/punctuation classes that cover both scripts.
var restartPattern = regexp.MustCompile(
	`(?i)(?:^|[\s.,!?"'()])(?:start over|restart|reset|new consultation|מחדש|התחל מחדש|התחילי מחדש)(?:$|[\s.,!?"'()])`,
)

// WantsRestart reports whether the message is an explicit request to start the
// consultation over. It takes priority over every other rule.
func WantsRestart(message string) bool {
	return restartPattern.MatchString(" " + message + " ")
}

var confirmationSignals = []string{
	"yes", "yeah", "yep", "correct", "looks good", "that's right",
	"confirmed", "confirm", "ok", "okay", "perfect", "great",
	"כן", "נכון", "מאשר", "מאשרת", "בסדר", "מצוין",
}

// IsConfirmation reports whether the message reads as a positive confirmation
// of the profile summary. Substring matching is fine here: it is only ever
// consulted in the reviewing phase.
func IsConfirmation(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, sig := range confirmationSignals {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

var detailSignals = []string{
	"detailed", "details", "more", "tips",
	"פירוט", "עוד",
}

// WantsDetails reports whether the user is asking for the expanded rendering
// of their stored routine.
func WantsDetails(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, sig := range detailSignals {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
