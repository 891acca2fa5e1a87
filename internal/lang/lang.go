// Package lang detects the user's language from raw message text. The
// heuristic sits behind a narrow interface so orchestration code never depends
// on how detection works.
package lang

const (
	English = "english"
	Hebrew  = "hebrew"
)

// Detector resolves the language of a single message.
type Detector interface {
	Detect(text string) string
}

// RangeDetector flags Hebrew by Unicode block membership and defaults to
// English otherwise.
type RangeDetector struct{}

func (RangeDetector) Detect(text string) string {
	for _, r := range text {
		if r >= 0x0590 && r <= 0x05FF {
			return Hebrew
		}
	}
	return English
}
