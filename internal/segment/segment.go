// Package segment splits outbound text into transport-safe chunks. The
// messaging channel rejects long bodies, so anything over the limit becomes an
// ordered "(i/N)"-prefixed sequence the recipient can reassemble.
package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultLimit is the safe WhatsApp body length.
const DefaultLimit = 1500

// prefixReserve leaves room for the "(i/N)\n" marker so a prefixed chunk
// still fits the limit (covers up to 999 parts).
const prefixReserve = 10

// Split breaks text into ordered chunks of at most limit characters.
//
// Priority: the whole text if it fits, then paragraph boundaries, then line
// boundaries, then fixed-size slices as a last resort. Separators stay
// attached to the preceding unit, so concatenating the de-prefixed chunks
// reproduces the input exactly — nothing is ever dropped or reflowed.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(text) <= limit {
		return []string{text}
	}

	budget := limit - prefixReserve
	if budget <= 0 {
		budget = limit
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}
	add := func(unit string) {
		if cur.Len()+len(unit) > budget {
			flush()
		}
		cur.WriteString(unit)
	}

	for _, para := range strings.SplitAfter(text, "\n\n") {
		if para == "" {
			continue
		}
		if len(para) <= budget {
			add(para)
			continue
		}
		// Paragraph alone exceeds the budget: fall back to lines.
		for _, line := range strings.SplitAfter(para, "\n") {
			if line == "" {
				continue
			}
			if len(line) <= budget {
				add(line)
				continue
			}
			// Single oversized line: hard split, may break mid-word but
			// never mid-rune.
			flush()
			for len(line) > budget {
				cut := budget
				for cut > 0 && !utf8.RuneStart(line[cut]) {
					cut--
				}
				if cut == 0 {
					cut = budget
				}
				chunks = append(chunks, line[:cut])
				line = line[cut:]
			}
			if line != "" {
				cur.WriteString(line)
			}
		}
	}
	flush()

	if len(chunks) <= 1 {
		if len(chunks) == 0 {
			return []string{text}
		}
		return chunks
	}
	total := len(chunks)
	for i, chunk := range chunks {
		chunks[i] = fmt.Sprintf("(%d/%d)\n%s", i+1, total, chunk)
	}
	return chunks
}

// Strip removes the "(i/N)\n" ordering prefix from a chunk, if present.
func Strip(chunk string) string {
	if !strings.HasPrefix(chunk, "(") {
		return chunk
	}
	end := strings.Index(chunk, ")\n")
	if end < 0 {
		return chunk
	}
	marker := chunk[1:end]
	slash := strings.Index(marker, "/")
	if slash <= 0 || slash == len(marker)-1 {
		return chunk
	}
	for _, r := range marker {
		if (r < '0' || r > '9') && r != '/' {
			return chunk
		}
	}
	return chunk[end+2:]
}
