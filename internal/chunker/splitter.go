package chunker

import "strings"

// splitChars are the characters a split point may follow.
const splitChars = " \t\n\r\f\v"

// splitText divides text exceeding the hard budget into ordered pieces of at
// most maxChars characters, covering the input with no gaps and no lost
// characters. Every piece after the first is prefixed with the last overlap
// characters of the preceding piece; the prefix counts against that piece's
// own budget, never outside it. The final piece may be shorter than maxChars.
func splitText(text string, maxChars, overlap int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	var pieces []string
	prefix := ""
	pos := 0
	for {
		budget := maxChars - len(prefix)
		if len(text)-pos <= budget {
			pieces = append(pieces, prefix+text[pos:])
			return pieces
		}

		cut := pos + budget
		if ws := lastSplitPoint(text[pos:cut]); ws > 0 {
			cut = pos + ws
		}

		piece := prefix + text[pos:cut]
		pieces = append(pieces, piece)

		if overlap > 0 {
			tail := overlap
			if tail > len(piece) {
				tail = len(piece)
			}
			prefix = piece[len(piece)-tail:]
		}
		pos = cut
	}
}

// lastSplitPoint returns the index just past the rightmost whitespace in the
// window, or 0 when no whitespace lies within the lookback region (the back
// half of the window). Callers cut at the exact budget position in that case.
func lastSplitPoint(window string) int {
	ws := strings.LastIndexAny(window, splitChars)
	if ws < len(window)/2 {
		return 0
	}
	return ws + 1
}
