package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

func TestSplitText_ShortTextUnsplit(t *testing.T) {
	pieces := splitText("short", 100, 10)
	require.Len(t, pieces, 1)
	assert.Equal(t, "short", pieces[0])
}

func TestSplitText_ExactCutsWithoutWhitespace(t *testing.T) {
	pieces := splitText(strings.Repeat("x", 1200), 500, 50)

	require.Len(t, pieces, 3)
	assert.Equal(t, 500, len(pieces[0]))
	assert.Equal(t, 500, len(pieces[1]))
	assert.Equal(t, 300, len(pieces[2]))
}

func TestSplitText_OverlapPrefixes(t *testing.T) {
	// Distinct characters make the overlap verifiable position by position.
	var b strings.Builder
	for i := 0; i < 1200; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	pieces := splitText(b.String(), 500, 50)

	require.Greater(t, len(pieces), 1)
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1]
		assert.Equal(t, prev[len(prev)-50:], pieces[i][:50], "piece %d prefix", i)
	}
}

func TestSplitText_NoOverlap(t *testing.T) {
	text := strings.Repeat("y", 250)
	pieces := splitText(text, 100, 0)

	require.Len(t, pieces, 3)
	assert.Equal(t, text, strings.Join(pieces, ""))
}

func TestSplitText_PrefersWhitespaceBoundary(t *testing.T) {
	// A space near the end of the window becomes the split point.
	text := strings.Repeat("a", 90) + " " + strings.Repeat("b", 100)
	pieces := splitText(text, 100, 0)

	require.Greater(t, len(pieces), 1)
	assert.Equal(t, strings.Repeat("a", 90)+" ", pieces[0])
	assert.True(t, strings.HasPrefix(pieces[1], "b"))
}

func TestSplitText_WhitespaceOutsideLookbackIgnored(t *testing.T) {
	// The only space sits in the front half of the window, so the cut is
	// made at the exact budget position instead.
	text := "ab cd" + strings.Repeat("e", 200)
	pieces := splitText(text, 100, 0)

	require.Greater(t, len(pieces), 1)
	assert.Equal(t, 100, len(pieces[0]))
}

func TestSplitText_NoCharacterLoss(t *testing.T) {
	texts := []string{
		strings.Repeat("z", 777),
		"the quick brown fox " + strings.Repeat("jumps over the lazy dog ", 40),
	}
	for _, text := range texts {
		for _, overlap := range []int{0, 7, 25} {
			pieces := splitText(text, 100, overlap)

			// Stripping each piece's overlap prefix and concatenating the
			// remainder reproduces the original text.
			var rebuilt strings.Builder
			rebuilt.WriteString(pieces[0])
			for i := 1; i < len(pieces); i++ {
				prev := pieces[i-1]
				n := overlap
				if n > len(prev) {
					n = len(prev)
				}
				require.Equal(t, prev[len(prev)-n:], pieces[i][:n])
				rebuilt.WriteString(pieces[i][n:])
			}
			assert.Equal(t, text, rebuilt.String())
		}
	}
}

func TestSplitText_PieceBudgetIncludesOverlap(t *testing.T) {
	for _, overlap := range []int{0, 10, 49} {
		pieces := splitText(strings.Repeat("w", 1000), 50, overlap)
		for i, piece := range pieces {
			assert.LessOrEqual(t, len(piece), 50, "overlap %d piece %d", overlap, i)
		}
	}
}

func TestChunk_OversizedTableSplitsIntoTableChunks(t *testing.T) {
	c, err := New(WithMaxCharacters(100), WithOverlap(10))
	require.NoError(t, err)

	html := "<table><tr><td>wide</td></tr></table>"
	table := tableSeg(strings.Repeat("r", 250), html)
	chunks := c.Chunk([]types.Segment{
		textSeg("before"),
		table,
		textSeg("after"),
	})

	require.GreaterOrEqual(t, len(chunks), 4)
	var tablePieces int
	for _, chunk := range chunks {
		if chunk.Kind != types.ChunkTable {
			continue
		}
		tablePieces++
		// The structural representation is replicated on every piece, and
		// each piece references only the originating table segment.
		assert.Equal(t, html, chunk.Metadata.TableHTML)
		require.Len(t, chunk.Origins, 1)
		assert.Equal(t, types.ElementTable, chunk.Origins[0].Type)
	}
	assert.GreaterOrEqual(t, tablePieces, 3)

	// Neighboring text never merges into a table chunk.
	assert.Equal(t, "before", chunks[0].Text)
	assert.Equal(t, "after", chunks[len(chunks)-1].Text)
}
