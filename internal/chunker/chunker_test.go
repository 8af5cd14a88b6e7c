package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

func textSeg(text string) types.Segment {
	return types.Segment{Type: types.ElementNarrativeText, Text: text}
}

func titleSeg(text string) types.Segment {
	return types.Segment{Type: types.ElementTitle, Text: text}
}

func tableSeg(text, html string) types.Segment {
	return types.Segment{Type: types.ElementTable, Text: text, Metadata: types.SegmentMetadata{TableHTML: html}}
}

func sectionSeg(text, sectionID string) types.Segment {
	return types.Segment{
		Type:     types.ElementNarrativeText,
		Text:     text,
		Metadata: types.SegmentMetadata{SectionID: &sectionID},
	}
}

func pageSeg(text string, page int) types.Segment {
	return types.Segment{
		Type:     types.ElementNarrativeText,
		Text:     text,
		Metadata: types.SegmentMetadata{PageNumber: &page},
	}
}

func TestChunk_GreedyPacking(t *testing.T) {
	c, err := New(WithMaxCharacters(500))
	require.NoError(t, err)

	segs := []types.Segment{
		textSeg(strings.Repeat("a", 200)),
		textSeg(strings.Repeat("b", 200)),
		textSeg(strings.Repeat("c", 200)),
	}
	chunks := c.Chunk(segs)

	// First two segments fit together; the third would push past the hard
	// max (400 + separator + 200 > 500) so it opens a second chunk.
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Origins, 2)
	assert.Len(t, chunks[1].Origins, 1)
	assert.Equal(t, 401, len(chunks[0].Text))
	assert.Equal(t, 200, len(chunks[1].Text))
}

func TestChunk_OversizedSegmentSplit(t *testing.T) {
	c, err := New(WithMaxCharacters(500), WithOverlap(50))
	require.NoError(t, err)

	src := textSeg(strings.Repeat("x", 1200))
	chunks := c.Chunk([]types.Segment{src})

	require.Len(t, chunks, 3)
	assert.Equal(t, 500, len(chunks[0].Text))
	assert.Equal(t, 500, len(chunks[1].Text))
	assert.Equal(t, 300, len(chunks[2].Text))

	// Consecutive pieces share the configured overlap.
	assert.Equal(t, chunks[0].Text[450:], chunks[1].Text[:50])
	assert.Equal(t, chunks[1].Text[450:], chunks[2].Text[:50])

	// Every piece references the single originating segment.
	for _, chunk := range chunks {
		require.Len(t, chunk.Origins, 1)
		assert.Equal(t, src.Text, chunk.Origins[0].Text)
		assert.Equal(t, types.ChunkComposite, chunk.Kind)
	}
}

func TestChunk_BySectionTitles(t *testing.T) {
	c, err := NewBySection(WithMaxCharacters(1000), WithCombineTextUnderNChars(0))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		titleSeg("Introduction"),
		textSeg(strings.Repeat("a", 300)),
		titleSeg("Details"),
		textSeg(strings.Repeat("b", 300)),
	})

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0].Text, "Introduction"))
	assert.True(t, strings.HasPrefix(chunks[1].Text, "Details"))
}

func TestChunk_SingleTable(t *testing.T) {
	c, err := New(WithMaxCharacters(500))
	require.NoError(t, err)

	table := tableSeg(strings.Repeat("t", 50), "<table><tr><td>t</td></tr></table>")
	chunks := c.Chunk([]types.Segment{table})

	require.Len(t, chunks, 1)
	assert.Equal(t, types.ChunkTable, chunks[0].Kind)
	assert.Equal(t, table.Text, chunks[0].Text)
	assert.Equal(t, table.Metadata.TableHTML, chunks[0].Metadata.TableHTML)
}

func TestChunk_EmptyInput(t *testing.T) {
	c, err := New(WithMaxCharacters(500))
	require.NoError(t, err)

	chunks := c.Chunk(nil)
	require.NotNil(t, chunks)
	assert.Empty(t, chunks)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"zero max characters", []Option{WithMaxCharacters(0)}, ErrMaxCharacters},
		{"negative max characters", []Option{WithMaxCharacters(-10)}, ErrMaxCharacters},
		{"soft max above hard max", []Option{WithMaxCharacters(100), WithNewAfterNChars(200)}, ErrSoftMaxTooLarge},
		{"negative overlap", []Option{WithOverlap(-1)}, ErrNegativeOverlap},
		{"overlap at max", []Option{WithMaxCharacters(100), WithOverlap(100)}, ErrOverlapTooLarge},
		{"negative combine threshold", []Option{WithCombineTextUnderNChars(-5)}, ErrNegativeCombine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			_, err = NewBySection(tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChunk_SoftMaxClosesEarly(t *testing.T) {
	c, err := New(WithMaxCharacters(500), WithNewAfterNChars(150))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		textSeg(strings.Repeat("a", 100)),
		textSeg(strings.Repeat("b", 100)),
		textSeg(strings.Repeat("c", 100)),
	})

	// 100+1+100 = 201 stays under the hard max, so a and b share a chunk;
	// that chunk is past the soft max, so c starts a new one.
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Origins, 2)
	assert.Len(t, chunks[1].Origins, 1)
}

func TestChunk_NewAfterZeroIsolatesSegments(t *testing.T) {
	c, err := New(WithMaxCharacters(500), WithNewAfterNChars(0))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		textSeg("one"),
		textSeg("two"),
		textSeg("three"),
	})

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Len(t, chunk.Origins, 1, "chunk %d", i)
	}
}

func TestChunk_SizeBoundProperty(t *testing.T) {
	policies := map[string]func(...Option) (*Chunker, error){
		"basic":      New,
		"by_section": NewBySection,
	}

	segs := []types.Segment{
		titleSeg("Heading"),
		textSeg(strings.Repeat("a", 90)),
		textSeg(strings.Repeat("b", 250)),
		tableSeg(strings.Repeat("t", 400), "<table/>"),
		textSeg(strings.Repeat("c", 700)),
		textSeg("tail"),
	}

	for name, newChunker := range policies {
		t.Run(name, func(t *testing.T) {
			c, err := newChunker(WithMaxCharacters(120), WithOverlap(20))
			require.NoError(t, err)

			for i, chunk := range c.Chunk(segs) {
				assert.LessOrEqual(t, len(chunk.Text), 120, "chunk %d exceeds hard max", i)
			}
		})
	}
}

func TestChunk_OrderPreservation(t *testing.T) {
	c, err := New(WithMaxCharacters(100))
	require.NoError(t, err)

	segs := []types.Segment{
		textSeg("alpha"),
		textSeg(strings.Repeat("x", 90)),
		tableSeg("cells", "<table/>"),
		textSeg("omega"),
	}
	chunks := c.Chunk(segs)

	// Flattening origins in chunk order reproduces the input order.
	var got []string
	for _, chunk := range chunks {
		prev := ""
		for _, seg := range chunk.Origins {
			if seg.Text != prev {
				got = append(got, seg.Text)
			}
			prev = seg.Text
		}
	}
	want := make([]string, 0, len(segs))
	for _, seg := range segs {
		want = append(want, seg.Text)
	}
	assert.Equal(t, want, got)
}

func TestChunk_Idempotence(t *testing.T) {
	c, err := New(WithMaxCharacters(300))
	require.NoError(t, err)

	first := c.Chunk([]types.Segment{
		textSeg(strings.Repeat("a", 120)),
		textSeg(strings.Repeat("b", 120)),
		textSeg(strings.Repeat("c", 120)),
		textSeg(strings.Repeat("d", 40)),
	})

	// Re-chunking the produced chunk texts with the same budget yields the
	// same groupings.
	resegmented := make([]types.Segment, 0, len(first))
	for _, chunk := range first {
		resegmented = append(resegmented, textSeg(chunk.Text))
	}
	second := c.Chunk(resegmented)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestChunk_EmptyTextSegments(t *testing.T) {
	c, err := New(WithMaxCharacters(100))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		textSeg(""),
		textSeg(strings.Repeat("a", 80)),
		textSeg(""),
	})

	// Empty segments contribute zero length and no separators.
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Repeat("a", 80), chunks[0].Text)
	assert.Len(t, chunks[0].Origins, 3)
}

func TestChunk_IncludeOrigSegmentsDisabled(t *testing.T) {
	c, err := New(WithMaxCharacters(100), WithIncludeOrigSegments(false))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{textSeg("hello"), textSeg("world")})
	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Origins)
}

func TestChunk_CustomSeparator(t *testing.T) {
	c, err := New(WithMaxCharacters(100), WithSeparator(" "))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{textSeg("hello"), textSeg("world")})
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
}

func TestChunk_OverlapAllBetweenChunks(t *testing.T) {
	c, err := New(WithMaxCharacters(120), WithOverlap(10), WithOverlapAll(true))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		textSeg(strings.Repeat("a", 100)),
		textSeg(strings.Repeat("b", 100)),
	})

	require.Len(t, chunks, 2)
	// The second chunk opens with trailing context of the first, inside its
	// own budget.
	assert.True(t, strings.HasPrefix(chunks[1].Text, strings.Repeat("a", 10)))
	assert.LessOrEqual(t, len(chunks[1].Text), 120)
}

func TestChunk_OverlapAllDisabledByDefault(t *testing.T) {
	c, err := New(WithMaxCharacters(120), WithOverlap(10))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		textSeg(strings.Repeat("a", 100)),
		textSeg(strings.Repeat("b", 100)),
	})

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("b", 100), chunks[1].Text)
}

func TestChunk_MetadataMerge(t *testing.T) {
	sectionA := "sec-a"
	pageOne, pageTwo := 1, 2

	c, err := New(WithMaxCharacters(500))
	require.NoError(t, err)

	chunks := c.Chunk([]types.Segment{
		{
			Type: types.ElementNarrativeText,
			Text: "first",
			Metadata: types.SegmentMetadata{
				PageNumber: &pageOne,
				SectionID:  &sectionA,
				Source:     "doc.md",
				Extra:      map[string]any{"lang": "en"},
			},
		},
		{
			Type: types.ElementNarrativeText,
			Text: "second",
			Metadata: types.SegmentMetadata{
				PageNumber: &pageTwo,
				Source:     "other.md",
				Extra:      map[string]any{"lang": "de", "author": "m"},
			},
		},
	})

	require.Len(t, chunks, 1)
	md := chunks[0].Metadata
	assert.Equal(t, []int{1, 2}, md.PageNumbers)
	require.NotNil(t, md.SectionID)
	assert.Equal(t, "sec-a", *md.SectionID)
	// First-seen non-null value wins per field.
	assert.Equal(t, "doc.md", md.Source)
	assert.Equal(t, "en", md.Extra["lang"])
	assert.Equal(t, "m", md.Extra["author"])
}
