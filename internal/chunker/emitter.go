package chunker

import (
	"strings"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// buildChunk finalizes an ordered, non-empty group of accumulated segments
// into a chunk record. An overlap prefix, when present, leads the text and
// has already been charged against the chunk's budget by the accumulator.
func buildChunk(cfg Config, segs []types.Segment, prefix string) types.Chunk {
	texts := make([]string, 0, len(segs)+1)
	if prefix != "" {
		texts = append(texts, prefix)
	}
	kind := types.ChunkComposite
	for _, s := range segs {
		if s.Text != "" {
			texts = append(texts, s.Text)
		}
		if s.IsTable() {
			kind = types.ChunkTable
		}
	}

	chunk := types.Chunk{
		Kind:     kind,
		Text:     strings.Join(texts, cfg.Separator),
		Metadata: mergeMetadata(segs),
	}
	if cfg.IncludeOrigSegments {
		chunk.Origins = append([]types.Segment(nil), segs...)
	}
	return chunk
}

// buildPiece finalizes one split piece of a single oversized segment. Every
// piece carries the full metadata of its originating segment, including the
// structural table representation when the source is a table.
func buildPiece(cfg Config, seg types.Segment, text string) types.Chunk {
	kind := types.ChunkComposite
	if seg.IsTable() {
		kind = types.ChunkTable
	}

	chunk := types.Chunk{
		Kind:     kind,
		Text:     text,
		Metadata: mergeMetadata([]types.Segment{seg}),
	}
	if cfg.IncludeOrigSegments {
		chunk.Origins = []types.Segment{seg}
	}
	return chunk
}

// mergeMetadata aggregates segment metadata: the first non-null value wins
// per scalar field, while page numbers are retained as an ordered set.
func mergeMetadata(segs []types.Segment) types.ChunkMetadata {
	var md types.ChunkMetadata
	var seenPages map[int]struct{}

	for i := range segs {
		m := &segs[i].Metadata

		if m.PageNumber != nil {
			if seenPages == nil {
				seenPages = make(map[int]struct{})
			}
			if _, ok := seenPages[*m.PageNumber]; !ok {
				seenPages[*m.PageNumber] = struct{}{}
				md.PageNumbers = append(md.PageNumbers, *m.PageNumber)
			}
		}
		if md.SectionID == nil && m.SectionID != nil {
			md.SectionID = m.SectionID
		}
		if md.TableHTML == "" && m.TableHTML != "" {
			md.TableHTML = m.TableHTML
		}
		if md.Source == "" && m.Source != "" {
			md.Source = m.Source
		}
		for k, v := range m.Extra {
			if md.Extra == nil {
				md.Extra = make(map[string]any)
			}
			if _, ok := md.Extra[k]; !ok {
				md.Extra[k] = v
			}
		}
	}
	return md
}
