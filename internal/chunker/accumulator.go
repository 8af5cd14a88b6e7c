package chunker

import (
	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// closeReason records why a chunk was closed. Overlap between ordinary
// chunks (OverlapAll) is carried only across size-driven closes; semantic
// boundaries and table isolation never leak trailing context.
type closeReason int

const (
	closeSize closeReason = iota
	closeSemantic
	closeFinal
)

// accumulator is the single-pass state of one chunking run. It is created
// per invocation and discarded afterwards; the engine holds no state between
// runs.
type accumulator struct {
	cfg    Config
	policy boundaryPolicy

	// Current open chunk.
	segs    []types.Segment
	textLen int    // length of the chunk text built so far, separators included
	prefix  string // overlap carried in from the previous chunk, already counted in textLen

	// Boundary-policy state for the current chunk.
	lastSectionID *string // last non-nil section id among appended segments
	lastPage      *int    // last known page number among appended segments

	// Overlap context from the previously emitted chunk.
	tail         string
	tailEligible bool

	chunks []types.Chunk
}

func newAccumulator(cfg Config, policy boundaryPolicy) *accumulator {
	return &accumulator{cfg: cfg, policy: policy}
}

func (a *accumulator) empty() bool { return len(a.segs) == 0 }

// add routes one incoming segment: table isolation first, then oversized
// splitting, then the boundary policy, then the size checks.
func (a *accumulator) add(seg types.Segment) {
	if seg.IsTable() {
		a.closeChunk(closeSemantic)
		a.emitTable(seg)
		return
	}

	if len(seg.Text) > a.cfg.MaxCharacters {
		a.closeChunk(closeSize)
		a.emitOversized(seg)
		return
	}

	if a.policy.shouldStart(a, seg) {
		a.closeChunk(closeSemantic)
	} else if !a.empty() && seg.Text != "" {
		projected := a.textLen + len(a.cfg.Separator) + len(seg.Text)
		if projected > a.cfg.MaxCharacters {
			a.closeChunk(closeSize)
		} else if a.textLen >= a.cfg.NewAfterNChars {
			a.closeChunk(closeSize)
		}
	}

	a.append(seg)
}

// append adds the segment to the open chunk, seeding an overlap prefix when
// a fresh chunk follows a size-driven close.
func (a *accumulator) append(seg types.Segment) {
	if a.empty() {
		a.seedOverlap(seg)
	}

	if seg.Text != "" {
		if a.textLen > 0 {
			a.textLen += len(a.cfg.Separator)
		}
		a.textLen += len(seg.Text)
	}
	a.segs = append(a.segs, seg)

	if seg.Metadata.SectionID != nil {
		a.lastSectionID = seg.Metadata.SectionID
	}
	if seg.Metadata.PageNumber != nil {
		a.lastPage = seg.Metadata.PageNumber
	}
}

// seedOverlap installs trailing context from the previous chunk at the head
// of a new one. The prefix is part of the chunk's character budget, so it is
// trimmed to whatever room the first segment leaves.
func (a *accumulator) seedOverlap(first types.Segment) {
	if !a.cfg.OverlapAll || a.cfg.Overlap <= 0 || !a.tailEligible || a.tail == "" {
		return
	}

	room := a.cfg.MaxCharacters - len(first.Text)
	if first.Text != "" {
		room -= len(a.cfg.Separator)
	}
	if room <= 0 {
		return
	}

	prefix := a.tail
	if len(prefix) > room {
		prefix = prefix[len(prefix)-room:]
	}
	a.prefix = prefix
	a.textLen = len(prefix)
	a.tail = ""
}

// closeChunk finalizes the open chunk, if any, and records overlap context
// for the next one.
func (a *accumulator) closeChunk(reason closeReason) {
	if a.empty() {
		return
	}

	chunk := buildChunk(a.cfg, a.segs, a.prefix)
	a.chunks = append(a.chunks, chunk)

	a.tail = ""
	a.tailEligible = false
	if a.cfg.OverlapAll && a.cfg.Overlap > 0 && reason == closeSize {
		a.tail = lastChars(chunk.Text, a.cfg.Overlap)
		a.tailEligible = true
	}

	a.segs = nil
	a.textLen = 0
	a.prefix = ""
	a.lastSectionID = nil
	a.lastPage = nil
}

// emitTable turns one table segment into one or more TableChunk records.
// Tables are never merged with other segments and never exchange overlap
// context with neighboring chunks.
func (a *accumulator) emitTable(seg types.Segment) {
	for _, text := range splitText(seg.Text, a.cfg.MaxCharacters, a.cfg.Overlap) {
		a.chunks = append(a.chunks, buildPiece(a.cfg, seg, text))
	}
	a.tail = ""
	a.tailEligible = false
}

// emitOversized splits a single non-table segment whose text exceeds the
// hard budget, emitting one chunk per piece. Every piece references the one
// originating segment.
func (a *accumulator) emitOversized(seg types.Segment) {
	pieces := splitText(seg.Text, a.cfg.MaxCharacters, a.cfg.Overlap)
	for _, text := range pieces {
		a.chunks = append(a.chunks, buildPiece(a.cfg, seg, text))
	}

	a.tail = ""
	a.tailEligible = false
	if a.cfg.OverlapAll && a.cfg.Overlap > 0 && len(pieces) > 0 {
		a.tail = lastChars(pieces[len(pieces)-1], a.cfg.Overlap)
		a.tailEligible = true
	}
}

// finish closes any still-open chunk and returns the completed sequence.
func (a *accumulator) finish() []types.Chunk {
	a.closeChunk(closeFinal)
	if a.chunks == nil {
		return []types.Chunk{}
	}
	return a.chunks
}

// lastChars returns the trailing n characters of s.
func lastChars(s string, n int) string {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
