package chunker

import (
	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// boundaryPolicy decides, per incoming segment, whether a semantic boundary
// forces a new chunk regardless of the remaining size budget. It is consulted
// before every size check and never fires on an empty chunk.
type boundaryPolicy interface {
	shouldStart(a *accumulator, next types.Segment) bool
}

// basicPolicy never forces a boundary; chunk breaks are size-driven only.
type basicPolicy struct{}

func (basicPolicy) shouldStart(*accumulator, types.Segment) bool { return false }

// bySectionPolicy closes chunks at Title segments, section id changes, and
// (optionally) page breaks. All state it needs lives in the accumulator, so
// the policy itself is stateless.
type bySectionPolicy struct{}

func (bySectionPolicy) shouldStart(a *accumulator, next types.Segment) bool {
	if a.empty() {
		return false
	}

	if next.Type == types.ElementTitle {
		// Small-section combining: a Title closes the chunk only once the
		// accumulated text has reached the combine threshold. The decision
		// is deferred to this point, where the current chunk's size is
		// known, instead of eagerly closing on every Title. A threshold of
		// zero disables the suppression entirely.
		return a.textLen >= a.cfg.CombineTextUnderNChars
	}

	// A non-nil section id that differs from the last non-nil id seen in
	// the current chunk starts a new section. A nil id means "same section
	// as before" and never triggers a boundary by itself.
	if sid := next.Metadata.SectionID; sid != nil && a.lastSectionID != nil && *sid != *a.lastSectionID {
		return true
	}

	if !a.cfg.MultipageSections {
		if p := next.Metadata.PageNumber; p != nil && a.lastPage != nil && *p != *a.lastPage {
			return true
		}
	}

	return false
}
