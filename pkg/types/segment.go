package types

// ElementType identifies the kind of document content a segment carries.
// Segments are produced upstream by a partitioner; the chunking engine only
// dispatches on the type, it never re-interprets the text.
type ElementType string

const (
	ElementTitle         ElementType = "title"
	ElementNarrativeText ElementType = "narrative_text"
	ElementListItem      ElementType = "list_item"
	ElementTable         ElementType = "table"
	ElementText          ElementType = "text"
)

// SegmentMetadata carries the per-segment metadata recognized by the engine.
// Pointer fields distinguish "absent" from a legitimate zero value.
type SegmentMetadata struct {
	// PageNumber is the 1-based page the segment was extracted from, if known.
	PageNumber *int
	// SectionID identifies the document section the segment belongs to.
	// A nil SectionID means "same section as the previous segment".
	SectionID *string
	// TableHTML holds the structured representation of a table segment.
	TableHTML string
	// Source names the originating document (path or URI).
	Source string
	// Extra holds partitioner-specific fields (coordinates, languages, ...).
	Extra map[string]any
}

// Segment is one typed unit of document content. Segments are immutable
// inputs: the engine reads them and never mutates them.
type Segment struct {
	Type     ElementType
	Text     string
	Metadata SegmentMetadata
}

// IsTable reports whether the segment carries tabular content.
func (s Segment) IsTable() bool {
	return s.Type == ElementTable
}

// Validate checks that the segment carries a known element type.
func (s Segment) Validate() error {
	switch s.Type {
	case ElementTitle, ElementNarrativeText, ElementListItem, ElementTable, ElementText:
		return nil
	default:
		return ErrUnknownElementType
	}
}
