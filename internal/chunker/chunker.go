package chunker

import (
	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// Policy names a boundary strategy for configuration surfaces that select
// one by string (MCP parameters, environment config).
type Policy string

const (
	// PolicyBasic packs segments by size alone.
	PolicyBasic Policy = "basic"
	// PolicyBySection additionally breaks chunks at Titles, section id
	// changes, and optionally page breaks.
	PolicyBySection Policy = "by_section"
)

// Chunker converts an ordered segment stream into an ordered sequence of
// size-bounded chunks. A Chunker is immutable after construction and safe
// for concurrent use; each Chunk call runs on its own accumulator.
type Chunker struct {
	cfg    Config
	policy boundaryPolicy
}

// New creates a chunker with the basic policy: chunk boundaries are driven
// by size alone. Configuration errors are reported here, never mid-stream.
func New(opts ...Option) (*Chunker, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg, policy: basicPolicy{}}, nil
}

// NewBySection creates a chunker with the by-section policy: Title segments,
// section id changes, and (optionally) page breaks force chunk boundaries in
// addition to the size budget.
func NewBySection(opts ...Option) (*Chunker, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg, policy: bySectionPolicy{}}, nil
}

// NewWithPolicy creates a chunker for a policy selected by name. Unknown
// names fall back to the basic policy.
func NewWithPolicy(policy Policy, opts ...Option) (*Chunker, error) {
	if policy == PolicyBySection {
		return NewBySection(opts...)
	}
	return New(opts...)
}

// Config returns the resolved configuration.
func (c *Chunker) Config() Config { return c.cfg }

// Chunk performs one linear pass over the segment sequence and returns the
// derived chunks in input order. An empty input yields an empty output; with
// a valid configuration the pass always succeeds.
func (c *Chunker) Chunk(segments []types.Segment) []types.Chunk {
	acc := newAccumulator(c.cfg, c.policy)
	for _, seg := range segments {
		acc.add(seg)
	}
	return acc.finish()
}
