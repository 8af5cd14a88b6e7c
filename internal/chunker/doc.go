// Package chunker converts an ordered sequence of typed document segments
// into size-bounded, semantically coherent chunks suitable for indexing and
// retrieval.
//
// The engine is a pure, single-pass transform: it reads segments left to
// right, packs them greedily under a hard character budget, and emits chunks
// in input order. It holds no state between invocations, so independent
// documents can be chunked in parallel by the caller.
//
// # Basic Usage
//
//	c, err := chunker.New(chunker.WithMaxCharacters(500))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks := c.Chunk(segments)
//	for _, chunk := range chunks {
//	    fmt.Printf("%s chunk: %d chars, %d segments\n",
//	        chunk.Kind, len(chunk.Text), len(chunk.Origins))
//	}
//
// # Policies
//
// Two boundary policies are available:
//   - Basic (New): chunk breaks are size-driven only.
//   - By-section (NewBySection): Title segments, section id changes, and
//     optionally page breaks force a new chunk even when more content would
//     still fit. Small sections are combined until the configured threshold
//     to avoid fragmentation.
//
// # Size Bounds
//
// MaxCharacters is a hard ceiling: no produced chunk text exceeds it.
// NewAfterNChars is a soft bound: a chunk at or over it is closed before the
// next segment is added. A single segment longer than the hard ceiling is
// split deterministically into pieces, optionally overlapping; the overlap
// prefix counts toward each piece's own budget.
//
// # Tables
//
// A table segment is never merged with any other segment. It becomes a
// single TableChunk, or several TableChunk pieces when its text exceeds the
// hard budget; each piece carries the table's structural metadata.
package chunker
