// Package types defines the shared data model of docchunk: typed document
// segments as produced by a partitioner, and the size-bounded chunks the
// chunking engine derives from them.
//
// # Segments
//
// A Segment is an immutable, typed unit of document content (a title, a
// paragraph, a list item, a table). Segments carry metadata such as the page
// number and section they came from; the engine reads these but never writes
// them.
//
// # Chunks
//
// A Chunk groups one or more segments (or one piece of a single oversized
// segment) under a hard character budget. Composite chunks hold ordinary
// text; table chunks hold content from exactly one table segment.
package types
