// Package partitioner converts raw documents into the ordered, typed segment
// stream consumed by the chunking engine.
//
// Markdown is parsed with goldmark: headings become Title segments and open
// a new section, paragraphs become NarrativeText, list items become
// ListItem, and pipe tables become Table segments with a structural HTML
// rendering. Plain text is split on blank lines. PDF content is extracted
// page by page, so every segment carries its page number.
package partitioner
