package partitioner

import (
	"strings"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// PartitionText splits plain text on blank lines and emits one NarrativeText
// segment per paragraph. Content without blank lines becomes one segment.
func PartitionText(content []byte, source string) []types.Segment {
	var segs []types.Segment
	for _, para := range splitParagraphs(string(content)) {
		segs = append(segs, types.Segment{
			Type:     types.ElementNarrativeText,
			Text:     para,
			Metadata: types.SegmentMetadata{Source: source},
		})
	}
	return segs
}

// splitParagraphs divides text on blank lines, trimming each paragraph and
// dropping empty ones.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	for _, part := range strings.Split(normalized, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			paras = append(paras, part)
		}
	}
	return paras
}
