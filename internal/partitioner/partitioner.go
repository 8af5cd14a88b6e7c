package partitioner

import (
	"path/filepath"
	"strings"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// Partition converts raw document content into an ordered segment stream,
// dispatching on the source file extension. Unrecognized extensions are
// treated as plain text.
func Partition(content []byte, source string) ([]types.Segment, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".md", ".markdown":
		return PartitionMarkdown(content, source)
	case ".pdf":
		return PartitionPDF(content, source)
	default:
		return PartitionText(content, source), nil
	}
}

// Supported reports whether the file extension maps to a partitioner.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", ".text", ".pdf":
		return true
	default:
		return false
	}
}
