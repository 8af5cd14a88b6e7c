package partitioner

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// PartitionPDF extracts plain text page by page and emits one NarrativeText
// segment per non-empty page, carrying the 1-based page number. Pages whose
// text cannot be decoded are skipped rather than failing the document.
func PartitionPDF(content []byte, source string) ([]types.Segment, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("partitioner: open pdf %s: %w", source, err)
	}

	var segs []types.Segment
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pageNum := i
		segs = append(segs, types.Segment{
			Type: types.ElementNarrativeText,
			Text: text,
			Metadata: types.SegmentMetadata{
				PageNumber: &pageNum,
				Source:     source,
			},
		})
	}
	return segs, nil
}
