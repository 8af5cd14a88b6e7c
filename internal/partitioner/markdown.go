package partitioner

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// PartitionMarkdown walks the goldmark AST and emits one segment per block:
// headings become Title segments and open a new section, paragraphs become
// NarrativeText, list items become ListItem, and pipe tables become Table
// segments with a structural HTML rendering attached.
func PartitionMarkdown(content []byte, source string) ([]types.Segment, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var (
		segs      []types.Segment
		sectionID *string
		sections  int
	)

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			sections++
			id := fmt.Sprintf("sec-%d", sections)
			sectionID = &id
			segs = append(segs, types.Segment{
				Type: types.ElementTitle,
				Text: inlineText(n, content),
				Metadata: types.SegmentMetadata{
					SectionID: sectionID,
					Source:    source,
					Extra:     map[string]any{"heading_level": n.Level},
				},
			})

		case *ast.Paragraph:
			raw := blockText(n, content)
			if raw == "" {
				continue
			}
			if isPipeTable(raw) {
				segs = append(segs, types.Segment{
					Type: types.ElementTable,
					Text: raw,
					Metadata: types.SegmentMetadata{
						SectionID: sectionID,
						Source:    source,
						TableHTML: pipeTableHTML(raw),
					},
				})
				continue
			}
			segs = append(segs, types.Segment{
				Type:     types.ElementNarrativeText,
				Text:     raw,
				Metadata: types.SegmentMetadata{SectionID: sectionID, Source: source},
			})

		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				itemText := inlineText(item, content)
				if itemText == "" {
					continue
				}
				segs = append(segs, types.Segment{
					Type:     types.ElementListItem,
					Text:     itemText,
					Metadata: types.SegmentMetadata{SectionID: sectionID, Source: source},
				})
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			code := strings.TrimRight(blockText(node, content), "\n")
			if code == "" {
				continue
			}
			segs = append(segs, types.Segment{
				Type:     types.ElementText,
				Text:     code,
				Metadata: types.SegmentMetadata{SectionID: sectionID, Source: source},
			})

		case *ast.Blockquote:
			quote := strings.TrimSpace(inlineText(n, content))
			if quote == "" {
				continue
			}
			segs = append(segs, types.Segment{
				Type:     types.ElementText,
				Text:     quote,
				Metadata: types.SegmentMetadata{SectionID: sectionID, Source: source},
			})
		}
	}

	return segs, nil
}

// inlineText collects the text content of a node and its descendants.
func inlineText(node ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// blockText returns the raw source lines spanned by a block node.
func blockText(node ast.Node, source []byte) string {
	var buf strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimSpace(buf.String())
}

// isPipeTable reports whether a paragraph is a markdown pipe table: at least
// two lines, every one starting with a pipe.
func isPipeTable(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			return false
		}
	}
	return true
}

// pipeTableHTML renders a pipe table into a minimal HTML representation,
// dropping the alignment row.
func pipeTableHTML(table string) string {
	var buf strings.Builder
	buf.WriteString("<table>")
	for _, line := range strings.Split(table, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "|")
		if line == "" || isAlignmentRow(line) {
			continue
		}
		buf.WriteString("<tr>")
		for _, cell := range strings.Split(line, "|") {
			buf.WriteString("<td>")
			buf.WriteString(strings.TrimSpace(cell))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</table>")
	return buf.String()
}

// isAlignmentRow matches the |---|:---:| separator line of a pipe table.
func isAlignmentRow(line string) bool {
	for _, r := range line {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return strings.Contains(line, "-")
}
