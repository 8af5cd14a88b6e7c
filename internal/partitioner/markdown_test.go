package partitioner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

func TestPartitionMarkdown_HeadingsAndParagraphs(t *testing.T) {
	content := []byte(`# Introduction

Opening paragraph with some text.

## Background

More context here.
`)

	segs, err := PartitionMarkdown(content, "doc.md")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, types.ElementTitle, segs[0].Type)
	assert.Equal(t, "Introduction", segs[0].Text)
	require.NotNil(t, segs[0].Metadata.SectionID)

	assert.Equal(t, types.ElementNarrativeText, segs[1].Type)
	assert.Equal(t, "Opening paragraph with some text.", segs[1].Text)
	// Body segments share the section opened by the preceding heading.
	assert.Equal(t, *segs[0].Metadata.SectionID, *segs[1].Metadata.SectionID)

	assert.Equal(t, types.ElementTitle, segs[2].Type)
	assert.NotEqual(t, *segs[0].Metadata.SectionID, *segs[2].Metadata.SectionID)
	assert.Equal(t, *segs[2].Metadata.SectionID, *segs[3].Metadata.SectionID)
}

func TestPartitionMarkdown_ListItems(t *testing.T) {
	content := []byte(`# Shopping

- apples
- bread
- coffee
`)

	segs, err := PartitionMarkdown(content, "list.md")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	for _, seg := range segs[1:] {
		assert.Equal(t, types.ElementListItem, seg.Type)
	}
	assert.Equal(t, "apples", segs[1].Text)
	assert.Equal(t, "coffee", segs[3].Text)
}

func TestPartitionMarkdown_PipeTable(t *testing.T) {
	content := []byte(`# Data

| Name | Value |
| ---- | ----- |
| a    | 1     |
| b    | 2     |
`)

	segs, err := PartitionMarkdown(content, "table.md")
	require.NoError(t, err)
	require.Len(t, segs, 2)

	table := segs[1]
	assert.Equal(t, types.ElementTable, table.Type)
	assert.Contains(t, table.Text, "| Name | Value |")
	assert.Contains(t, table.Metadata.TableHTML, "<table>")
	assert.Contains(t, table.Metadata.TableHTML, "<td>Name</td>")
	assert.Contains(t, table.Metadata.TableHTML, "<td>2</td>")
	// The alignment row is dropped from the structural rendering.
	assert.NotContains(t, table.Metadata.TableHTML, "----")
}

func TestPartitionMarkdown_CodeBlock(t *testing.T) {
	content := []byte("# Example\n\n```\nfunc main() {}\n```\n")

	segs, err := PartitionMarkdown(content, "code.md")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, types.ElementText, segs[1].Type)
	assert.Equal(t, "func main() {}", segs[1].Text)
}

func TestPartitionMarkdown_Empty(t *testing.T) {
	segs, err := PartitionMarkdown(nil, "empty.md")
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestPartitionMarkdown_SourceRecorded(t *testing.T) {
	segs, err := PartitionMarkdown([]byte("# T\n\nbody\n"), "notes/readme.md")
	require.NoError(t, err)
	for _, seg := range segs {
		assert.Equal(t, "notes/readme.md", seg.Metadata.Source)
	}
}

func TestIsPipeTable(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"two row table", "| a | b |\n| 1 | 2 |", true},
		{"single line", "| a | b |", false},
		{"plain paragraph", "just some text\nacross two lines", false},
		{"mixed lines", "| a | b |\nnot a table row", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPipeTable(tt.text))
		})
	}
}
