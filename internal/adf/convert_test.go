package adf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectText walks the tree and gathers every text leaf in document order.
func collectText(n *Node, out *[]string) {
	if n.Type == TypeText {
		*out = append(*out, n.Text)
		return
	}
	for _, child := range n.Content {
		collectText(child, out)
	}
}

func TestConvertHeadingListParagraph(t *testing.T) {
	doc := Convert("## Summary\n- a\n- b\n\nDone")

	require.Equal(t, TypeDoc, doc.Type)
	require.Len(t, doc.Content, 3)

	heading := doc.Content[0]
	assert.Equal(t, TypeHeading, heading.Type)
	assert.Equal(t, headingLevel, heading.Attrs.Level)
	require.Len(t, heading.Content, 1)
	assert.Equal(t, "Summary", heading.Content[0].Text)

	list := doc.Content[1]
	assert.Equal(t, TypeBulletList, list.Type)
	require.Len(t, list.Content, 2)
	for i, want := range []string{"a", "b"} {
		item := list.Content[i]
		require.Equal(t, TypeListItem, item.Type)
		require.Len(t, item.Content, 1)
		para := item.Content[0]
		require.Equal(t, TypeParagraph, para.Type)
		assert.Equal(t, want, para.Content[0].Text)
	}

	done := doc.Content[2]
	assert.Equal(t, TypeParagraph, done.Type)
	assert.Equal(t, "Done", done.Content[0].Text)
}

func TestConvertNumberedItemsDemotedToBulletParagraphs(t *testing.T) {
	doc := Convert("1. first step\n2. second step")

	require.Len(t, doc.Content, 2)
	for i, want := range []string{"• first step", "• second step"} {
		para := doc.Content[i]
		require.Equal(t, TypeParagraph, para.Type)
		assert.Equal(t, want, para.Content[0].Text)
	}
}

func TestConvertNumberedItemClosesOpenList(t *testing.T) {
	doc := Convert("- bullet\n1. numbered")

	require.Len(t, doc.Content, 2)
	assert.Equal(t, TypeBulletList, doc.Content[0].Type)
	assert.Equal(t, TypeParagraph, doc.Content[1].Type)
}

func TestConvertFlushesOpenListAtEndOfInput(t *testing.T) {
	doc := Convert("- only item")

	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	require.Equal(t, TypeBulletList, list.Type)
	require.Len(t, list.Content, 1)
}

// No dangling open list for any shape of input: the last block is always a
// fully assembled node.
func TestConvertNeverLeavesDanglingList(t *testing.T) {
	inputs := []string{
		"- a\n- b",
		"- a\n\n- b",
		"text\n- a",
		"- a\n## H",
		"- a\n- b\n",
		"\n\n- tail",
	}

	for _, input := range inputs {
		doc := Convert(input)
		for _, block := range doc.Content {
			if block.Type == TypeBulletList {
				require.NotEmpty(t, block.Content, "input %q produced an empty list", input)
				for _, item := range block.Content {
					require.Equal(t, TypeListItem, item.Type)
				}
			}
		}
	}
}

// Every non-blank input line surfaces as exactly one text leaf somewhere in
// the output tree.
func TestConvertPreservesEveryLine(t *testing.T) {
	input := "Hey team, just finished the auth fix.\n\n## What changed\n- token refresh every 5 minutes\n- background keepalive\n\n1. log in\n2. leave idle\n\nLet me know if you see issues!"

	doc := Convert(input)

	var texts []string
	collectText(doc, &texts)

	var nonBlank int
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}

	assert.Len(t, texts, nonBlank)
	assert.Contains(t, texts, "token refresh every 5 minutes")
	assert.Contains(t, texts, "• log in")
}

func TestConvertInlineEmphasis(t *testing.T) {
	doc := Convert("this is **important** stuff")

	require.Len(t, doc.Content, 1)
	spans := doc.Content[0].Content
	require.Len(t, spans, 3)

	assert.Equal(t, "this is ", spans[0].Text)
	assert.Empty(t, spans[0].Marks)

	assert.Equal(t, "important", spans[1].Text)
	require.Len(t, spans[1].Marks, 1)
	assert.Equal(t, MarkStrong, spans[1].Marks[0].Type)

	assert.Equal(t, " stuff", spans[2].Text)
}

func TestConvertInlineSanitization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"link reduced to label", "see [the docs](https://example.com) here", "see the docs here"},
		{"unbalanced strong stripped", "broken **emphasis here", "broken emphasis here"},
		{"stray asterisks stripped", "starred *once* text", "starred once text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Convert(tt.input)
			require.Len(t, doc.Content, 1)

			var texts []string
			collectText(doc, &texts)
			assert.Equal(t, tt.want, strings.Join(texts, ""))
		})
	}
}

func TestConvertBlankLinesOnlyYieldEmptyDoc(t *testing.T) {
	doc := Convert("\n\n\n")
	assert.Empty(t, doc.Content)
	assert.True(t, doc.Empty())
}

func TestNodePlainText(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil node", nil, ""},
		{"empty doc", Doc(), ""},
		{"single paragraph", Doc(Paragraph(Text("Tokens expire early."))), "Tokens expire early."},
		{
			"blocks joined with newlines",
			Doc(Heading(3, Text("Summary")), Paragraph(Text("body"))),
			"Summary\nbody",
		},
		{
			"inline spans concatenated",
			Doc(Paragraph(Text("this is "), StrongText("important"), Text(" stuff"))),
			"this is important stuff",
		},
		{
			"list items flattened",
			Doc(BulletList(ListItem(Paragraph(Text("a"))), ListItem(Paragraph(Text("b"))))),
			"a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.PlainText())
		})
	}
}

func TestNodeEmpty(t *testing.T) {
	assert.True(t, (*Node)(nil).Empty())
	assert.True(t, Doc().Empty())
	assert.True(t, Doc(Paragraph(Text(""))).Empty())
	assert.False(t, Doc(Paragraph(Text("hello"))).Empty())
	assert.False(t, Doc(Paragraph(Mention("abc-123", "@dev"))).Empty())
}

func TestDocJSONShape(t *testing.T) {
	doc := Doc(Heading(3, Text("Summary")), Paragraph(Text("body")))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	js := string(data)
	assert.Contains(t, js, `"type":"doc"`)
	assert.Contains(t, js, `"version":1`)
	assert.Contains(t, js, `"attrs":{"level":3}`)
	assert.NotContains(t, js, `"marks"`)
}
