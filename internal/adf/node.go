// Package adf builds Atlassian Document Format trees, the rich-text body
// format Jira requires for comments and descriptions.
package adf

import "strings"

// NodeType identifies a node variant. The set is closed: Jira rejects
// documents containing anything else.
type NodeType string

const (
	// TypeDoc is the implicit document root
	TypeDoc NodeType = "doc"
	// TypeParagraph is a block of inline content
	TypeParagraph NodeType = "paragraph"
	// TypeHeading is a block heading with a level attribute
	TypeHeading NodeType = "heading"
	// TypeBulletList is an unordered list of list items
	TypeBulletList NodeType = "bulletList"
	// TypeListItem wraps block content inside a list
	TypeListItem NodeType = "listItem"
	// TypeText is an inline text leaf, optionally marked
	TypeText NodeType = "text"
	// TypeMention is an inline user mention
	TypeMention NodeType = "mention"
)

// MarkStrong is the only mark the converter emits.
const MarkStrong = "strong"

// Mark decorates a text node.
type Mark struct {
	Type string `json:"type"`
}

// Attrs carries the per-type node attributes.
type Attrs struct {
	Level int    `json:"level,omitempty"` // heading
	ID    string `json:"id,omitempty"`   // mention account id
	Text  string `json:"text,omitempty"` // mention display text
}

// Node is a single ADF node. Block constructors below keep the invariant
// that paragraphs, headings and lists never have an empty content array.
type Node struct {
	Type    NodeType `json:"type"`
	Version int      `json:"version,omitempty"` // 1 on the doc root only
	Attrs   *Attrs   `json:"attrs,omitempty"`
	Content []*Node  `json:"content,omitempty"`
	Text    string   `json:"text,omitempty"`
	Marks   []Mark   `json:"marks,omitempty"`
}

// Doc returns a document root holding the given blocks.
func Doc(blocks ...*Node) *Node {
	return &Node{Type: TypeDoc, Version: 1, Content: blocks}
}

// Paragraph returns a paragraph of inline spans.
func Paragraph(spans ...*Node) *Node {
	return &Node{Type: TypeParagraph, Content: spans}
}

// Heading returns a heading at the given level.
func Heading(level int, spans ...*Node) *Node {
	return &Node{Type: TypeHeading, Attrs: &Attrs{Level: level}, Content: spans}
}

// BulletList returns an unordered list of items.
func BulletList(items ...*Node) *Node {
	return &Node{Type: TypeBulletList, Content: items}
}

// ListItem wraps block children inside a list.
func ListItem(children ...*Node) *Node {
	return &Node{Type: TypeListItem, Content: children}
}

// Text returns a plain text span.
func Text(s string) *Node {
	return &Node{Type: TypeText, Text: s}
}

// StrongText returns a text span with the strong mark.
func StrongText(s string) *Node {
	return &Node{Type: TypeText, Text: s, Marks: []Mark{{Type: MarkStrong}}}
}

// Mention returns an inline mention of the given account id.
func Mention(accountID, display string) *Node {
	return &Node{Type: TypeMention, Attrs: &Attrs{ID: accountID, Text: display}}
}

// PlainText flattens the tree's text leaves, one line per top-level block.
// Used to hand ticket descriptions fetched as ADF to the text generators.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Type == TypeText {
		return n.Text
	}

	var parts []string
	for _, child := range n.Content {
		if s := child.PlainText(); s != "" {
			parts = append(parts, s)
		}
	}

	sep := ""
	if n.Type == TypeDoc || n.Type == TypeBulletList {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

// Empty reports whether the document carries no usable content. Used as the
// validity gate before posting a comment body.
func (n *Node) Empty() bool {
	if n == nil {
		return true
	}
	if n.Type == TypeText {
		return n.Text == ""
	}
	if n.Type == TypeMention {
		return false
	}
	for _, child := range n.Content {
		if !child.Empty() {
			return false
		}
	}
	return true
}
