package adf

// headingLevel is the fixed nesting level for every converted heading.
const headingLevel = 3

// bulletGlyph prefixes demoted numbered-list lines. Ordered lists are
// intentionally not modeled natively: the original pipeline flattened them to
// bullet-prefixed paragraphs and consumers depend on that shape.
const bulletGlyph = "• "

// parserState tracks whether a bullet list is currently open.
type parserState int

const (
	stateIdle parserState = iota
	stateInBulletList
)

// Convert turns loosely structured generator output into an ADF document.
// It makes a single forward pass over the lexed lines; every non-blank line
// contributes exactly one block or list item, in input order.
func Convert(text string) *Node {
	doc := Doc()

	state := stateIdle
	var items []*Node

	flush := func() {
		if state == stateInBulletList {
			doc.Content = append(doc.Content, BulletList(items...))
			items = nil
			state = stateIdle
		}
	}

	for _, tok := range lex(text) {
		switch tok.kind {
		case tokenBlank:
			flush()
		case tokenHeading:
			flush()
			doc.Content = append(doc.Content, Heading(headingLevel, parseInline(tok.text)...))
		case tokenBulletItem:
			items = append(items, ListItem(Paragraph(parseInline(tok.text)...)))
			state = stateInBulletList
		case tokenNumberedItem:
			flush()
			doc.Content = append(doc.Content, Paragraph(parseInline(bulletGlyph+tok.text)...))
		case tokenParagraph:
			flush()
			doc.Content = append(doc.Content, Paragraph(parseInline(tok.text)...))
		}
	}

	flush()
	return doc
}
