package document

import (
	"regexp"
	"unicode/utf8"
)

// MentionKind is what a mention token refers to
type MentionKind string

const (
	KindEquipment  MentionKind = "equipment"
	KindIngredient MentionKind = "ingredient"
)

// Valid reports whether k is a known mention kind
func (k MentionKind) Valid() bool {
	return k == KindEquipment || k == KindIngredient
}

// BlockParagraph is the only block type the steps editor produces
const BlockParagraph = "paragraph"

// Node is a block, a text leaf or a mention token
type Node interface {
	isNode()
}

// Block is a top-level node holding a sequence of *Text and *Mention inlines
type Block struct {
	Type     string
	Children []Node
}

// Text is a run of plain text. Format and Style carry the Lexical marks of the run.
type Text struct {
	Text   string
	Format int
	Style  string
}

// Mention is an atomic inline token referencing an ingredient or piece of equipment.
// Leaf is its only child and is never edited after insertion.
type Mention struct {
	Kind        MentionKind
	ReferenceID string
	DisplayText string
	Leaf        Text
}

func (*Block) isNode()   {}
func (*Text) isNode()    {}
func (*Mention) isNode() {}

// Len returns the length of the run in characters
func (t *Text) Len() int {
	return utf8.RuneCountInString(t.Text)
}

func (t *Text) sameMarks(o *Text) bool {
	return t.Format == o.Format && t.Style == o.Style
}

// TextContent is the literal token text, e.g. "@brown_sugar"
func (m *Mention) TextContent() string {
	return m.Leaf.Text
}

// Len returns the length of the token text in characters
func (m *Mention) Len() int {
	return m.Leaf.Len()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName replaces every whitespace run with an underscore
func NormalizeName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_")
}

// TokenText is the text rendered inside a mention for name
func TokenText(name string) string {
	return "@" + NormalizeName(name)
}

// NewMention builds a mention token whose text is derived from displayText
func NewMention(kind MentionKind, referenceID, displayText string) *Mention {
	return &Mention{
		Kind:        kind,
		ReferenceID: referenceID,
		DisplayText: displayText,
		Leaf:        Text{Text: TokenText(displayText)},
	}
}

// NewText builds a plain text run
func NewText(s string) *Text {
	return &Text{Text: s}
}

// Paragraph builds a paragraph block from inlines
func Paragraph(children ...Node) *Block {
	return &Block{Type: BlockParagraph, Children: children}
}

// normalizeBlock restores the inline invariants of a block:
// no empty text runs unless required, adjacent runs with equal marks merged,
// and a text run before, after and between mention tokens.
func normalizeBlock(b *Block) {
	if b.Type == "" {
		b.Type = BlockParagraph
	}

	merged := make([]Node, 0, len(b.Children)+2)
	for _, child := range b.Children {
		switch c := child.(type) {
		case *Text:
			if c.Text == "" {
				continue
			}
			if last, ok := lastText(merged); ok && last.sameMarks(c) {
				last.Text += c.Text
				continue
			}
			cp := *c
			merged = append(merged, &cp)
		case *Mention:
			merged = append(merged, c)
		}
	}

	out := make([]Node, 0, len(merged)+2)
	for _, child := range merged {
		if _, isMention := child.(*Mention); isMention {
			if len(out) == 0 {
				out = append(out, &Text{})
			} else if _, prevMention := out[len(out)-1].(*Mention); prevMention {
				out = append(out, &Text{})
			}
		}
		out = append(out, child)
	}
	if len(out) == 0 {
		out = append(out, &Text{})
	} else if _, lastMention := out[len(out)-1].(*Mention); lastMention {
		out = append(out, &Text{})
	}

	b.Children = out
}

func lastText(nodes []Node) (*Text, bool) {
	if len(nodes) == 0 {
		return nil, false
	}
	t, ok := nodes[len(nodes)-1].(*Text)
	return t, ok
}
