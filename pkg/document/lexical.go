package document

import (
	"recipe-steps-be/pkg/lexical"
)

// FromLexical converts a Lexical tree into blocks. A soft line break starts a new
// block of the same type, so it saves back as a separate paragraph. Mentions of an
// unknown kind degrade to plain text.
func FromLexical(root *lexical.Root) []*Block {
	var blocks []*Block
	for _, node := range root.Root.Children {
		typ := node.Type
		if typ == "" {
			typ = BlockParagraph
		}
		current := &Block{Type: typ}
		blocks = append(blocks, current)

		var walk func(n lexical.Node)
		walk = func(n lexical.Node) {
			switch n.Type {
			case lexical.TypeText:
				current.Children = append(current.Children, &Text{Text: n.Text, Format: formatBits(n.Format), Style: n.Style})
			case lexical.TypeMention:
				kind := MentionKind(n.MentionKind)
				if !kind.Valid() || n.Text == "" {
					current.Children = append(current.Children, &Text{Text: n.Text})
					return
				}
				current.Children = append(current.Children, &Mention{
					Kind:        kind,
					ReferenceID: n.ReferenceID,
					DisplayText: n.DisplayText,
					Leaf:        Text{Text: n.Text},
				})
			case lexical.TypeLineBreak:
				current = &Block{Type: typ}
				blocks = append(blocks, current)
			default:
				for _, child := range n.Children {
					walk(child)
				}
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	return blocks
}

func formatBits(v interface{}) int {
	switch f := v.(type) {
	case float64:
		return int(f)
	case int:
		return f
	}
	return 0
}

// ToLexical serializes the document. Empty text runs are omitted.
func (e *Editor) ToLexical() *lexical.Root {
	root := lexical.Node{Type: lexical.TypeRoot, Version: 1, Direction: "ltr"}
	for _, blk := range e.blocks {
		out := lexical.Node{Type: blk.Type, Version: 1, Direction: "ltr"}
		for _, child := range blk.Children {
			switch c := child.(type) {
			case *Text:
				if c.Text == "" {
					continue
				}
				n := lexical.Node{Type: lexical.TypeText, Version: 1, Text: c.Text, Style: c.Style, Mode: "normal"}
				if c.Format != 0 {
					n.Format = c.Format
				}
				out.Children = append(out.Children, n)
			case *Mention:
				out.Children = append(out.Children, lexical.Node{
					Type:        lexical.TypeMention,
					Version:     1,
					Text:        c.Leaf.Text,
					MentionKind: string(c.Kind),
					ReferenceID: c.ReferenceID,
					DisplayText: c.DisplayText,
				})
			}
		}
		root.Children = append(root.Children, out)
	}
	return &lexical.Root{Root: root}
}

// Load builds an editor from Lexical JSON. Empty content yields an empty document.
func Load(content string, opts ...Option) (*Editor, error) {
	if content == "" {
		return New(nil, opts...), nil
	}
	root, err := lexical.Decode(content)
	if err != nil {
		return nil, err
	}
	return New(FromLexical(root), opts...), nil
}

// JSON serializes the document to Lexical JSON
func (e *Editor) JSON() (string, error) {
	return lexical.Encode(e.ToLexical())
}
