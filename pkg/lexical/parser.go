package lexical

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// Parser handles Lexical JSON to Markdown conversion
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Decode unmarshals a Lexical JSON string
func Decode(jsonContent string) (*Root, error) {
	var root Root
	if err := json.Unmarshal([]byte(jsonContent), &root); err != nil {
		return nil, fmt.Errorf("failed to parse lexical json: %w", err)
	}
	if root.Root.Type != TypeRoot {
		return nil, fmt.Errorf("failed to parse lexical json: unexpected root type %q", root.Root.Type)
	}
	return &root, nil
}

// Encode marshals a tree back to its JSON form
func Encode(root *Root) (string, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("failed to encode lexical json: %w", err)
	}
	return string(data), nil
}

// Parse converts a Lexical JSON string to Markdown.
// Mention tokens are rendered as annotated spans so read-only views can style them
// without access to the candidate list.
func (p *Parser) Parse(jsonContent string) (string, error) {
	root, err := Decode(jsonContent)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	p.walkNode(root.Root, &sb)
	return strings.TrimRight(sb.String(), "\n"), nil
}

// ParseContent is a convenience function to parse a raw string.
// If the content is not Lexical JSON it is returned unchanged.
func ParseContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, `{"root":`) {
		return content
	}

	md, err := NewParser().Parse(trimmed)
	if err != nil {
		return content
	}
	return md
}

// PlainText flattens the document to text, one line per paragraph
func PlainText(root *Root) string {
	var lines []string
	for _, block := range root.Root.Children {
		var sb strings.Builder
		writePlain(block, &sb)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func writePlain(node Node, sb *strings.Builder) {
	switch node.Type {
	case TypeText, TypeMention:
		sb.WriteString(node.Text)
	case TypeLineBreak:
		sb.WriteString("\n")
	default:
		for _, child := range node.Children {
			writePlain(child, sb)
		}
	}
}

// Mentions returns every mention token in document order
func Mentions(root *Root) []MentionRef {
	refs := make([]MentionRef, 0)
	var walk func(n Node)
	walk = func(n Node) {
		if n.Type == TypeMention {
			refs = append(refs, MentionRef{
				Kind:        n.MentionKind,
				ReferenceID: n.ReferenceID,
				DisplayText: n.DisplayText,
				Text:        n.Text,
			})
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root.Root)
	return refs
}

// walkNode traverses the tree and writes markdown
func (p *Parser) walkNode(node Node, sb *strings.Builder) {
	switch node.Type {
	case TypeRoot:
		for _, child := range node.Children {
			p.walkNode(child, sb)
			sb.WriteString("\n")
		}

	case TypeParagraph:
		p.handleParagraph(node, sb)

	case TypeText:
		p.handleText(node, sb)

	case TypeMention:
		p.handleMention(node, sb)

	case TypeLineBreak:
		sb.WriteString("  \n")

	default:
		for _, child := range node.Children {
			p.walkNode(child, sb)
		}
	}
}

func (p *Parser) handleParagraph(node Node, sb *strings.Builder) {
	align := ""
	if fmtStr, ok := node.Format.(string); ok && fmtStr != "" && fmtStr != "left" {
		align = fmtStr
	}

	if align != "" {
		sb.WriteString(fmt.Sprintf("<div align=\"%s\">", align))
	}

	for _, child := range node.Children {
		p.walkNode(child, sb)
	}

	if align != "" {
		sb.WriteString("</div>")
	}
	sb.WriteString("\n")
}

func (p *Parser) handleMention(node Node, sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf(
		"<span class=\"mention\" data-kind=\"%s\" data-ref=\"%s\" title=\"%s\">%s</span>",
		html.EscapeString(node.MentionKind),
		html.EscapeString(node.ReferenceID),
		html.EscapeString(node.DisplayText),
		html.EscapeString(node.Text),
	))
}

func (p *Parser) handleText(node Node, sb *strings.Builder) {
	text := node.Text

	styles := ParseStyle(node.Style)
	openTag := styles.BuildAnnotatedOpenTag()
	if openTag != "" {
		sb.WriteString(openTag)
	}

	fmtInt := 0
	if f, ok := node.Format.(float64); ok {
		fmtInt = int(f)
	} else if f, ok := node.Format.(int); ok {
		fmtInt = f
	}

	isBold := (fmtInt & FormatBold) != 0
	isItalic := (fmtInt & FormatItalic) != 0
	isUnderline := (fmtInt & FormatUnderline) != 0
	isCode := (fmtInt & FormatCode) != 0
	isStrike := (fmtInt & FormatStrikethrough) != 0

	// Code > Bold > Italic > Underline > Strike
	if isCode {
		sb.WriteString("`")
	}
	if isBold {
		sb.WriteString("**")
	}
	if isItalic {
		sb.WriteString("_")
	}
	if isUnderline {
		sb.WriteString("<u>")
	}
	if isStrike {
		sb.WriteString("~~")
	}

	sb.WriteString(text)

	if isStrike {
		sb.WriteString("~~")
	}
	if isUnderline {
		sb.WriteString("</u>")
	}
	if isItalic {
		sb.WriteString("_")
	}
	if isBold {
		sb.WriteString("**")
	}
	if isCode {
		sb.WriteString("`")
	}

	if openTag != "" {
		sb.WriteString("</span>")
	}
}
