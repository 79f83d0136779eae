package lexical

// Root is the top-level structure of a serialized steps document
type Root struct {
	Root Node `json:"root"`
}

// Node types produced by the steps editor
const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	TypeMention   = "mention"
	TypeLineBreak = "linebreak"
)

// Node represents any node in the Lexical tree.
// Only the fields used by the steps editor are modelled; unknown fields are dropped.
type Node struct {
	Type     string `json:"type"`
	Version  int    `json:"version"`
	Children []Node `json:"children,omitempty"`

	// Text specific
	Text   string      `json:"text,omitempty"`
	Format interface{} `json:"format,omitempty"` // Can be int (bitmask) or string (alignment)
	Style  string      `json:"style,omitempty"`
	Mode   string      `json:"mode,omitempty"`
	Detail int         `json:"detail,omitempty"`

	// Paragraph specific
	Direction  string `json:"direction,omitempty"`
	Indent     int    `json:"indent,omitempty"`
	TextFormat int    `json:"textFormat,omitempty"`

	// Mention specific. Text carries the rendered token, e.g. "@brown_sugar".
	MentionKind string `json:"mentionKind,omitempty"` // ingredient | equipment
	ReferenceID string `json:"referenceId,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
}

// Text format bitmask values
const (
	FormatBold          = 1
	FormatItalic        = 1 << 1
	FormatStrikethrough = 1 << 2
	FormatUnderline     = 1 << 3
	FormatCode          = 1 << 4
)

// MentionRef is a mention token found in a serialized document
type MentionRef struct {
	Kind        string `json:"kind"`
	ReferenceID string `json:"reference_id"`
	DisplayText string `json:"display_text"`
	Text        string `json:"text"`
}
