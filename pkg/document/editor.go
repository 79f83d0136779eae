package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidPath is returned when a path does not resolve in the current document
	ErrInvalidPath = errors.New("document: invalid path")
	// ErrInvalidPoint is returned when a point does not resolve or is not editable
	ErrInvalidPoint = errors.New("document: invalid point")
	// ErrNoLayout is returned by Rect when no layout is configured
	ErrNoLayout = errors.New("document: no layout")
)

// Editor owns one document and its selection. It is not safe for concurrent use;
// callers serialize access per editing session.
type Editor struct {
	blocks    []*Block
	selection *Range
	layout    Layout
	version   uint64
}

// MentionEntry is a mention token located in a block
type MentionEntry struct {
	Path  Path
	Node  *Mention
	Start int // flattened character offset of the token start within its block
	End   int
}

// Option configures an Editor
type Option func(*Editor)

// WithLayout sets the geometry used by Rect
func WithLayout(l Layout) Option {
	return func(e *Editor) {
		e.layout = l
	}
}

// New creates an editor over the given blocks. An empty document gets one empty paragraph.
func New(blocks []*Block, opts ...Option) *Editor {
	e := &Editor{}
	for _, b := range blocks {
		if b == nil {
			continue
		}
		cp := &Block{Type: b.Type, Children: append([]Node(nil), b.Children...)}
		normalizeBlock(cp)
		e.blocks = append(e.blocks, cp)
	}
	if len(e.blocks) == 0 {
		e.blocks = []*Block{Paragraph(&Text{})}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version increments on every successful mutation
func (e *Editor) Version() uint64 {
	return e.version
}

// BlockCount returns the number of top-level blocks
func (e *Editor) BlockCount() int {
	return len(e.blocks)
}

// Text returns the plain text of the whole document, one line per block
func (e *Editor) Text() string {
	lines := make([]string, len(e.blocks))
	for i := range e.blocks {
		lines[i] = e.blockText(i)
	}
	return strings.Join(lines, "\n")
}

// Node returns the node at path
func (e *Editor) Node(at Path) (Node, error) {
	if len(at) == 0 || len(at) > 3 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, at)
	}
	if at[0] < 0 || at[0] >= len(e.blocks) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, at)
	}
	blk := e.blocks[at[0]]
	if len(at) == 1 {
		return blk, nil
	}
	if at[1] < 0 || at[1] >= len(blk.Children) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, at)
	}
	child := blk.Children[at[1]]
	if len(at) == 2 {
		return child, nil
	}
	m, ok := child.(*Mention)
	if !ok || at[2] != 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, at)
	}
	return &m.Leaf, nil
}

// leafAt resolves a point to its block index and flattened offset.
// inMention reports whether the point addresses the text leaf of a mention.
func (e *Editor) leafAt(p Point) (block, offset int, inMention bool, err error) {
	node, err := e.Node(p.Path)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	leaf, ok := node.(*Text)
	if !ok {
		return 0, 0, false, fmt.Errorf("%w: %v is not a text leaf", ErrInvalidPoint, p)
	}
	if p.Offset < 0 || p.Offset > leaf.Len() {
		return 0, 0, false, fmt.Errorf("%w: %v offset out of bounds", ErrInvalidPoint, p)
	}

	block = p.Path[0]
	start := 0
	for i := 0; i < p.Path[1]; i++ {
		start += inlineLen(e.blocks[block].Children[i])
	}
	return block, start + p.Offset, len(p.Path) == 3, nil
}

// Offset returns the block containing p and the character offset of p within it
func (e *Editor) Offset(p Point) (Path, int, error) {
	b, off, _, err := e.leafAt(p)
	if err != nil {
		return nil, 0, err
	}
	return Path{b}, off, nil
}

// PointAt resolves a block offset to a point. Offsets on the boundary of a mention
// resolve into the neighbouring text run; only offsets strictly inside a token land in its leaf.
func (e *Editor) PointAt(block Path, offset int) (Point, error) {
	if len(block) != 1 || block[0] < 0 || block[0] >= len(e.blocks) {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidPath, block)
	}
	return e.pointAt(block[0], offset)
}

func (e *Editor) pointAt(b, offset int) (Point, error) {
	blk := e.blocks[b]
	start := 0
	var inside *Point
	for i, child := range blk.Children {
		n := inlineLen(child)
		end := start + n
		switch child.(type) {
		case *Text:
			if offset >= start && offset <= end {
				return Point{Path: Path{b, i}, Offset: offset - start}, nil
			}
		case *Mention:
			if offset > start && offset < end && inside == nil {
				inside = &Point{Path: Path{b, i, 0}, Offset: offset - start}
			}
		}
		start = end
	}
	if inside != nil {
		return *inside, nil
	}
	return Point{}, fmt.Errorf("%w: offset %d in block %d", ErrInvalidPoint, offset, b)
}

// Range returns the range spanned by the node at path
func (e *Editor) Range(at Path) (Range, error) {
	node, err := e.Node(at)
	if err != nil {
		return Range{}, err
	}
	switch n := node.(type) {
	case *Block:
		start, err := e.pointAt(at[0], 0)
		if err != nil {
			return Range{}, err
		}
		end, err := e.pointAt(at[0], e.blockLen(at[0]))
		if err != nil {
			return Range{}, err
		}
		return Range{Anchor: start, Focus: end}, nil
	case *Mention:
		leaf := Path{at[0], at[1], 0}
		return Range{Anchor: Point{Path: leaf}, Focus: Point{Path: leaf, Offset: n.Len()}}, nil
	case *Text:
		return Range{Anchor: Point{Path: at.Clone()}, Focus: Point{Path: at.Clone(), Offset: n.Len()}}, nil
	}
	return Range{}, fmt.Errorf("%w: %v", ErrInvalidPath, at)
}

// Start returns the first point of the node at path
func (e *Editor) Start(at Path) (Point, error) {
	r, err := e.Range(at)
	if err != nil {
		return Point{}, err
	}
	return r.Anchor, nil
}

// End returns the last point of the node at path
func (e *Editor) End(at Path) (Point, error) {
	r, err := e.Range(at)
	if err != nil {
		return Point{}, err
	}
	return r.Focus, nil
}

// Before returns the point one character before p. Stepping from the start of a block
// to the end of the previous block counts as one character.
func (e *Editor) Before(p Point) (Point, bool) {
	b, off, _, err := e.leafAt(p)
	if err != nil {
		return Point{}, false
	}
	if off > 0 {
		prev, err := e.pointAt(b, off-1)
		return prev, err == nil
	}
	if b == 0 {
		return Point{}, false
	}
	prev, err := e.pointAt(b-1, e.blockLen(b-1))
	return prev, err == nil
}

// After returns the point one character after p
func (e *Editor) After(p Point) (Point, bool) {
	b, off, _, err := e.leafAt(p)
	if err != nil {
		return Point{}, false
	}
	if off < e.blockLen(b) {
		next, err := e.pointAt(b, off+1)
		return next, err == nil
	}
	if b == len(e.blocks)-1 {
		return Point{}, false
	}
	next, err := e.pointAt(b+1, 0)
	return next, err == nil
}

// String returns the text spanned by r. Block boundaries contribute a newline.
func (e *Editor) String(r Range) (string, error) {
	start, end := r.Edges()
	b1, o1, _, err := e.leafAt(start)
	if err != nil {
		return "", err
	}
	b2, o2, _, err := e.leafAt(end)
	if err != nil {
		return "", err
	}
	if b1 == b2 {
		runes := []rune(e.blockText(b1))
		return string(runes[o1:o2]), nil
	}

	var sb strings.Builder
	sb.WriteString(string([]rune(e.blockText(b1))[o1:]))
	for b := b1 + 1; b < b2; b++ {
		sb.WriteString("\n")
		sb.WriteString(e.blockText(b))
	}
	sb.WriteString("\n")
	sb.WriteString(string([]rune(e.blockText(b2))[:o2]))
	return sb.String(), nil
}

// Mentions lists the mention tokens of a block in order
func (e *Editor) Mentions(block Path) ([]MentionEntry, error) {
	if len(block) != 1 || block[0] < 0 || block[0] >= len(e.blocks) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, block)
	}
	return e.mentions(block[0]), nil
}

func (e *Editor) mentions(b int) []MentionEntry {
	var out []MentionEntry
	start := 0
	for i, child := range e.blocks[b].Children {
		n := inlineLen(child)
		if m, ok := child.(*Mention); ok {
			out = append(out, MentionEntry{Path: Path{b, i}, Node: m, Start: start, End: start + n})
		}
		start += n
	}
	return out
}

// AllMentions lists every mention token in document order
func (e *Editor) AllMentions() []MentionEntry {
	var out []MentionEntry
	for b := range e.blocks {
		out = append(out, e.mentions(b)...)
	}
	return out
}

// Selection returns the current selection, if any
func (e *Editor) Selection() (Range, bool) {
	if e.selection == nil {
		return Range{}, false
	}
	return e.selection.Clone(), true
}

// Select replaces the selection. Both points must resolve.
func (e *Editor) Select(r Range) error {
	if _, _, _, err := e.leafAt(r.Anchor); err != nil {
		return err
	}
	if _, _, _, err := e.leafAt(r.Focus); err != nil {
		return err
	}
	sel := r.Clone()
	e.selection = &sel
	return nil
}

// Deselect drops the selection
func (e *Editor) Deselect() {
	e.selection = nil
}

// SetLayout replaces the geometry used by Rect, e.g. after the client resized its editor
func (e *Editor) SetLayout(l Layout) {
	e.layout = l
}

// Rect returns the on-screen box of the caret at p
func (e *Editor) Rect(p Point) (Rect, error) {
	if e.layout == nil {
		return Rect{}, ErrNoLayout
	}
	b, off, _, err := e.leafAt(p)
	if err != nil {
		return Rect{}, err
	}
	texts := make([]string, len(e.blocks))
	for i := range e.blocks {
		texts[i] = e.blockText(i)
	}
	return e.layout.Rect(texts, b, off)
}

func (e *Editor) blockText(b int) string {
	var sb strings.Builder
	for _, child := range e.blocks[b].Children {
		switch c := child.(type) {
		case *Text:
			sb.WriteString(c.Text)
		case *Mention:
			sb.WriteString(c.Leaf.Text)
		}
	}
	return sb.String()
}

func (e *Editor) blockLen(b int) int {
	n := 0
	for _, child := range e.blocks[b].Children {
		n += inlineLen(child)
	}
	return n
}

func inlineLen(n Node) int {
	switch c := n.(type) {
	case *Text:
		return c.Len()
	case *Mention:
		return c.Len()
	}
	return 0
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
