package document

import (
	"fmt"
)

// flatPoint is a point expressed in block coordinates so it survives a mutation.
// Points that sat in a mention leaf remember the token and their offset in it.
type flatPoint struct {
	block      int
	offset     int
	mention    *Mention
	leafOffset int
}

func (e *Editor) flatten(p Point) (flatPoint, error) {
	b, off, inMention, err := e.leafAt(p)
	if err != nil {
		return flatPoint{}, err
	}
	fp := flatPoint{block: b, offset: off}
	if inMention {
		fp.mention = e.blocks[b].Children[p.Path[1]].(*Mention)
		fp.leafOffset = p.Offset
	}
	return fp, nil
}

func (e *Editor) resolve(fp flatPoint) Point {
	if fp.mention != nil {
		for b, blk := range e.blocks {
			for i, child := range blk.Children {
				if child == Node(fp.mention) {
					off := min(max(fp.leafOffset, 0), fp.mention.Len())
					return Point{Path: Path{b, i, 0}, Offset: off}
				}
			}
		}
	}

	b := min(max(fp.block, 0), len(e.blocks)-1)
	off := min(max(fp.offset, 0), e.blockLen(b))
	p, err := e.pointAt(b, off)
	if err != nil {
		// unreachable on a normalized block
		return Point{Path: Path{b, 0}}
	}
	return p
}

// apply runs a mutation and carries the selection through it. move maps a
// pre-mutation block position to its post-mutation block position.
func (e *Editor) apply(mutation func(), move func(flatPoint) flatPoint) {
	var anchor, focus flatPoint
	hasSelection := false
	if e.selection != nil {
		a, errA := e.flatten(e.selection.Anchor)
		f, errF := e.flatten(e.selection.Focus)
		if errA == nil && errF == nil {
			anchor, focus, hasSelection = a, f, true
		}
	}

	mutation()
	e.version++

	if !hasSelection {
		e.selection = nil
		return
	}
	e.selection = &Range{Anchor: e.resolve(move(anchor)), Focus: e.resolve(move(focus))}
}

// editableOffset resolves p for mutation. Points on a mention edge are accepted as the
// equivalent position outside the token; points strictly inside a token are rejected.
func (e *Editor) editableOffset(p Point) (block, offset int, err error) {
	b, off, _, err := e.leafAt(p)
	if err != nil {
		return 0, 0, err
	}
	if m, ok := e.mentionContaining(b, off); ok {
		return 0, 0, fmt.Errorf("%w: %v is inside mention %s", ErrInvalidPoint, p, m.Node.TextContent())
	}
	return b, off, nil
}

// mentionContaining returns the mention whose token strictly contains offset
func (e *Editor) mentionContaining(b, offset int) (MentionEntry, bool) {
	for _, m := range e.mentions(b) {
		if offset > m.Start && offset < m.End {
			return m, true
		}
	}
	return MentionEntry{}, false
}

// InsertText inserts text at p. Inserting inside a mention token is rejected.
func (e *Editor) InsertText(p Point, text string) error {
	b, off, err := e.editableOffset(p)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	n := runeLen(text)

	e.apply(func() {
		at, _ := e.pointAt(b, off)
		leaf := e.blocks[b].Children[at.Path[1]].(*Text)
		runes := []rune(leaf.Text)
		leaf.Text = string(runes[:at.Offset]) + text + string(runes[at.Offset:])
		normalizeBlock(e.blocks[b])
	}, func(fp flatPoint) flatPoint {
		if fp.block == b && fp.offset >= off {
			fp.offset += n
		}
		return fp
	})
	return nil
}

// InsertNode splits the text leaf at p and places an inline node there.
// It returns the path of the inserted node.
func (e *Editor) InsertNode(p Point, node Node) (Path, error) {
	m, ok := node.(*Mention)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: only mention nodes can be inserted inline", ErrInvalidPath)
	}
	if m.Leaf.Text == "" {
		return nil, fmt.Errorf("%w: mention has no text", ErrInvalidPath)
	}
	b, off, err := e.editableOffset(p)
	if err != nil {
		return nil, err
	}

	inserted := &Mention{
		Kind:        m.Kind,
		ReferenceID: m.ReferenceID,
		DisplayText: m.DisplayText,
		Leaf:        Text{Text: m.Leaf.Text},
	}
	n := inserted.Len()

	e.apply(func() {
		blk := e.blocks[b]
		blk.Children = append(append(sliceChildren(blk.Children, 0, off), inserted), sliceChildren(blk.Children, off, -1)...)
		normalizeBlock(blk)
	}, func(fp flatPoint) flatPoint {
		if fp.block == b && fp.offset >= off {
			fp.offset += n
		}
		return fp
	})

	for i, child := range e.blocks[b].Children {
		if child == Node(inserted) {
			return Path{b, i}, nil
		}
	}
	return nil, fmt.Errorf("%w: inserted mention not found", ErrInvalidPath)
}

// Delete removes the content of r and returns the collapsed point where it was.
// An edge strictly inside a mention is widened to cover the whole token.
// Deleting across blocks merges the first and last block.
func (e *Editor) Delete(r Range) (Point, error) {
	start, end := r.Edges()
	b1, o1, _, err := e.leafAt(start)
	if err != nil {
		return Point{}, err
	}
	b2, o2, _, err := e.leafAt(end)
	if err != nil {
		return Point{}, err
	}
	if b1 == b2 && o1 == o2 {
		return e.pointAt(b1, o1)
	}
	if m, ok := e.mentionContaining(b1, o1); ok {
		o1 = m.Start
	}
	if m, ok := e.mentionContaining(b2, o2); ok {
		o2 = m.End
	}

	if b1 == b2 && o1 == o2 {
		return e.pointAt(b1, o1)
	}
	e.deleteFlat(b1, o1, b2, o2)
	return e.pointAt(b1, o1)
}

func (e *Editor) deleteFlat(b1, o1, b2, o2 int) {
	removed := b2 - b1
	e.apply(func() {
		first := e.blocks[b1]
		last := e.blocks[b2]
		first.Children = append(sliceChildren(first.Children, 0, o1), sliceChildren(last.Children, o2, -1)...)
		normalizeBlock(first)
		if removed > 0 {
			e.blocks = append(e.blocks[:b1+1], e.blocks[b2+1:]...)
		}
	}, func(fp flatPoint) flatPoint {
		switch {
		case fp.block < b1, fp.block == b1 && fp.offset <= o1:
		case fp.block < b2, fp.block == b2 && fp.offset <= o2:
			fp.block, fp.offset = b1, o1
		case fp.block == b2:
			fp.block, fp.offset = b1, o1+fp.offset-o2
		default:
			fp.block -= removed
		}
		return fp
	})
}

// RemoveNode removes the node at path. Removing an inline deletes exactly its
// characters; removing the only block leaves an empty paragraph.
func (e *Editor) RemoveNode(at Path) error {
	node, err := e.Node(at)
	if err != nil {
		return err
	}

	switch node.(type) {
	case *Block:
		e.removeBlock(at[0])
		return nil
	case *Mention:
		for _, m := range e.mentions(at[0]) {
			if m.Path.Equal(at) {
				e.deleteFlat(at[0], m.Start, at[0], m.End)
				return nil
			}
		}
	case *Text:
		if len(at) == 2 {
			start := 0
			for i := 0; i < at[1]; i++ {
				start += inlineLen(e.blocks[at[0]].Children[i])
			}
			if n := node.(*Text).Len(); n > 0 {
				e.deleteFlat(at[0], start, at[0], start+n)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %v cannot be removed", ErrInvalidPath, at)
}

func (e *Editor) removeBlock(b int) {
	if len(e.blocks) == 1 {
		e.apply(func() {
			e.blocks[0] = Paragraph(&Text{})
		}, func(fp flatPoint) flatPoint {
			return flatPoint{}
		})
		return
	}

	e.apply(func() {
		e.blocks = append(e.blocks[:b], e.blocks[b+1:]...)
	}, func(fp flatPoint) flatPoint {
		switch {
		case fp.block < b:
		case fp.block == b && b > 0:
			fp = flatPoint{block: b - 1, offset: 1 << 30}
		case fp.block == b:
			fp = flatPoint{block: 0}
		default:
			fp.block--
		}
		return fp
	})
}

// SplitBlock splits the block at p into two and returns the path of the new second block
func (e *Editor) SplitBlock(p Point) (Path, error) {
	b, off, err := e.editableOffset(p)
	if err != nil {
		return nil, err
	}

	e.apply(func() {
		blk := e.blocks[b]
		tail := &Block{Type: blk.Type, Children: sliceChildren(blk.Children, off, -1)}
		blk.Children = sliceChildren(blk.Children, 0, off)
		normalizeBlock(blk)
		normalizeBlock(tail)

		blocks := make([]*Block, 0, len(e.blocks)+1)
		blocks = append(blocks, e.blocks[:b+1]...)
		blocks = append(blocks, tail)
		e.blocks = append(blocks, e.blocks[b+1:]...)
	}, func(fp flatPoint) flatPoint {
		switch {
		case fp.block > b:
			fp.block++
		case fp.block == b && fp.offset >= off:
			fp.block, fp.offset = b+1, fp.offset-off
		}
		return fp
	})
	return Path{b + 1}, nil
}

// sliceChildren returns copies of the inlines covering block offsets [from, to).
// to < 0 means the end of the block. Mentions are kept only when wholly inside.
func sliceChildren(children []Node, from, to int) []Node {
	out := make([]Node, 0, len(children))
	start := 0
	for _, child := range children {
		n := inlineLen(child)
		end := start + n
		switch c := child.(type) {
		case *Text:
			lo := max(from, start)
			hi := end
			if to >= 0 {
				hi = min(to, end)
			}
			if lo < hi {
				runes := []rune(c.Text)
				out = append(out, &Text{Text: string(runes[lo-start : hi-start]), Format: c.Format, Style: c.Style})
			}
		case *Mention:
			if start >= from && (to < 0 || end <= to) {
				out = append(out, c)
			}
		}
		start = end
	}
	return out
}
