package mention

import (
	"recipe-steps-be/pkg/document"
)

// SelectedMention is a mention token that is currently selected as a whole
type SelectedMention struct {
	Path    document.Path     `json:"path"`
	Range   document.Range    `json:"range"`
	Mention *document.Mention `json:"-"`
}

// NormalizeSelection keeps a selection coherent around atomic tokens.
//   - A cursor strictly inside a token snaps to the point before the token.
//   - A cursor on a token edge is re-expressed as the equivalent point outside the token.
//   - A range edge strictly inside a token grows to cover the token.
//   - A range spanning exactly one token is returned as that token's range and reported
//     as the selected mention.
//   - When selected was set and the cursor collapsed past its end in the same block,
//     the cursor is placed at the token end.
//
// Selections that no longer resolve are returned unchanged.
func NormalizeSelection(doc Document, selection document.Range, selected *SelectedMention) (document.Range, *SelectedMention) {
	if selection.IsCollapsed() {
		p, ok := normalizeCursor(doc, selection.Anchor, selected)
		if !ok {
			return selection, nil
		}
		return document.Collapsed(p), nil
	}

	backward := selection.IsBackward()
	start, end := selection.Edges()
	b1, s, err := doc.Offset(start)
	if err != nil {
		return selection, nil
	}
	b2, e, err := doc.Offset(end)
	if err != nil {
		return selection, nil
	}
	if m, ok := mentionAt(doc, b1, s); ok {
		s = m.Start
	}
	if m, ok := mentionAt(doc, b2, e); ok {
		e = m.End
	}

	if b1.Equal(b2) {
		for _, m := range mustMentions(doc, b1) {
			if m.Start != s || m.End != e {
				continue
			}
			r, err := doc.Range(m.Path)
			if err != nil {
				return selection, nil
			}
			out := orient(r.Anchor, r.Focus, backward)
			return out, &SelectedMention{Path: m.Path.Clone(), Range: r, Mention: m.Node}
		}
	}

	ps, err := doc.PointAt(b1, s)
	if err != nil {
		return selection, nil
	}
	pe, err := doc.PointAt(b2, e)
	if err != nil {
		return selection, nil
	}
	return orient(ps, pe, backward), nil
}

func orient(start, end document.Point, backward bool) document.Range {
	if backward {
		return document.Range{Anchor: end, Focus: start}
	}
	return document.Range{Anchor: start, Focus: end}
}

func normalizeCursor(doc Document, p document.Point, selected *SelectedMention) (document.Point, bool) {
	block, off, err := doc.Offset(p)
	if err != nil {
		return p, false
	}
	if m, ok := mentionAt(doc, block, off); ok {
		off = m.Start
	}

	if selected != nil {
		if m, ok := locateSelected(doc, selected); ok && m.Path.Block().Equal(block) && off > m.End {
			off = m.End
		}
	}

	out, err := doc.PointAt(block, off)
	if err != nil {
		return p, false
	}
	return out, true
}

// locateSelected finds the previously selected token in the current document, if it still exists
func locateSelected(doc Document, selected *SelectedMention) (document.MentionEntry, bool) {
	if len(selected.Path) == 0 {
		return document.MentionEntry{}, false
	}
	for _, m := range mustMentions(doc, selected.Path.Block()) {
		if selected.Mention != nil && m.Node == selected.Mention {
			return m, true
		}
		if selected.Mention == nil && m.Path.Equal(selected.Path) {
			return m, true
		}
	}
	return document.MentionEntry{}, false
}
