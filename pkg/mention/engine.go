package mention

import (
	"errors"
	"fmt"

	"recipe-steps-be/pkg/document"
)

// ErrStale is returned when a computed path or point no longer resolves in the document
var ErrStale = errors.New("mention: stale document position")

func stale(err error) error {
	return fmt.Errorf("%w: %w", ErrStale, err)
}

// InsertMention replaces replaceRange with an atomic token for c and places the cursor after it.
// When the selection is a collapsed cursor past the start of replaceRange, the replaced range
// extends to the cursor so characters typed since the trigger was computed are absorbed.
// Without replaceRange the token is inserted at the cursor.
func InsertMention(doc Document, c Candidate, replaceRange *document.Range) error {
	if !c.Kind.Valid() {
		return fmt.Errorf("mention: unknown candidate kind %q", c.Kind)
	}

	sel, hasSelection := doc.Selection()
	var target document.Range
	switch {
	case replaceRange != nil:
		target = *replaceRange
		start := replaceRange.Start()
		if hasSelection && sel.IsCollapsed() &&
			sel.Anchor.Path.Block().Equal(start.Path.Block()) && !sel.Anchor.IsBefore(start) {
			target = document.Range{Anchor: start, Focus: sel.Anchor}
		}
	case hasSelection:
		target = sel
	default:
		return fmt.Errorf("%w: no cursor to insert at", ErrStale)
	}

	at, err := doc.Delete(target)
	if err != nil {
		return stale(err)
	}
	path, err := doc.InsertNode(at, document.NewMention(c.Kind, c.ID, c.RawName))
	if err != nil {
		return stale(err)
	}

	after, err := pointAfter(doc, path)
	if err != nil {
		return stale(err)
	}
	if err := doc.Select(document.Collapsed(after)); err != nil {
		return stale(err)
	}
	return nil
}

// pointAfter returns the point just outside the end of the mention at path
func pointAfter(doc Document, path document.Path) (document.Point, error) {
	r, err := doc.Range(path)
	if err != nil {
		return document.Point{}, err
	}
	return canonical(doc, r.End())
}

// DeleteMentionOnBackspace removes a whole token when backspace would otherwise eat into it:
// the selection is exactly one token, or the cursor sits right after (or inside) a token.
// It reports whether it handled the key.
func DeleteMentionOnBackspace(doc Document, selection document.Range) bool {
	return deleteMention(doc, selection, mentionEndingAt)
}

// DeleteMentionOnDelete is the forward-delete counterpart: a cursor right before a token removes it
func DeleteMentionOnDelete(doc Document, selection document.Range) bool {
	return deleteMention(doc, selection, mentionStartingAt)
}

type edgeFinder func(doc Document, block document.Path, offset int) (document.MentionEntry, bool)

func deleteMention(doc Document, selection document.Range, touching edgeFinder) bool {
	var target document.MentionEntry
	if !selection.IsCollapsed() {
		m, ok := selectedEntry(doc, selection)
		if !ok {
			return false
		}
		target = m
	} else {
		block, off, err := doc.Offset(selection.Anchor)
		if err != nil {
			return false
		}
		m, ok := mentionAt(doc, block, off)
		if !ok {
			m, ok = touching(doc, block, off)
		}
		if !ok {
			return false
		}
		target = m
	}

	block := target.Path.Block()
	if err := doc.RemoveNode(target.Path); err != nil {
		return false
	}
	if p, err := doc.PointAt(block, target.Start); err == nil {
		_ = doc.Select(document.Collapsed(p))
	}
	return true
}

// selectedEntry returns the mention whose bounds equal the selection edges.
// Edges are compared as block offsets, so a selection spelled with the text
// points around the token counts as well as one spelled inside its leaf.
func selectedEntry(doc Document, selection document.Range) (document.MentionEntry, bool) {
	if selection.IsCollapsed() {
		return document.MentionEntry{}, false
	}
	start, end := selection.Edges()
	b1, s, err := doc.Offset(start)
	if err != nil {
		return document.MentionEntry{}, false
	}
	b2, e, err := doc.Offset(end)
	if err != nil || !b1.Equal(b2) {
		return document.MentionEntry{}, false
	}
	for _, m := range mustMentions(doc, b1) {
		if m.Start == s && m.End == e {
			return m, true
		}
	}
	return document.MentionEntry{}, false
}

func mustMentions(doc Document, block document.Path) []document.MentionEntry {
	mentions, err := doc.Mentions(block)
	if err != nil {
		return nil
	}
	return mentions
}
