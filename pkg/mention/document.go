// Package mention implements @-mention tokens on top of a structured document:
// trigger detection, candidate filtering, atomic insertion and deletion of tokens,
// selection normalization around them, and the dropdown that drives it all.
package mention

import (
	"recipe-steps-be/pkg/document"
)

// Document is the editing surface the mention engine needs. *document.Editor satisfies it.
type Document interface {
	Node(at document.Path) (document.Node, error)
	Range(at document.Path) (document.Range, error)
	Before(p document.Point) (document.Point, bool)
	After(p document.Point) (document.Point, bool)
	String(r document.Range) (string, error)
	Offset(p document.Point) (document.Path, int, error)
	PointAt(block document.Path, offset int) (document.Point, error)
	Mentions(block document.Path) ([]document.MentionEntry, error)

	InsertText(p document.Point, text string) error
	InsertNode(p document.Point, node document.Node) (document.Path, error)
	Delete(r document.Range) (document.Point, error)
	RemoveNode(at document.Path) error
	SplitBlock(p document.Point) (document.Path, error)

	Selection() (document.Range, bool)
	Select(r document.Range) error
	Deselect()
	Rect(p document.Point) (document.Rect, error)
	Version() uint64
}

var _ Document = (*document.Editor)(nil)

// mentionAt returns the mention strictly containing offset in block, if any
func mentionAt(doc Document, block document.Path, offset int) (document.MentionEntry, bool) {
	mentions, err := doc.Mentions(block)
	if err != nil {
		return document.MentionEntry{}, false
	}
	for _, m := range mentions {
		if offset > m.Start && offset < m.End {
			return m, true
		}
	}
	return document.MentionEntry{}, false
}

// mentionEndingAt returns the mention whose token ends exactly at offset
func mentionEndingAt(doc Document, block document.Path, offset int) (document.MentionEntry, bool) {
	mentions, err := doc.Mentions(block)
	if err != nil {
		return document.MentionEntry{}, false
	}
	for _, m := range mentions {
		if m.End == offset {
			return m, true
		}
	}
	return document.MentionEntry{}, false
}

// mentionStartingAt returns the mention whose token starts exactly at offset
func mentionStartingAt(doc Document, block document.Path, offset int) (document.MentionEntry, bool) {
	mentions, err := doc.Mentions(block)
	if err != nil {
		return document.MentionEntry{}, false
	}
	for _, m := range mentions {
		if m.Start == offset {
			return m, true
		}
	}
	return document.MentionEntry{}, false
}

// canonical re-expresses p as the equivalent point the document prefers
func canonical(doc Document, p document.Point) (document.Point, error) {
	block, off, err := doc.Offset(p)
	if err != nil {
		return document.Point{}, err
	}
	return doc.PointAt(block, off)
}
