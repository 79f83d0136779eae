package mention

import (
	"recipe-steps-be/pkg/document"
)

// Located is a mention token found at a selection
type Located struct {
	Path    document.Path
	Range   document.Range
	Mention *document.Mention
}

// FindMentionAtSelection walks up from the selection anchor to an enclosing mention token
func FindMentionAtSelection(doc Document, selection document.Range) (Located, bool) {
	for p := selection.Anchor.Path; len(p) > 0; p = p.Parent() {
		node, err := doc.Node(p)
		if err != nil {
			return Located{}, false
		}
		m, ok := node.(*document.Mention)
		if !ok {
			continue
		}
		r, err := doc.Range(p)
		if err != nil {
			return Located{}, false
		}
		return Located{Path: p.Clone(), Range: r, Mention: m}, true
	}
	return Located{}, false
}

// IsFullySelected reports whether a non-collapsed selection covers exactly the mention range
func IsFullySelected(selection, mentionRange document.Range) bool {
	if selection.IsCollapsed() {
		return false
	}
	s1, e1 := selection.Edges()
	s2, e2 := mentionRange.Edges()
	return s1.Equal(s2) && e1.Equal(e2)
}

// IsCursorInside reports whether a collapsed cursor touches a mention token, edges included
func IsCursorInside(doc Document, selection document.Range) bool {
	if !selection.IsCollapsed() {
		return false
	}
	loc, ok := FindMentionAtSelection(doc, selection)
	if !ok {
		return false
	}
	return loc.Range.Includes(selection.Anchor)
}
