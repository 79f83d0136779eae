package mention

import (
	"recipe-steps-be/pkg/document"
)

// DefaultDropdownOffset is the gap in pixels between the caret and the dropdown
const DefaultDropdownOffset = 4.0

// Position is where the dropdown goes, relative to the editor container
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// ComputeDropdownPosition places the dropdown just below the caret at the end of the
// trigger range. It reports false when the caret cannot be measured; callers hide the
// dropdown in that case.
func ComputeDropdownPosition(doc Document, trigger document.Range, container document.Rect, offset float64) (Position, bool) {
	caret, err := doc.Rect(trigger.End())
	if err != nil {
		return Position{}, false
	}
	return Position{
		Top:  caret.Bottom() - container.Top + offset,
		Left: caret.Left - container.Left,
	}, true
}
