package mention

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipe-steps-be/pkg/document"
)

// DefaultTriggerScanLimit is how many characters the backward scan examines before giving up
const DefaultTriggerScanLimit = 50

var searchTextPattern = regexp.MustCompile(`^[\w_가-힣]*$`)

// Trigger is an in-progress "@query" in front of the cursor
type Trigger struct {
	Range      document.Range `json:"range"`
	SearchText string         `json:"search_text"`
}

// DetectTrigger scans backward from a collapsed cursor within its block for an "@"
// that starts a mention query. scanLimit <= 0 uses DefaultTriggerScanLimit.
func DetectTrigger(doc Document, selection document.Range, scanLimit int) (Trigger, bool) {
	if scanLimit <= 0 {
		scanLimit = DefaultTriggerScanLimit
	}
	if !selection.IsCollapsed() || IsCursorInside(doc, selection) {
		return Trigger{}, false
	}

	cursor := selection.Anchor
	block := cursor.Path.Block()
	var reversed []string
	var at document.Point
	found := false

	cur := cursor
	for scanned := 0; scanned < scanLimit; scanned++ {
		prev, ok := doc.Before(cur)
		if !ok || !prev.Path.Block().Equal(block) {
			return Trigger{}, false
		}
		ch, err := doc.String(document.Range{Anchor: prev, Focus: cur})
		if err != nil {
			return Trigger{}, false
		}
		if ch == "@" {
			at, found = prev, true
			break
		}
		if r, _ := utf8.DecodeRuneInString(ch); unicode.IsSpace(r) {
			return Trigger{}, false
		}
		reversed = append(reversed, ch)
		cur = prev
	}
	if !found {
		return Trigger{}, false
	}

	if !boundaryBefore(doc, at, block) {
		return Trigger{}, false
	}

	var sb strings.Builder
	for i := len(reversed) - 1; i >= 0; i-- {
		sb.WriteString(reversed[i])
	}
	searchText := sb.String()
	if !searchTextPattern.MatchString(searchText) {
		return Trigger{}, false
	}

	r := document.Range{Anchor: at, Focus: cursor}
	if overlapsMention(doc, r) {
		return Trigger{}, false
	}
	return Trigger{Range: r, SearchText: searchText}, true
}

// boundaryBefore reports whether the character before "@" at p is the block start,
// nothing, or whitespace
func boundaryBefore(doc Document, p document.Point, block document.Path) bool {
	prev, ok := doc.Before(p)
	if !ok || !prev.Path.Block().Equal(block) {
		return true
	}
	ch, err := doc.String(document.Range{Anchor: prev, Focus: p})
	if err != nil {
		return false
	}
	if ch == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(ch)
	return unicode.IsSpace(r)
}

func overlapsMention(doc Document, r document.Range) bool {
	start, end := r.Edges()
	block, s, err := doc.Offset(start)
	if err != nil {
		return true
	}
	_, e, err := doc.Offset(end)
	if err != nil {
		return true
	}
	mentions, err := doc.Mentions(block)
	if err != nil {
		return true
	}
	for _, m := range mentions {
		if m.Start < e && m.End > s {
			return true
		}
	}
	return false
}
