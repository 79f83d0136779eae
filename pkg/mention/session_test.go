package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-steps-be/pkg/document"
)

type recordingLogger struct {
	debug []string
}

func (l *recordingLogger) Debug(_, message string, _ map[string]interface{}) {
	l.debug = append(l.debug, message)
}

func (l *recordingLogger) Warn(string, string, map[string]interface{}) {}

func newSession(t *testing.T, doc *document.Editor) (*Session, *int) {
	t.Helper()
	changes := 0
	s := NewSession(doc, Config{OnChange: func(Document) { changes++ }})
	s.SetCandidates(
		[]Item{{ID: "eq-1", Name: "cast iron pan"}},
		[]Item{{ID: "ing-1", Name: "설탕"}, {ID: "ing-2", Name: "버터"}},
	)
	return s, &changes
}

func candidateIDs(snap Snapshot) []string {
	ids := make([]string, 0, len(snap.Dropdown.Candidates))
	for _, c := range snap.Dropdown.Candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSessionTypingMentionScenario(t *testing.T) {
	doc := textDoc("Add ")
	s, changes := newSession(t, doc)
	s.Select(endOf(doc, 0))

	s.InsertText("@")
	snap := s.Snapshot()
	require.NotNil(t, snap.Trigger)
	assert.Equal(t, "", snap.Trigger.SearchText)
	assert.Equal(t, DropdownOpen, snap.Dropdown.State)
	assert.Equal(t, []string{"eq-1", "ing-1", "ing-2"}, candidateIDs(snap))

	s.InsertText("설")
	snap = s.Snapshot()
	require.NotNil(t, snap.Trigger)
	assert.Equal(t, "설", snap.Trigger.SearchText)
	assert.Equal(t, []string{"ing-1"}, candidateIDs(snap))

	assert.True(t, s.KeyDown(KeyEnter, false))
	assert.Equal(t, "Add @설탕", doc.Text())

	mentions := doc.AllMentions()
	require.Len(t, mentions, 1)
	assert.Equal(t, "@설탕", mentions[0].Node.TextContent())
	assert.Equal(t, document.KindIngredient, mentions[0].Node.Kind)

	snap = s.Snapshot()
	assert.Nil(t, snap.Trigger)
	assert.Equal(t, DropdownClosed, snap.Dropdown.State)
	require.NotNil(t, snap.Selection)
	assert.Equal(t, document.Collapsed(pt(0, 0, 2)), *snap.Selection)
	assert.Equal(t, 3, *changes)
}

func TestSessionDropdownNavigation(t *testing.T) {
	doc := textDoc("")
	s, _ := newSession(t, doc)

	s.InsertText("@")
	gen := s.Snapshot().Generation

	assert.True(t, s.KeyDown(KeyArrowDown, false))
	assert.True(t, s.KeyDown(KeyArrowDown, false))
	assert.True(t, s.KeyDown(KeyArrowDown, false))
	assert.Equal(t, 0, s.Snapshot().Dropdown.SelectedIndex)
	assert.True(t, s.KeyDown(KeyArrowUp, false))
	assert.Equal(t, 2, s.Snapshot().Dropdown.SelectedIndex)
	assert.Equal(t, gen, s.Snapshot().Generation)

	assert.True(t, s.KeyDown(KeyTab, false))
	assert.Equal(t, "@버터", doc.Text())
	assert.Equal(t, "ing-2", doc.AllMentions()[0].Node.ReferenceID)
}

func TestSessionEscapeDismissesTrigger(t *testing.T) {
	doc := textDoc("")
	s, _ := newSession(t, doc)

	s.InsertText("@")
	require.Equal(t, DropdownOpen, s.Snapshot().Dropdown.State)

	assert.True(t, s.KeyDown(KeyEscape, false))
	assert.Equal(t, DropdownClosed, s.Snapshot().Dropdown.State)

	s.InsertText("c")
	snap := s.Snapshot()
	require.NotNil(t, snap.Trigger)
	assert.Equal(t, DropdownClosed, snap.Dropdown.State)

	s.InsertText(" @c")
	assert.Equal(t, DropdownOpen, s.Snapshot().Dropdown.State)
}

func TestSessionCompositionDefersCommit(t *testing.T) {
	doc := textDoc("Add ")
	s, _ := newSession(t, doc)
	s.Select(endOf(doc, 0))
	s.InsertText("@")

	s.CompositionStart()
	s.CompositionUpdate("ㅅ")
	assert.Equal(t, "Add @ㅅ", doc.Text())
	assert.Nil(t, s.Snapshot().Trigger)

	s.CompositionUpdate("설")
	assert.Equal(t, "Add @설", doc.Text())
	require.Equal(t, DropdownOpen, s.Snapshot().Dropdown.State)

	assert.True(t, s.KeyDown(KeyEnter, false))
	snap := s.Snapshot()
	assert.True(t, snap.Composing)
	assert.True(t, snap.PendingCommit)
	assert.Equal(t, "Add @설", doc.Text())
	assert.Empty(t, doc.AllMentions())

	s.CompositionEnd("설")
	assert.Equal(t, "Add @설탕", doc.Text())
	require.Len(t, doc.AllMentions(), 1)

	snap = s.Snapshot()
	assert.False(t, snap.Composing)
	assert.False(t, snap.PendingCommit)
	assert.Equal(t, document.Collapsed(pt(0, 0, 2)), *snap.Selection)
}

func TestSessionSupersededCompositionCommitIsDropped(t *testing.T) {
	doc := textDoc("Add ")
	log := &recordingLogger{}
	s := NewSession(doc, Config{Logger: log})
	s.SetCandidates(nil, []Item{{ID: "ing-1", Name: "설탕"}})
	s.Select(endOf(doc, 0))
	s.InsertText("@")
	s.CompositionStart()
	s.CompositionUpdate("설")
	require.True(t, s.KeyDown(KeyEnter, false))

	s.Select(document.Collapsed(pt(1, 0, 0)))
	s.CompositionEnd("설")

	assert.Equal(t, "Add @설", doc.Text())
	assert.Empty(t, doc.AllMentions())
	assert.Contains(t, log.debug, "superseded mention commit dropped")
}

func TestSessionEscapeDiscardsPendingCommit(t *testing.T) {
	doc := textDoc("")
	s, _ := newSession(t, doc)
	s.InsertText("@")
	s.CompositionStart()
	s.CompositionUpdate("버")
	require.True(t, s.KeyDown(KeyEnter, false))
	require.True(t, s.Snapshot().PendingCommit)

	assert.True(t, s.KeyDown(KeyEscape, false))
	assert.False(t, s.Snapshot().PendingCommit)

	s.CompositionEnd("버")
	assert.Equal(t, "@버", doc.Text())
	assert.Empty(t, doc.AllMentions())
}

func TestSessionBackspaceRemovesWholeToken(t *testing.T) {
	doc := saltDoc()
	s, changes := newSession(t, doc)
	s.Select(document.Collapsed(pt(0, 0, 2)))

	assert.True(t, s.KeyDown(KeyBackspace, false))
	assert.Equal(t, "Add  now", doc.Text())
	assert.Empty(t, doc.AllMentions())
	assert.Equal(t, document.Collapsed(pt(4, 0, 0)), *s.Snapshot().Selection)

	assert.True(t, s.KeyDown(KeyBackspace, false))
	assert.Equal(t, "Add now", doc.Text())
	assert.Equal(t, 2, *changes)
}

func TestSessionArrowsStepOverTokens(t *testing.T) {
	doc := saltDoc()
	s, _ := newSession(t, doc)
	s.Select(document.Collapsed(pt(4, 0, 0)))

	assert.True(t, s.KeyDown(KeyArrowRight, false))
	assert.Equal(t, document.Collapsed(pt(0, 0, 2)), *s.Snapshot().Selection)

	assert.True(t, s.KeyDown(KeyArrowLeft, false))
	assert.Equal(t, document.Collapsed(pt(4, 0, 0)), *s.Snapshot().Selection)

	assert.True(t, s.KeyDown(KeyArrowRight, true))
	snap := s.Snapshot()
	require.NotNil(t, snap.SelectedMention)
	assert.Equal(t, document.Path{0, 1}, snap.SelectedMention.Path)
	assert.Equal(t, document.Range{Anchor: pt(0, 0, 1, 0), Focus: pt(5, 0, 1, 0)}, *snap.Selection)

	s.InsertText("pepper")
	assert.Equal(t, "Add pepper now", doc.Text())
	assert.Nil(t, s.Snapshot().SelectedMention)
}

func TestSessionDeselectPlacesCursorAtTokenEnd(t *testing.T) {
	doc := saltDoc()
	s, _ := newSession(t, doc)
	s.Select(document.Range{Anchor: pt(4, 0, 0), Focus: pt(0, 0, 2)})
	require.NotNil(t, s.Snapshot().SelectedMention)

	s.Select(document.Collapsed(pt(3, 0, 2)))
	snap := s.Snapshot()
	assert.Nil(t, snap.SelectedMention)
	assert.Equal(t, document.Collapsed(pt(0, 0, 2)), *snap.Selection)
}

func TestSessionSnapsCursorOutOfToken(t *testing.T) {
	doc := saltDoc()
	s, _ := newSession(t, doc)

	s.Select(document.Collapsed(pt(2, 0, 1, 0)))
	assert.Equal(t, document.Collapsed(pt(4, 0, 0)), *s.Snapshot().Selection)

	s.Select(document.Collapsed(pt(0, 7, 0)))
	assert.Equal(t, document.Collapsed(pt(4, 0, 0)), *s.Snapshot().Selection)
}

func TestSessionDropdownPosition(t *testing.T) {
	doc := document.New(
		[]*document.Block{document.Paragraph(document.NewText("Add "))},
		document.WithLayout(document.GridLayout{Top: 100, Left: 30, CharWidth: 10, LineHeight: 20}),
	)
	s, _ := newSession(t, doc)
	s.SetContainer(document.Rect{Top: 100, Left: 30, Width: 400, Height: 300})
	s.Select(endOf(doc, 0))
	s.InsertText("@")

	snap := s.Snapshot()
	require.NotNil(t, snap.Dropdown.Position)
	assert.Equal(t, Position{Top: 24, Left: 50}, *snap.Dropdown.Position)
}

func TestSessionHidesDropdownWithoutGeometry(t *testing.T) {
	doc := textDoc("")
	s, _ := newSession(t, doc)
	s.SetContainer(document.Rect{Width: 400, Height: 300})
	s.InsertText("@")

	snap := s.Snapshot()
	assert.NotNil(t, snap.Trigger)
	assert.Equal(t, DropdownClosed, snap.Dropdown.State)
	assert.Nil(t, snap.Dropdown.Position)
}

func TestSessionEnterSplitsBlock(t *testing.T) {
	doc := textDoc("abcd")
	s, _ := newSession(t, doc)
	s.Select(document.Collapsed(pt(2, 0, 0)))

	assert.True(t, s.KeyDown(KeyEnter, false))
	assert.Equal(t, "ab\ncd", doc.Text())
	assert.Equal(t, document.Collapsed(pt(0, 1, 0)), *s.Snapshot().Selection)

	s.InsertText("x\ny")
	assert.Equal(t, "ab\nx\nycd", doc.Text())
	assert.Equal(t, document.Collapsed(pt(1, 2, 0)), *s.Snapshot().Selection)
}
