package mention

import (
	"strings"
	"unicode/utf8"

	"recipe-steps-be/pkg/document"
)

const logModule = "MentionSession"

// Key is a key name as reported by the client keyboard event
type Key string

const (
	KeyBackspace  Key = "Backspace"
	KeyDelete     Key = "Delete"
	KeyEnter      Key = "Enter"
	KeyTab        Key = "Tab"
	KeyEscape     Key = "Escape"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Logger is the subset of the service logger a session reports to
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, string, map[string]interface{}) {}
func (NopLogger) Warn(string, string, map[string]interface{})  {}

// Config holds the editing policy of a session
type Config struct {
	TriggerScanLimit int
	CandidateLimit   int
	DropdownOffset   float64
	Logger           Logger
	// OnChange runs after every event that mutated the document
	OnChange func(doc Document)
}

// Snapshot is the settled state of a session after an event
type Snapshot struct {
	Selection       *document.Range  `json:"selection"`
	Trigger         *Trigger         `json:"trigger"`
	SelectedMention *SelectedMention `json:"selected_mention"`
	Dropdown        DropdownView     `json:"dropdown"`
	Composing       bool             `json:"composing"`
	PendingCommit   bool             `json:"pending_commit"`
	Version         uint64           `json:"version"`
	Generation      uint64           `json:"generation"`
}

// DropdownView is what the client renders for the candidate list
type DropdownView struct {
	State         DropdownState `json:"state"`
	SelectedIndex int           `json:"selected_index"`
	Candidates    []Candidate   `json:"candidates"`
	Position      *Position     `json:"position"`
}

type pendingCommit struct {
	candidate  Candidate
	rng        document.Range
	generation uint64
}

type composition struct {
	block  document.Path
	start  int
	length int
}

// Session is one editing session over one document. Events are applied strictly in
// call order and each leaves the session settled before it returns. Not safe for
// concurrent use.
type Session struct {
	doc Document
	cfg Config

	candidates []Candidate
	container  *document.Rect

	trigger   *Trigger
	selected  *SelectedMention
	dropdown  Dropdown
	position  *Position
	dismissed *document.Point

	composing   bool
	composition composition
	pending     *pendingCommit

	// generation moves on every event that invalidates deferred work
	generation uint64
	queue      TaskQueue
}

// NewSession starts a session on doc. A document without a selection gets a cursor at its start.
func NewSession(doc Document, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	if cfg.TriggerScanLimit <= 0 {
		cfg.TriggerScanLimit = DefaultTriggerScanLimit
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultCandidateLimit
	}
	if cfg.DropdownOffset == 0 {
		cfg.DropdownOffset = DefaultDropdownOffset
	}

	s := &Session{doc: doc, cfg: cfg}
	if _, ok := doc.Selection(); !ok {
		if p, err := doc.PointAt(document.Path{0}, 0); err == nil {
			_ = doc.Select(document.Collapsed(p))
		}
	}
	s.settle()
	return s
}

// Document returns the edited document
func (s *Session) Document() Document {
	return s.doc
}

// SetCandidates replaces the mentionable items
func (s *Session) SetCandidates(equipment, ingredients []Item) {
	s.dispatch(false, func() {
		s.candidates = BuildCandidates(equipment, ingredients)
	})
}

// SetContainer sets the editor container box used to position the dropdown
func (s *Session) SetContainer(r document.Rect) {
	s.dispatch(false, func() {
		s.container = &r
	})
}

// Select applies a selection reported by the client
func (s *Session) Select(r document.Range) {
	s.dispatch(true, func() {
		if err := s.doc.Select(r); err != nil {
			s.debug("stale selection ignored", map[string]interface{}{"range": r.String(), "error": err.Error()})
		}
	})
}

// InsertText types text at the cursor, replacing any selected content.
// Newlines split the current block.
func (s *Session) InsertText(text string) {
	s.dispatch(true, func() {
		sel, ok := s.doc.Selection()
		if !ok {
			s.debug("text input without selection", nil)
			return
		}
		at := sel.Anchor
		if !sel.IsCollapsed() {
			p, err := s.doc.Delete(sel)
			if err != nil {
				s.debug("stale selection on input", map[string]interface{}{"error": err.Error()})
				return
			}
			at = p
		}
		s.insertAt(at, strings.ReplaceAll(text, "\r\n", "\n"))
	})
}

// KeyDown applies a key press and reports whether the key did something
func (s *Session) KeyDown(key Key, shift bool) bool {
	navigating := s.dropdown.IsOpen() && (key == KeyArrowDown || key == KeyArrowUp)
	handled := false
	s.dispatch(!navigating, func() {
		handled = s.keyDown(key, shift)
	})
	return handled
}

// CompositionStart opens an IME composition at the cursor
func (s *Session) CompositionStart() {
	s.dispatch(true, func() {
		sel, ok := s.doc.Selection()
		if !ok {
			return
		}
		at := sel.Anchor
		if !sel.IsCollapsed() {
			p, err := s.doc.Delete(sel)
			if err != nil {
				s.debug("stale selection on composition", map[string]interface{}{"error": err.Error()})
				return
			}
			at = p
			_ = s.doc.Select(document.Collapsed(at))
		}
		block, off, err := s.doc.Offset(at)
		if err != nil {
			return
		}
		s.composing = true
		s.composition = composition{block: block, start: off}
	})
}

// CompositionUpdate replaces the in-progress composed text
func (s *Session) CompositionUpdate(text string) {
	s.dispatch(false, func() {
		s.replaceComposition(text)
	})
}

// CompositionEnd settles the composed text and commits any mention chosen while composing
func (s *Session) CompositionEnd(text string) {
	s.dispatch(false, func() {
		if !s.composing {
			return
		}
		s.replaceComposition(text)
		s.composing = false

		p := s.pending
		s.pending = nil
		if p == nil {
			return
		}
		s.queue.Defer(func() {
			if p.generation != s.generation {
				s.debug("superseded mention commit dropped", map[string]interface{}{"candidate": p.candidate.ID})
				return
			}
			s.commit(p.candidate, p.rng)
		})
	})
}

// Snapshot returns the settled state
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Composing:     s.composing,
		PendingCommit: s.pending != nil,
		Version:       s.doc.Version(),
		Generation:    s.generation,
		Dropdown: DropdownView{
			State:         s.dropdown.State(),
			SelectedIndex: s.dropdown.SelectedIndex(),
			Candidates:    append([]Candidate(nil), s.dropdown.Candidates()...),
		},
	}
	if sel, ok := s.doc.Selection(); ok {
		snap.Selection = &sel
	}
	if s.trigger != nil {
		t := *s.trigger
		snap.Trigger = &t
	}
	if s.selected != nil {
		m := *s.selected
		snap.SelectedMention = &m
	}
	if s.position != nil {
		p := *s.position
		snap.Dropdown.Position = &p
	}
	return snap
}

func (s *Session) dispatch(invalidate bool, fn func()) {
	before := s.doc.Version()
	if invalidate {
		s.generation++
	}

	fn()
	s.queue.Drain()
	s.settle()

	if s.doc.Version() != before && s.cfg.OnChange != nil {
		s.cfg.OnChange(s.doc)
	}
}

// settle normalizes the selection and re-derives trigger, dropdown and position
func (s *Session) settle() {
	sel, ok := s.doc.Selection()
	if !ok {
		s.selected = nil
		s.clearTrigger()
		return
	}

	if !s.composing {
		normalized, selected := NormalizeSelection(s.doc, sel, s.selected)
		if !normalized.Equal(sel) {
			if err := s.doc.Select(normalized); err != nil {
				s.debug("normalized selection rejected", map[string]interface{}{"error": err.Error()})
			} else {
				sel = normalized
			}
		}
		s.selected = selected
	}

	trig, ok := DetectTrigger(s.doc, sel, s.cfg.TriggerScanLimit)
	if !ok {
		s.clearTrigger()
		return
	}
	s.trigger = &trig
	s.position = nil

	if start := trig.Range.Start(); s.dismissed != nil {
		if s.dismissed.Equal(start) {
			s.dropdown.Close()
			return
		}
		s.dismissed = nil
	}

	s.dropdown.Update(true, FilterCandidates(s.candidates, trig.SearchText, s.cfg.CandidateLimit))
	if s.container == nil || !s.dropdown.IsOpen() {
		return
	}
	pos, ok := ComputeDropdownPosition(s.doc, trig.Range, *s.container, s.cfg.DropdownOffset)
	if !ok {
		s.dropdown.Close()
		return
	}
	s.position = &pos
}

func (s *Session) clearTrigger() {
	s.trigger = nil
	s.position = nil
	s.dismissed = nil
	s.dropdown.Close()
}

func (s *Session) keyDown(key Key, shift bool) bool {
	if s.dropdown.IsOpen() && s.trigger != nil {
		switch key {
		case KeyArrowDown:
			s.dropdown.Next()
			return true
		case KeyArrowUp:
			s.dropdown.Prev()
			return true
		case KeyTab, KeyEnter:
			c, _ := s.dropdown.Selected()
			if s.composing {
				s.pending = &pendingCommit{candidate: c, rng: s.trigger.Range.Clone(), generation: s.generation}
				return true
			}
			s.commit(c, s.trigger.Range)
			return true
		case KeyEscape:
			start := s.trigger.Range.Start()
			s.dismissed = &start
			s.pending = nil
			s.dropdown.Close()
			return true
		}
	}

	if key == KeyEscape {
		s.pending = nil
		return false
	}
	if s.composing {
		return false
	}

	switch key {
	case KeyBackspace:
		return s.backspace()
	case KeyDelete:
		return s.forwardDelete()
	case KeyEnter:
		return s.splitBlock()
	case KeyArrowLeft:
		return s.move(-1, shift)
	case KeyArrowRight:
		return s.move(1, shift)
	}
	return false
}

func (s *Session) commit(c Candidate, rng document.Range) {
	if err := InsertMention(s.doc, c, &rng); err != nil {
		s.debug("mention insert dropped", map[string]interface{}{"candidate": c.ID, "error": err.Error()})
		return
	}
	s.clearTrigger()
	s.pending = nil
	if sel, ok := s.doc.Selection(); ok {
		s.syncSelection(sel)
	}
}

// syncSelection re-applies target once the current event has settled, unless a newer
// event has moved on or the target no longer resolves
func (s *Session) syncSelection(target document.Range) {
	gen := s.generation
	s.queue.Defer(func() {
		if gen != s.generation {
			return
		}
		if err := s.doc.Select(target); err != nil {
			s.debug("selection sync dropped", map[string]interface{}{"error": err.Error()})
		}
	})
}

func (s *Session) insertAt(at document.Point, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			next, err := s.doc.SplitBlock(at)
			if err != nil {
				s.debug("split dropped", map[string]interface{}{"error": err.Error()})
				return
			}
			if at, err = s.doc.PointAt(next, 0); err != nil {
				return
			}
		}
		if line == "" {
			continue
		}
		block, off, err := s.doc.Offset(at)
		if err != nil {
			return
		}
		if err := s.doc.InsertText(at, line); err != nil {
			s.debug("text input dropped", map[string]interface{}{"error": err.Error()})
			return
		}
		if at, err = s.doc.PointAt(block, off+utf8.RuneCountInString(line)); err != nil {
			return
		}
	}
	_ = s.doc.Select(document.Collapsed(at))
}

func (s *Session) backspace() bool {
	sel, ok := s.doc.Selection()
	if !ok {
		return false
	}
	if DeleteMentionOnBackspace(s.doc, sel) {
		s.selected = nil
		return true
	}
	if !sel.IsCollapsed() {
		return s.deleteRange(sel)
	}
	prev, ok := s.doc.Before(sel.Anchor)
	if !ok {
		return false
	}
	return s.deleteRange(document.Range{Anchor: prev, Focus: sel.Anchor})
}

func (s *Session) forwardDelete() bool {
	sel, ok := s.doc.Selection()
	if !ok {
		return false
	}
	if DeleteMentionOnDelete(s.doc, sel) {
		s.selected = nil
		return true
	}
	if !sel.IsCollapsed() {
		return s.deleteRange(sel)
	}
	next, ok := s.doc.After(sel.Anchor)
	if !ok {
		return false
	}
	return s.deleteRange(document.Range{Anchor: sel.Anchor, Focus: next})
}

func (s *Session) deleteRange(r document.Range) bool {
	at, err := s.doc.Delete(r)
	if err != nil {
		s.debug("delete dropped", map[string]interface{}{"range": r.String(), "error": err.Error()})
		return false
	}
	_ = s.doc.Select(document.Collapsed(at))
	return true
}

func (s *Session) splitBlock() bool {
	sel, ok := s.doc.Selection()
	if !ok {
		return false
	}
	at := sel.Anchor
	if !sel.IsCollapsed() {
		p, err := s.doc.Delete(sel)
		if err != nil {
			return false
		}
		at = p
	}
	next, err := s.doc.SplitBlock(at)
	if err != nil {
		s.debug("split dropped", map[string]interface{}{"error": err.Error()})
		return false
	}
	p, err := s.doc.PointAt(next, 0)
	if err != nil {
		return false
	}
	_ = s.doc.Select(document.Collapsed(p))
	return true
}

// move steps the cursor one character, treating a token as a single character
func (s *Session) move(dir int, extend bool) bool {
	sel, ok := s.doc.Selection()
	if !ok {
		return false
	}
	if !extend && !sel.IsCollapsed() {
		start, end := sel.Edges()
		target := start
		if dir > 0 {
			target = end
		}
		return s.doc.Select(document.Collapsed(target)) == nil
	}

	focus := sel.Focus
	block, off, err := s.doc.Offset(focus)
	if err != nil {
		return false
	}

	var next document.Point
	if dir < 0 {
		if m, ok := mentionEndingAt(s.doc, block, off); ok {
			next, err = s.doc.PointAt(block, m.Start)
		} else if next, ok = s.doc.Before(focus); !ok {
			return false
		}
	} else {
		if m, ok := mentionStartingAt(s.doc, block, off); ok {
			next, err = s.doc.PointAt(block, m.End)
		} else if next, ok = s.doc.After(focus); !ok {
			return false
		}
	}
	if err != nil {
		return false
	}

	if extend {
		return s.doc.Select(document.Range{Anchor: sel.Anchor, Focus: next}) == nil
	}
	return s.doc.Select(document.Collapsed(next)) == nil
}

func (s *Session) replaceComposition(text string) {
	if !s.composing {
		return
	}
	c := s.composition
	at, err := s.doc.PointAt(c.block, c.start)
	if err != nil {
		s.debug("composition anchor lost", map[string]interface{}{"error": err.Error()})
		return
	}
	if c.length > 0 {
		to, err := s.doc.PointAt(c.block, c.start+c.length)
		if err != nil {
			return
		}
		if at, err = s.doc.Delete(document.Range{Anchor: at, Focus: to}); err != nil {
			return
		}
	}
	if err := s.doc.InsertText(at, text); err != nil {
		s.debug("composition input dropped", map[string]interface{}{"error": err.Error()})
		return
	}
	s.composition.length = utf8.RuneCountInString(text)

	if p, err := s.doc.PointAt(c.block, c.start+s.composition.length); err == nil {
		_ = s.doc.Select(document.Collapsed(p))
	}
}

func (s *Session) debug(message string, details map[string]interface{}) {
	s.cfg.Logger.Debug(logModule, message, details)
}
