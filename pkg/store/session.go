package store

import (
	"sync"
	"time"

	"recipe-steps-be/pkg/document"
	"recipe-steps-be/pkg/mention"
)

// Session represents an open steps editor in memory.
// Mention sessions are not safe for concurrent use, so every access to Doc and
// Editor goes through Lock/Unlock.
type Session struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	RecipeID string `json:"recipe_id"`

	Doc    *document.Editor `json:"-"`
	Editor *mention.Session `json:"-"`

	// Version of the persisted row the document was loaded from
	BaseVersion int64     `json:"base_version"`
	OpenedAt    time.Time `json:"opened_at"`

	// PublishedVersion is the document version last handed to autosave
	PublishedVersion uint64 `json:"published_version"`

	mu sync.Mutex
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Dirty reports whether the document changed since the last autosave
func (s *Session) Dirty() bool {
	return s.Doc != nil && s.Doc.Version() != s.PublishedVersion
}
