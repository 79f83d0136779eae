package dto

import (
	"encoding/json"
	"time"

	"recipe-steps-be/pkg/document"
	"recipe-steps-be/pkg/lexical"
	"recipe-steps-be/pkg/mention"

	"github.com/google/uuid"
)

// Editor event types accepted over HTTP and websocket
const (
	EventInsertText        = "insert_text"
	EventKeyDown           = "key_down"
	EventSelect            = "select"
	EventCompositionStart  = "composition_start"
	EventCompositionUpdate = "composition_update"
	EventCompositionEnd    = "composition_end"
	EventSetContainer      = "set_container"
)

type OpenStepsEditorRequest struct {
	RecipeId  uuid.UUID      `json:"recipe_id" validate:"required"`
	Container *document.Rect `json:"container"`
}

// EditorEventRequest is one client input event. Which fields are read depends on Type.
type EditorEventRequest struct {
	Type      string          `json:"type" validate:"required,oneof=insert_text key_down select composition_start composition_update composition_end set_container"`
	Text      string          `json:"text"`
	Key       string          `json:"key" validate:"required_if=Type key_down"`
	Shift     bool            `json:"shift"`
	Selection *document.Range `json:"selection" validate:"required_if=Type select"`
	Container *document.Rect  `json:"container" validate:"required_if=Type set_container"`
}

type StepsEditorResponse struct {
	SessionId string           `json:"session_id"`
	RecipeId  uuid.UUID        `json:"recipe_id"`
	Content   json.RawMessage  `json:"content"`
	Text      string           `json:"text"`
	Handled   bool             `json:"handled"`
	State     mention.Snapshot `json:"state"`
}

// PublishAutosaveMessage is the watermill payload emitted whenever a session changes its document
type PublishAutosaveMessage struct {
	SessionId string    `json:"session_id"`
	RecipeId  uuid.UUID `json:"recipe_id"`
	UserId    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Version   uint64    `json:"version"`
}

type RecipeStepsResponse struct {
	RecipeId  uuid.UUID            `json:"recipe_id"`
	Version   int64                `json:"version"`
	Content   json.RawMessage      `json:"content"`
	Markdown  string               `json:"markdown"`
	PlainText string               `json:"plain_text"`
	Mentions  []lexical.MentionRef `json:"mentions"`
	UpdatedAt *time.Time           `json:"updated_at"`
}
