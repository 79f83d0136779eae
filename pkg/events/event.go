package events

import "time"

// Event types exchanged over the NATS bus
const (
	RecipeStepsSaved   = "RECIPE_STEPS_SAVED"
	IngredientsChanged = "INGREDIENTS_CHANGED"
	EquipmentChanged   = "EQUIPMENT_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECIPE_STEPS_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field of the payload
func (e BaseEvent) String(key string) (string, bool) {
	v, ok := e.Data[key].(string)
	return v, ok
}

// NewRecipeStepsSaved announces a persisted steps document
func NewRecipeStepsSaved(recipeID, userID string, version int64, mentions int) BaseEvent {
	return BaseEvent{
		Type: RecipeStepsSaved,
		Data: map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"version":   version,
			"mentions":  mentions,
		},
		OccurredAt: time.Now(),
	}
}
