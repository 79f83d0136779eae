package service

import (
	"context"
	"encoding/json"
	"testing"

	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/pkg/document"
	"recipe-steps-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autosaveMessage(t *testing.T, payload dto.PublishAutosaveMessage) *message.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), raw)
}

func isAcked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	default:
		return false
	}
}

func isNacked(msg *message.Message) bool {
	select {
	case <-msg.Nacked():
		return true
	default:
		return false
	}
}

func stepsContent(t *testing.T) string {
	t.Helper()
	doc := document.New([]*document.Block{document.Paragraph(
		document.NewText("Melt "),
		document.NewMention(document.KindIngredient, "ing-2", "버터"),
	)})
	content, err := doc.JSON()
	require.NoError(t, err)
	return content
}

func TestConsumerService_ProcessMessage(t *testing.T) {
	factory := newFakeFactory()
	bus := &fakeEventPublisher{}
	cs := NewConsumerService(nil, "autosave", factory, bus, logger.NewNopLogger()).(*consumerService)

	recipeId := uuid.New()
	userId := uuid.New()
	content := stepsContent(t)

	first := autosaveMessage(t, dto.PublishAutosaveMessage{SessionId: "s-1", RecipeId: recipeId, UserId: userId, Content: content, Version: 2})
	cs.processMessage(context.Background(), first)
	require.True(t, isAcked(first))

	row, err := factory.uow.steps.FindOne(context.Background(), specification.ByRecipeID{RecipeID: recipeId})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(1), row.Version)
	assert.Equal(t, content, row.Content)
	assert.Nil(t, row.UpdatedAt)

	second := autosaveMessage(t, dto.PublishAutosaveMessage{SessionId: "s-1", RecipeId: recipeId, UserId: userId, Content: content, Version: 5})
	cs.processMessage(context.Background(), second)
	require.True(t, isAcked(second))

	row, err = factory.uow.steps.FindOne(context.Background(), specification.ByRecipeID{RecipeID: recipeId})
	require.NoError(t, err)
	assert.Equal(t, int64(2), row.Version)
	assert.Equal(t, userId, row.UserId)
	assert.NotNil(t, row.UpdatedAt)
	assert.Equal(t, 2, factory.uow.commits)

	require.Len(t, bus.published, 2)
	saved := bus.published[1]
	assert.Equal(t, events.RecipeStepsSaved, saved.EventType())
	assert.Equal(t, recipeId.String(), saved.Payload()["recipe_id"])
	assert.Equal(t, int64(2), saved.Payload()["version"])
	assert.Equal(t, 1, saved.Payload()["mentions"])
}

func TestConsumerService_ProcessMessageIgnoresOtherUsers(t *testing.T) {
	factory := newFakeFactory()
	bus := &fakeEventPublisher{}
	cs := NewConsumerService(nil, "autosave", factory, bus, logger.NewNopLogger()).(*consumerService)

	recipeId, owner := uuid.New(), uuid.New()
	content := stepsContent(t)
	require.NoError(t, factory.uow.steps.Create(context.Background(), &entity.RecipeSteps{
		RecipeId: recipeId,
		UserId:   owner,
		Content:  content,
		Version:  3,
	}))

	msg := autosaveMessage(t, dto.PublishAutosaveMessage{
		SessionId: "s-2",
		RecipeId:  recipeId,
		UserId:    uuid.New(),
		Content:   `{"root":{"type":"root","children":[]}}`,
		Version:   9,
	})
	cs.processMessage(context.Background(), msg)

	assert.True(t, isAcked(msg))
	row, err := factory.uow.steps.FindOne(context.Background(), specification.ByRecipeID{RecipeID: recipeId})
	require.NoError(t, err)
	assert.Equal(t, owner, row.UserId)
	assert.Equal(t, content, row.Content)
	assert.Equal(t, int64(3), row.Version)
	assert.Equal(t, 0, factory.uow.commits)
	assert.Empty(t, bus.published)
}

func TestConsumerService_ProcessMessageDropsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "not json", payload: []byte("{")},
		{name: "not a steps document", payload: mustJSON(t, dto.PublishAutosaveMessage{RecipeId: uuid.New(), Content: `{"root":1}`})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newFakeFactory()
			cs := NewConsumerService(nil, "autosave", factory, nil, logger.NewNopLogger()).(*consumerService)

			msg := message.NewMessage(watermill.NewUUID(), tt.payload)
			cs.processMessage(context.Background(), msg)

			assert.True(t, isAcked(msg))
			assert.Empty(t, factory.uow.steps.rows)
		})
	}
}

func TestConsumerService_ProcessMessageNacksOnStorageError(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.steps.findErr = assert.AnError
	cs := NewConsumerService(nil, "autosave", factory, nil, logger.NewNopLogger()).(*consumerService)

	msg := autosaveMessage(t, dto.PublishAutosaveMessage{RecipeId: uuid.New(), Content: stepsContent(t)})
	cs.processMessage(context.Background(), msg)

	assert.True(t, isNacked(msg))
	assert.Equal(t, 0, factory.uow.commits)
	assert.Equal(t, 1, factory.uow.rollbacks)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
