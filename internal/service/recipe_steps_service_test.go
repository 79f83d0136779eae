package service

import (
	"context"
	"testing"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/pkg/lexical"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeStepsService_Show(t *testing.T) {
	factory := newFakeFactory()
	svc := NewRecipeStepsService(factory)
	recipeId, userId := uuid.New(), uuid.New()

	require.NoError(t, factory.uow.steps.Create(context.Background(), &entity.RecipeSteps{
		RecipeId: recipeId,
		UserId:   userId,
		Content:  stepsContent(t),
		Version:  4,
	}))

	res, err := svc.Show(context.Background(), userId, recipeId)
	require.NoError(t, err)

	assert.Equal(t, recipeId, res.RecipeId)
	assert.Equal(t, int64(4), res.Version)
	assert.Equal(t, "Melt @버터", res.PlainText)
	assert.Contains(t, res.Markdown, `data-ref="ing-2"`)
	assert.Equal(t, []lexical.MentionRef{{
		Kind:        "ingredient",
		ReferenceID: "ing-2",
		DisplayText: "버터",
		Text:        "@버터",
	}}, res.Mentions)
}

func TestRecipeStepsService_ShowErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		stored   bool
		stranger bool
		wantCode int
	}{
		{name: "missing recipe", wantCode: fiber.StatusNotFound},
		{name: "corrupt document", stored: true, content: `{"root":{"type":"paragraph"}}`, wantCode: fiber.StatusUnprocessableEntity},
		{name: "another user's steps", stored: true, stranger: true, wantCode: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newFakeFactory()
			recipeId, owner := uuid.New(), uuid.New()
			if tt.stored {
				content := tt.content
				if content == "" {
					content = stepsContent(t)
				}
				require.NoError(t, factory.uow.steps.Create(context.Background(), &entity.RecipeSteps{
					RecipeId: recipeId,
					UserId:   owner,
					Content:  content,
				}))
			}

			reader := owner
			if tt.stranger {
				reader = uuid.New()
			}
			_, err := NewRecipeStepsService(factory).Show(context.Background(), reader, recipeId)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, appErrorCode(t, err))
		})
	}
}
