package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/model"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/database"
	"recipe-steps-be/pkg/document"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.AutoMigrate(&model.Ingredient{}, &model.Equipment{}, &model.RecipeSteps{}))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ctx := context.Background()
	recipeId := uuid.New()

	t.Run("Recipe items in list order", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		for i, name := range []string{"찹쌀가루", "황설탕"} {
			require.NoError(t, uow.IngredientRepository().Create(ctx, &entity.Ingredient{
				Id: uuid.New(), RecipeId: recipeId, Name: name, Position: 1 - i,
			}))
		}
		require.NoError(t, uow.Commit())

		items, err := uowFactory.NewUnitOfWork(ctx).IngredientRepository().FindAll(ctx,
			specification.ByRecipeID{RecipeID: recipeId},
			specification.InListOrder{},
		)
		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "황설탕", items[0].Name)
	})

	t.Run("Steps document upsert", func(t *testing.T) {
		doc := document.New([]*document.Block{document.Paragraph(
			document.NewText("Fry in "),
			document.NewMention(document.KindEquipment, uuid.NewString(), "cast iron pan"),
		)})
		content, err := doc.JSON()
		require.NoError(t, err)

		uow := uowFactory.NewUnitOfWork(ctx)
		repo := uow.RecipeStepsRepository()

		missing, err := repo.FindOne(ctx, specification.ByRecipeID{RecipeID: recipeId})
		assert.NoError(t, err)
		assert.Nil(t, missing)

		steps := &entity.RecipeSteps{Id: uuid.New(), RecipeId: recipeId, UserId: uuid.New(), Content: content, Version: 1}
		require.NoError(t, repo.Create(ctx, steps))

		steps.Version++
		require.NoError(t, repo.Update(ctx, steps))

		stored, err := repo.FindOne(ctx, specification.ByRecipeID{RecipeID: recipeId})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(2), stored.Version)
		assert.JSONEq(t, content, stored.Content)
		t.Logf("Stored steps %s at version %d", stored.Id, stored.Version)
	})
}
