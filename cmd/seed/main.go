package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/database"
	"recipe-steps-be/pkg/events"
	pktNats "recipe-steps-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Demo recipe: Korean sweet pancakes (hotteok)
var (
	demoIngredients = []string{"찹쌀가루", "밀가루", "설탕", "흑설탕", "brown sugar", "cinnamon", "walnuts", "버터"}
	demoEquipment   = []string{"mixing bowl", "cast iron pan", "spatula", "hotteok press"}
)

func main() {
	recipeFlag := flag.String("recipe", "", "recipe id to seed (random when empty)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	recipeId := uuid.New()
	if *recipeFlag != "" {
		if recipeId, err = uuid.Parse(*recipeFlag); err != nil {
			log.Fatal("Error: -recipe must be a uuid:", err)
		}
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to begin transaction:", err)
	}
	defer uow.Rollback()

	for i, name := range demoIngredients {
		if err := uow.IngredientRepository().Create(ctx, &entity.Ingredient{Id: uuid.New(), RecipeId: recipeId, Name: name, Position: i}); err != nil {
			log.Fatalf("Error creating ingredient '%s': %v", name, err)
		}
	}
	for i, name := range demoEquipment {
		if err := uow.EquipmentRepository().Create(ctx, &entity.Equipment{Id: uuid.New(), RecipeId: recipeId, Name: name, Position: i}); err != nil {
			log.Fatalf("Error creating equipment '%s': %v", name, err)
		}
	}

	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Failed to commit:", err)
	}
	log.Printf("Seeded recipe %s: %d ingredients, %d equipment", recipeId, len(demoIngredients), len(demoEquipment))

	// Tell running editors to rebuild their candidates
	pub, err := pktNats.NewPublisher(getEnv("NATS_URL", "nats://localhost:4222"))
	if err != nil {
		log.Printf("Warn: NATS unavailable, open editors keep their cached candidates: %v", err)
		return
	}
	defer pub.Close()

	for _, eventType := range []string{events.IngredientsChanged, events.EquipmentChanged} {
		evt := events.BaseEvent{
			Type:       eventType,
			Data:       map[string]interface{}{"recipe_id": recipeId.String()},
			OccurredAt: time.Now(),
		}
		if err := pub.Publish(ctx, evt); err != nil {
			log.Printf("Warn: Failed to publish %s: %v", eventType, err)
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
