package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/database"
	"recipe-steps-be/pkg/lexical"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

var (
	ingredientColor = color.New(color.FgGreen, color.Bold)
	equipmentColor  = color.New(color.FgCyan, color.Bold)
)

func main() {
	recipeFlag := flag.String("recipe", "", "recipe id whose steps document to inspect")
	raw := flag.Bool("raw", false, "also print the stored Lexical JSON")
	userFlag := flag.String("user", "", "optional author id; also reports how many steps documents they own")
	flag.Parse()

	recipeId, err := uuid.Parse(*recipeFlag)
	if err != nil {
		log.Fatalf("Error: -recipe must be a uuid: %v", err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.WithLogLevel(logger.Silent))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	steps, err := uow.RecipeStepsRepository().FindOne(ctx, specification.ByRecipeID{RecipeID: recipeId})
	if err != nil {
		log.Fatal("Error: Failed to load recipe steps:", err)
	}
	if steps == nil {
		color.Red("No steps document stored for recipe %s", recipeId)
		os.Exit(1)
	}

	if *userFlag != "" {
		userId, err := uuid.Parse(*userFlag)
		if err != nil {
			log.Fatalf("Error: -user must be a uuid: %v", err)
		}
		owned, err := uow.RecipeStepsRepository().Count(ctx, specification.OwnedByUser{UserID: userId})
		if err != nil {
			log.Fatal("Error: Failed to count steps documents:", err)
		}
		fmt.Printf("User %s owns %d steps documents (last saved here by %s)\n", userId, owned, steps.UserId)
	}

	color.Cyan("🔍 INSPECTING STEPS: recipe %s (version %d)\n", steps.RecipeId, steps.Version)
	fmt.Printf("Raw Content Length: %d bytes\n", len(steps.Content))

	root, err := lexical.Decode(steps.Content)
	if err != nil {
		color.Red("Stored document is not valid: %v", err)
		os.Exit(1)
	}

	if *raw {
		color.Yellow("\n─ RAW JSON ─")
		fmt.Println(steps.Content)
	}

	color.Yellow("\n─ STEPS ─")
	for i, block := range root.Root.Children {
		fmt.Printf("%2d. %s\n", i+1, highlight(block))
	}

	color.Yellow("\n─ MARKDOWN ─")
	fmt.Println(lexical.ParseContent(steps.Content))

	mentions := lexical.Mentions(root)
	color.Yellow("\n─ MENTIONS (%d) ─", len(mentions))
	for _, m := range mentions {
		c := ingredientColor
		if m.Kind == "equipment" {
			c = equipmentColor
		}
		fmt.Printf("%s  %-10s %s\n", c.Sprint(m.Text), m.Kind, m.ReferenceID)
	}
}

// highlight renders one paragraph with its mention tokens colored by kind
func highlight(node lexical.Node) string {
	var sb strings.Builder
	for _, child := range node.Children {
		switch child.Type {
		case lexical.TypeMention:
			if child.MentionKind == "equipment" {
				sb.WriteString(equipmentColor.Sprint(child.Text))
			} else {
				sb.WriteString(ingredientColor.Sprint(child.Text))
			}
		case lexical.TypeLineBreak:
			sb.WriteString(" ⏎ ")
		default:
			sb.WriteString(child.Text)
		}
	}
	return sb.String()
}
