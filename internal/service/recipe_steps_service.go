package service

import (
	"context"
	"encoding/json"

	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/pkg/serverutils"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/lexical"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrRecipeStepsNotFound  = serverutils.NewAppError(fiber.StatusNotFound, "Recipe steps not found", nil)
	ErrRecipeStepsForbidden = serverutils.NewAppError(fiber.StatusForbidden, "Recipe steps belong to another user", nil)
)

type IRecipeStepsService interface {
	Show(ctx context.Context, userId uuid.UUID, recipeId uuid.UUID) (*dto.RecipeStepsResponse, error)
}

type recipeStepsService struct {
	uowFactory unitofwork.RepositoryFactory
	parser     *lexical.Parser
}

func NewRecipeStepsService(uowFactory unitofwork.RepositoryFactory) IRecipeStepsService {
	return &recipeStepsService{
		uowFactory: uowFactory,
		parser:     lexical.NewParser(),
	}
}

func (s *recipeStepsService) Show(ctx context.Context, userId uuid.UUID, recipeId uuid.UUID) (*dto.RecipeStepsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	steps, err := uow.RecipeStepsRepository().FindOne(ctx,
		specification.ByRecipeID{RecipeID: recipeId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		return nil, ErrRecipeStepsNotFound
	}

	root, err := lexical.Decode(steps.Content)
	if err != nil {
		return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, "Stored steps document is invalid", err)
	}

	markdown, err := s.parser.Parse(steps.Content)
	if err != nil {
		return nil, err
	}

	return &dto.RecipeStepsResponse{
		RecipeId:  steps.RecipeId,
		Version:   steps.Version,
		Content:   json.RawMessage(steps.Content),
		Markdown:  markdown,
		PlainText: lexical.PlainText(root),
		Mentions:  lexical.Mentions(root),
		UpdatedAt: steps.UpdatedAt,
	}, nil
}
