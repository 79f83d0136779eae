package contract

import (
	"context"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/repository/specification"
)

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ingredient, error)
}

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Equipment, error)
}

type RecipeStepsRepository interface {
	Create(ctx context.Context, steps *entity.RecipeSteps) error
	Update(ctx context.Context, steps *entity.RecipeSteps) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecipeSteps, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
