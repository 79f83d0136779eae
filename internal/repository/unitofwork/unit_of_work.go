package unitofwork

import (
	"context"

	"recipe-steps-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	IngredientRepository() contract.IngredientRepository
	EquipmentRepository() contract.EquipmentRepository
	RecipeStepsRepository() contract.RecipeStepsRepository
}
