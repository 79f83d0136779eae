package implementation

import (
	"context"
	"errors"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/mapper"
	"recipe-steps-be/internal/model"
	"recipe-steps-be/internal/repository/contract"
	"recipe-steps-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

type IngredientRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IngredientMapper
}

func NewIngredientRepository(db *gorm.DB) contract.IngredientRepository {
	return &IngredientRepositoryImpl{
		db:     db,
		mapper: mapper.NewIngredientMapper(),
	}
}

func (r *IngredientRepositoryImpl) Create(ctx context.Context, ingredient *entity.Ingredient) error {
	m := r.mapper.ToModel(ingredient)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ingredient = *r.mapper.ToEntity(m)
	return nil
}

func (r *IngredientRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ingredient, error) {
	var models []*model.Ingredient
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type EquipmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EquipmentMapper
}

func NewEquipmentRepository(db *gorm.DB) contract.EquipmentRepository {
	return &EquipmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewEquipmentMapper(),
	}
}

func (r *EquipmentRepositoryImpl) Create(ctx context.Context, equipment *entity.Equipment) error {
	m := r.mapper.ToModel(equipment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*equipment = *r.mapper.ToEntity(m)
	return nil
}

func (r *EquipmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Equipment, error) {
	var models []*model.Equipment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type RecipeStepsRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecipeStepsMapper
}

func NewRecipeStepsRepository(db *gorm.DB) contract.RecipeStepsRepository {
	return &RecipeStepsRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecipeStepsMapper(),
	}
}

func (r *RecipeStepsRepositoryImpl) Create(ctx context.Context, steps *entity.RecipeSteps) error {
	m := r.mapper.ToModel(steps)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*steps = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeStepsRepositoryImpl) Update(ctx context.Context, steps *entity.RecipeSteps) error {
	m := r.mapper.ToModel(steps)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*steps = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeStepsRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecipeSteps, error) {
	var m model.RecipeSteps
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecipeStepsRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.RecipeSteps{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
