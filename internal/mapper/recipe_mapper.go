package mapper

import (
	"time"

	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IngredientMapper struct{}

func NewIngredientMapper() *IngredientMapper {
	return &IngredientMapper{}
}

func (m *IngredientMapper) ToEntity(i *model.Ingredient) *entity.Ingredient {
	if i == nil {
		return nil
	}
	return &entity.Ingredient{
		Id:       i.Id,
		RecipeId: i.RecipeId,
		Name:     i.Name,
		Position: i.Position,
	}
}

func (m *IngredientMapper) ToModel(i *entity.Ingredient) *model.Ingredient {
	if i == nil {
		return nil
	}
	return &model.Ingredient{
		Id:       i.Id,
		RecipeId: i.RecipeId,
		Name:     i.Name,
		Position: i.Position,
	}
}

func (m *IngredientMapper) ToEntities(items []*model.Ingredient) []*entity.Ingredient {
	entities := make([]*entity.Ingredient, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}

type EquipmentMapper struct{}

func NewEquipmentMapper() *EquipmentMapper {
	return &EquipmentMapper{}
}

func (m *EquipmentMapper) ToEntity(e *model.Equipment) *entity.Equipment {
	if e == nil {
		return nil
	}
	return &entity.Equipment{
		Id:       e.Id,
		RecipeId: e.RecipeId,
		Name:     e.Name,
		Position: e.Position,
	}
}

func (m *EquipmentMapper) ToModel(e *entity.Equipment) *model.Equipment {
	if e == nil {
		return nil
	}
	return &model.Equipment{
		Id:       e.Id,
		RecipeId: e.RecipeId,
		Name:     e.Name,
		Position: e.Position,
	}
}

func (m *EquipmentMapper) ToEntities(items []*model.Equipment) []*entity.Equipment {
	entities := make([]*entity.Equipment, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}

type RecipeStepsMapper struct{}

func NewRecipeStepsMapper() *RecipeStepsMapper {
	return &RecipeStepsMapper{}
}

func (m *RecipeStepsMapper) ToEntity(s *model.RecipeSteps) *entity.RecipeSteps {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.RecipeSteps{
		Id:        s.Id,
		RecipeId:  s.RecipeId,
		UserId:    s.UserId,
		Content:   string(s.Content),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *RecipeStepsMapper) ToModel(s *entity.RecipeSteps) *model.RecipeSteps {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var content datatypes.JSON
	if s.Content != "" {
		content = datatypes.JSON(s.Content)
	}

	return &model.RecipeSteps{
		Id:        s.Id,
		RecipeId:  s.RecipeId,
		UserId:    s.UserId,
		Content:   content,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
