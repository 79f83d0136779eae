package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByRecipeID struct {
	RecipeID uuid.UUID
}

func (s ByRecipeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("recipe_id = ?", s.RecipeID)
}

type OwnedByUser struct {
	UserID uuid.UUID
}

func (s OwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// InListOrder sorts ingredient and equipment rows the way the recipe lists them
type InListOrder struct{}

func (s InListOrder) Apply(db *gorm.DB) *gorm.DB {
	return OrderBy{Field: "position"}.Apply(db).Order("created_at ASC")
}
