package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ingredient struct {
	Id       uuid.UUID
	RecipeId uuid.UUID
	Name     string
	Position int
}

type Equipment struct {
	Id       uuid.UUID
	RecipeId uuid.UUID
	Name     string
	Position int
}

type RecipeSteps struct {
	Id        uuid.UUID
	RecipeId  uuid.UUID
	UserId    uuid.UUID
	Content   string // Lexical JSON
	Version   int64
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
