package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/events"
	"recipe-steps-be/pkg/mention"
	pktNats "recipe-steps-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RecipeItems is the mentionable content of one recipe
type RecipeItems struct {
	Equipment   []mention.Item
	Ingredients []mention.Item
}

type ICandidateService interface {
	Items(ctx context.Context, recipeId uuid.UUID) (*RecipeItems, error)
	Invalidate(recipeId uuid.UUID)
	// OnInvalidate registers a listener run after a recipe's items were dropped from the cache
	OnInvalidate(fn func(recipeId uuid.UUID))
	Start() error
}

type candidateService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	cache      *cache.Cache
	logger     logger.ILogger

	mu        sync.RWMutex
	listeners []func(uuid.UUID)
}

func NewCandidateService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	ttl time.Duration,
	log logger.ILogger,
) ICandidateService {
	return &candidateService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		cache:      cache.New(ttl, 2*ttl),
		logger:     log,
	}
}

func (s *candidateService) Items(ctx context.Context, recipeId uuid.UUID) (*RecipeItems, error) {
	if x, found := s.cache.Get(recipeId.String()); found {
		return x.(*RecipeItems), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	equipment, err := uow.EquipmentRepository().FindAll(ctx,
		specification.ByRecipeID{RecipeID: recipeId},
		specification.InListOrder{},
	)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}

	ingredients, err := uow.IngredientRepository().FindAll(ctx,
		specification.ByRecipeID{RecipeID: recipeId},
		specification.InListOrder{},
	)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}

	items := &RecipeItems{
		Equipment:   make([]mention.Item, 0, len(equipment)),
		Ingredients: make([]mention.Item, 0, len(ingredients)),
	}
	for _, e := range equipment {
		items.Equipment = append(items.Equipment, mention.Item{ID: e.Id.String(), Name: e.Name})
	}
	for _, i := range ingredients {
		items.Ingredients = append(items.Ingredients, mention.Item{ID: i.Id.String(), Name: i.Name})
	}

	s.cache.Set(recipeId.String(), items, cache.DefaultExpiration)
	return items, nil
}

func (s *candidateService) Invalidate(recipeId uuid.UUID) {
	s.cache.Delete(recipeId.String())

	s.mu.RLock()
	listeners := append([]func(uuid.UUID){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(recipeId)
	}
}

func (s *candidateService) OnInvalidate(fn func(recipeId uuid.UUID)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Start subscribes to recipe item changes published by the recipe service
func (s *candidateService) Start() error {
	if s.subscriber == nil {
		return fmt.Errorf("nats subscriber not configured")
	}

	handler := func(ctx context.Context, event events.BaseEvent) error {
		raw, ok := event.String("recipe_id")
		if !ok {
			s.logger.Warn("CandidateService", "Change event without recipe_id", map[string]interface{}{"type": event.EventType()})
			return nil
		}
		recipeId, err := uuid.Parse(raw)
		if err != nil {
			s.logger.Warn("CandidateService", "Change event with invalid recipe_id", map[string]interface{}{"recipe_id": raw})
			return nil
		}

		s.logger.Info("CandidateService", "Recipe items changed", map[string]interface{}{
			"type":      event.EventType(),
			"recipe_id": recipeId,
		})
		s.Invalidate(recipeId)
		return nil
	}

	if err := s.subscriber.Subscribe(events.IngredientsChanged, "steps-editor-ingredients", handler); err != nil {
		return err
	}
	return s.subscriber.Subscribe(events.EquipmentChanged, "steps-editor-equipment", handler)
}
