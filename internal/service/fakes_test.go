package service

import (
	"context"
	"encoding/json"
	"sync"

	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/repository/contract"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/events"
	"recipe-steps-be/pkg/mention"

	"github.com/google/uuid"
)

// stepsRepo keeps recipe steps rows in memory, keyed by recipe id
type stepsRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*entity.RecipeSteps
	findErr error
}

func newStepsRepo() *stepsRepo {
	return &stepsRepo{rows: make(map[uuid.UUID]*entity.RecipeSteps)}
}

func (r *stepsRepo) Create(_ context.Context, steps *entity.RecipeSteps) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *steps
	r.rows[steps.RecipeId] = &row
	return nil
}

func (r *stepsRepo) Update(ctx context.Context, steps *entity.RecipeSteps) error {
	return r.Create(ctx, steps)
}

func (r *stepsRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.RecipeSteps, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var row *entity.RecipeSteps
	for _, spec := range specs {
		if by, ok := spec.(specification.ByRecipeID); ok {
			row = r.rows[by.RecipeID]
		}
	}
	if row == nil {
		return nil, nil
	}
	for _, spec := range specs {
		if owner, ok := spec.(specification.OwnedByUser); ok && row.UserId != owner.UserID {
			return nil, nil
		}
	}
	out := *row
	return &out, nil
}

func (r *stepsRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type fakeUnitOfWork struct {
	steps     *stepsRepo
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error              { u.rollbacks++; return nil }

func (u *fakeUnitOfWork) IngredientRepository() contract.IngredientRepository { return nil }
func (u *fakeUnitOfWork) EquipmentRepository() contract.EquipmentRepository   { return nil }
func (u *fakeUnitOfWork) RecipeStepsRepository() contract.RecipeStepsRepository {
	return u.steps
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUnitOfWork{steps: newStepsRepo()}}
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeCandidates struct {
	items     map[uuid.UUID]*RecipeItems
	listeners []func(uuid.UUID)
}

func (c *fakeCandidates) Items(_ context.Context, recipeId uuid.UUID) (*RecipeItems, error) {
	if items, ok := c.items[recipeId]; ok {
		return items, nil
	}
	return &RecipeItems{}, nil
}

func (c *fakeCandidates) Invalidate(recipeId uuid.UUID) {
	for _, fn := range c.listeners {
		fn(recipeId)
	}
}

func (c *fakeCandidates) OnInvalidate(fn func(uuid.UUID)) {
	c.listeners = append(c.listeners, fn)
}

func (c *fakeCandidates) Start() error { return nil }

type fakePublisher struct {
	mu       sync.Mutex
	messages []dto.PublishAutosaveMessage
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	var msg dto.PublishAutosaveMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) last() dto.PublishAutosaveMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[len(p.messages)-1]
}

type sentFrame struct {
	sessionID   string
	messageType string
	data        interface{}
}

type fakeBroadcaster struct {
	mu           sync.Mutex
	frames       []sentFrame
	disconnected []string
}

func (b *fakeBroadcaster) Send(sessionID string, messageType string, data interface{}) {
	b.mu.Lock()
	b.frames = append(b.frames, sentFrame{sessionID, messageType, data})
	b.mu.Unlock()
}

func (b *fakeBroadcaster) Disconnect(sessionID string) {
	b.mu.Lock()
	b.disconnected = append(b.disconnected, sessionID)
	b.mu.Unlock()
}

type fakeEventPublisher struct {
	published []events.Event
}

func (p *fakeEventPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func hotteokItems() *RecipeItems {
	return &RecipeItems{
		Equipment:   []mention.Item{{ID: "eq-1", Name: "cast iron pan"}},
		Ingredients: []mention.Item{{ID: "ing-1", Name: "설탕"}, {ID: "ing-2", Name: "버터"}},
	}
}
