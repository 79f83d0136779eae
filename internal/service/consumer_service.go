// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/entity"
	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/pkg/events"
	"recipe-steps-be/pkg/lexical"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher EventPublisher
	logger         logger.ILogger
}

// NewConsumerService persists autosave messages. eventPublisher may be nil when NATS is unavailable.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishAutosaveMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal autosave message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	root, err := lexical.Decode(payload.Content)
	if err != nil {
		cs.logger.Error("ConsumerService", "Autosave content is not a steps document", map[string]interface{}{
			"recipe_id": payload.RecipeId,
			"error":     err.Error(),
		})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ConsumerService", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	repo := uow.RecipeStepsRepository()
	steps, err := repo.FindOne(ctx, specification.ByRecipeID{RecipeID: payload.RecipeId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load recipe steps", map[string]interface{}{
			"recipe_id": payload.RecipeId,
			"error":     err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	if steps == nil {
		steps = &entity.RecipeSteps{
			Id:        uuid.New(),
			RecipeId:  payload.RecipeId,
			UserId:    payload.UserId,
			Content:   payload.Content,
			Version:   1,
			CreatedAt: time.Now(),
		}
		err = repo.Create(ctx, steps)
	} else if steps.UserId != payload.UserId {
		cs.logger.Warn("ConsumerService", "Autosave from a user who does not own the steps document", map[string]interface{}{
			"recipe_id":  payload.RecipeId,
			"session_id": payload.SessionId,
			"user_id":    payload.UserId,
		})
		msg.Ack() // Not retriable
		return
	} else {
		now := time.Now()
		steps.Content = payload.Content
		steps.Version++
		steps.UpdatedAt = &now
		err = repo.Update(ctx, steps)
	}
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to save recipe steps", map[string]interface{}{
			"recipe_id": payload.RecipeId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ConsumerService", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	mentions := len(lexical.Mentions(root))
	cs.logger.Info("ConsumerService", "Recipe steps saved", map[string]interface{}{
		"recipe_id":      payload.RecipeId,
		"session_id":     payload.SessionId,
		"version":        steps.Version,
		"editor_version": payload.Version,
		"mentions":       mentions,
	})

	// The row is committed; a lost notification only delays downstream consumers
	if cs.eventPublisher != nil {
		evt := events.NewRecipeStepsSaved(payload.RecipeId.String(), payload.UserId.String(), steps.Version, mentions)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish RECIPE_STEPS_SAVED event", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}
