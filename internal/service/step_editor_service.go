package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recipe-steps-be/internal/config"
	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/pkg/serverutils"
	"recipe-steps-be/internal/repository/memory"
	"recipe-steps-be/internal/repository/specification"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/internal/tracer"
	"recipe-steps-be/pkg/document"
	"recipe-steps-be/pkg/mention"
	"recipe-steps-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
	MessageClosed   = "closed"
)

var (
	ErrSessionNotFound  = serverutils.NewAppError(fiber.StatusNotFound, "Editor session not found", nil)
	ErrSessionForbidden = serverutils.NewAppError(fiber.StatusForbidden, "Editor session belongs to another user", nil)
)

// SessionBroadcaster pushes frames to the websocket clients of a session. Implemented by websocket.Hub.
type SessionBroadcaster interface {
	Send(sessionID string, messageType string, data interface{})
	Disconnect(sessionID string)
}

type IStepEditorService interface {
	Open(ctx context.Context, userId uuid.UUID, req *dto.OpenStepsEditorRequest) (*dto.StepsEditorResponse, error)
	Show(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.StepsEditorResponse, error)
	Dispatch(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.EditorEventRequest) (*dto.StepsEditorResponse, error)
	Close(ctx context.Context, userId uuid.UUID, sessionId string) error
}

type stepEditorService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessions    *memory.SessionRepository
	candidates  ICandidateService
	publisher   IPublisherService
	broadcaster SessionBroadcaster
	cfg         config.EditorConfig
	logger      logger.ILogger
}

func NewStepEditorService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	candidates ICandidateService,
	publisher IPublisherService,
	broadcaster SessionBroadcaster,
	cfg config.EditorConfig,
	log logger.ILogger,
) IStepEditorService {
	s := &stepEditorService{
		uowFactory:  uowFactory,
		sessions:    sessions,
		candidates:  candidates,
		publisher:   publisher,
		broadcaster: broadcaster,
		cfg:         cfg,
		logger:      log,
	}

	candidates.OnInvalidate(s.refreshCandidates)
	// Expired sessions still get their last edits saved
	sessions.OnEvicted(func(sess *store.Session) {
		sess.Lock()
		s.flush(sess)
		sess.Unlock()
	})

	return s
}

func (s *stepEditorService) Open(ctx context.Context, userId uuid.UUID, req *dto.OpenStepsEditorRequest) (*dto.StepsEditorResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "StepEditorService.Open")
	defer span.End()
	span.SetAttributes(attribute.String("recipe.id", req.RecipeId.String()))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	steps, err := uow.RecipeStepsRepository().FindOne(ctx, specification.ByRecipeID{RecipeID: req.RecipeId})
	if err != nil {
		return nil, err
	}

	content := ""
	var baseVersion int64
	if steps != nil {
		if steps.UserId != userId {
			return nil, ErrRecipeStepsForbidden
		}
		content = steps.Content
		baseVersion = steps.Version
	}

	doc, err := document.Load(content, document.WithLayout(s.layout(req.Container)))
	if err != nil {
		s.logger.Error("StepEditorService", "Stored steps document is invalid", map[string]interface{}{
			"recipe_id": req.RecipeId,
			"error":     err.Error(),
		})
		return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, "Stored steps document is invalid", err)
	}

	items, err := s.candidates.Items(ctx, req.RecipeId)
	if err != nil {
		return nil, err
	}

	sess := &store.Session{
		ID:          uuid.NewString(),
		UserID:      userId.String(),
		RecipeID:    req.RecipeId.String(),
		Doc:         doc,
		BaseVersion: baseVersion,
		OpenedAt:    time.Now(),
	}
	sess.Editor = mention.NewSession(doc, mention.Config{
		TriggerScanLimit: s.cfg.TriggerScanLimit,
		CandidateLimit:   s.cfg.CandidateLimit,
		DropdownOffset:   s.cfg.DropdownOffset,
		Logger:           s.logger,
		OnChange: func(mention.Document) {
			s.flush(sess)
		},
	})
	sess.Editor.SetCandidates(items.Equipment, items.Ingredients)
	if req.Container != nil {
		sess.Editor.SetContainer(*req.Container)
	}
	sess.PublishedVersion = doc.Version()

	s.sessions.Save(sess)
	s.logger.Info("StepEditorService", "Editor session opened", map[string]interface{}{
		"session_id": sess.ID,
		"recipe_id":  sess.RecipeID,
		"user_id":    sess.UserID,
	})

	return s.response(sess, false)
}

func (s *stepEditorService) Show(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.StepsEditorResponse, error) {
	sess, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return s.response(sess, false)
}

func (s *stepEditorService) Dispatch(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.EditorEventRequest) (*dto.StepsEditorResponse, error) {
	_, span := tracer.Tracer().Start(ctx, "StepEditorService.Dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("editor.session_id", sessionId),
		attribute.String("editor.event", req.Type),
	)

	sess, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	handled, err := s.apply(sess, req)
	if err != nil {
		sess.Unlock()
		return nil, err
	}
	res, err := s.response(sess, handled)
	sess.Unlock()
	if err != nil {
		return nil, err
	}

	// Refresh the idle expiry
	s.sessions.Save(sess)
	s.broadcaster.Send(sess.ID, MessageSnapshot, res)
	return res, nil
}

func (s *stepEditorService) Close(ctx context.Context, userId uuid.UUID, sessionId string) error {
	sess, err := s.session(userId, sessionId)
	if err != nil {
		return err
	}

	sess.Lock()
	s.flush(sess)
	sess.Unlock()

	s.sessions.Delete(sess.ID)
	s.broadcaster.Send(sess.ID, MessageClosed, fiber.Map{"session_id": sess.ID})
	s.broadcaster.Disconnect(sess.ID)

	s.logger.Info("StepEditorService", "Editor session closed", map[string]interface{}{"session_id": sess.ID})
	return nil
}

func (s *stepEditorService) session(userId uuid.UUID, sessionId string) (*store.Session, error) {
	sess, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID != userId.String() {
		return nil, ErrSessionForbidden
	}
	return sess, nil
}

// apply runs one input event against the session. The caller holds the session lock.
func (s *stepEditorService) apply(sess *store.Session, req *dto.EditorEventRequest) (bool, error) {
	editor := sess.Editor

	switch req.Type {
	case dto.EventInsertText:
		editor.InsertText(req.Text)
	case dto.EventKeyDown:
		return editor.KeyDown(mention.Key(req.Key), req.Shift), nil
	case dto.EventSelect:
		if req.Selection == nil {
			return false, serverutils.NewAppError(fiber.StatusBadRequest, "select requires a selection", nil)
		}
		editor.Select(*req.Selection)
	case dto.EventCompositionStart:
		editor.CompositionStart()
	case dto.EventCompositionUpdate:
		editor.CompositionUpdate(req.Text)
	case dto.EventCompositionEnd:
		editor.CompositionEnd(req.Text)
	case dto.EventSetContainer:
		if req.Container == nil {
			return false, serverutils.NewAppError(fiber.StatusBadRequest, "set_container requires a container", nil)
		}
		sess.Doc.SetLayout(s.layout(req.Container))
		editor.SetContainer(*req.Container)
	default:
		return false, serverutils.NewAppError(fiber.StatusBadRequest, "Unknown editor event", errors.New(req.Type))
	}
	return true, nil
}

// layout places the caret grid at the container's top-left corner
func (s *stepEditorService) layout(container *document.Rect) document.GridLayout {
	grid := document.GridLayout{
		CharWidth:  s.cfg.CharWidth,
		LineHeight: s.cfg.LineHeight,
		Columns:    s.cfg.Columns,
	}
	if container != nil {
		grid.Top = container.Top
		grid.Left = container.Left
	}
	return grid
}

// flush hands the document to autosave if it changed. The caller holds the session lock.
func (s *stepEditorService) flush(sess *store.Session) {
	if !sess.Dirty() {
		return
	}

	content, err := sess.Doc.JSON()
	if err != nil {
		s.logger.Error("StepEditorService", "Failed to encode document", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return
	}

	recipeId, _ := uuid.Parse(sess.RecipeID)
	userId, _ := uuid.Parse(sess.UserID)
	msg, err := json.Marshal(dto.PublishAutosaveMessage{
		SessionId: sess.ID,
		RecipeId:  recipeId,
		UserId:    userId,
		Content:   content,
		Version:   sess.Doc.Version(),
	})
	if err != nil {
		return
	}

	if err := s.publisher.Publish(context.Background(), msg); err != nil {
		s.logger.Warn("StepEditorService", "Failed to publish autosave", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return
	}
	sess.PublishedVersion = sess.Doc.Version()
}

// refreshCandidates reloads the mention candidates of every open session of the recipe
func (s *stepEditorService) refreshCandidates(recipeId uuid.UUID) {
	open := s.sessions.ByRecipe(recipeId.String())
	if len(open) == 0 {
		return
	}

	items, err := s.candidates.Items(context.Background(), recipeId)
	if err != nil {
		s.logger.Error("StepEditorService", "Failed to reload candidates", map[string]interface{}{
			"recipe_id": recipeId,
			"error":     err.Error(),
		})
		return
	}

	for _, sess := range open {
		sess.Lock()
		sess.Editor.SetCandidates(items.Equipment, items.Ingredients)
		res, err := s.response(sess, false)
		sess.Unlock()
		if err == nil {
			s.broadcaster.Send(sess.ID, MessageSnapshot, res)
		}
	}
}

func (s *stepEditorService) response(sess *store.Session, handled bool) (*dto.StepsEditorResponse, error) {
	content, err := sess.Doc.JSON()
	if err != nil {
		return nil, err
	}
	recipeId, _ := uuid.Parse(sess.RecipeID)

	return &dto.StepsEditorResponse{
		SessionId: sess.ID,
		RecipeId:  recipeId,
		Content:   json.RawMessage(content),
		Text:      sess.Doc.Text(),
		Handled:   handled,
		State:     sess.Editor.Snapshot(),
	}, nil
}
