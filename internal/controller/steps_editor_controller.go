package controller

import (
	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/pkg/serverutils"
	"recipe-steps-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IStepsEditorController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Dispatch(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type stepsEditorController struct {
	stepEditorService service.IStepEditorService
}

func NewStepsEditorController(stepEditorService service.IStepEditorService) IStepsEditorController {
	return &stepsEditorController{
		stepEditorService: stepEditorService,
	}
}

func (c *stepsEditorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/steps-editor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Post(":id/events", c.Dispatch)
	h.Delete(":id", c.Close)
}

func (c *stepsEditorController) Open(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.OpenStepsEditorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.stepEditorService.Open(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success open steps editor", res))
}

func (c *stepsEditorController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.stepEditorService.Show(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show steps editor", res))
}

func (c *stepsEditorController) Dispatch(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.EditorEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.stepEditorService.Dispatch(ctx.UserContext(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply editor event", res))
}

func (c *stepsEditorController) Close(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	if err := c.stepEditorService.Close(ctx.UserContext(), userId, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close steps editor", nil))
}

type IRecipeStepsController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type recipeStepsController struct {
	recipeStepsService service.IRecipeStepsService
}

func NewRecipeStepsController(recipeStepsService service.IRecipeStepsService) IRecipeStepsController {
	return &recipeStepsController{
		recipeStepsService: recipeStepsService,
	}
}

func (c *recipeStepsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recipe-steps/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":recipeId", c.Show)
}

func (c *recipeStepsController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	recipeId, err := uuid.Parse(ctx.Params("recipeId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid recipe id")
	}

	res, err := c.recipeStepsService.Show(ctx.UserContext(), userId, recipeId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show recipe steps", res))
}
