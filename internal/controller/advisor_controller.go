package controller

import (
	"context"
	"errors"

	"connector-selector/internal/dto"
	"connector-selector/internal/mapper"
	"connector-selector/internal/pkg/serverutils"
	"connector-selector/pkg/advisor"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/decision"
	"connector-selector/pkg/requirement"

	"github.com/gofiber/fiber/v2"
)

// AdvisorService is the part of advisor.Service the HTTP API uses.
type AdvisorService interface {
	BeginSession(ctx context.Context) (string, error)
	SubmitOpeningMessage(ctx context.Context, sessionID, text string) (decision.Outcome, error)
	SubmitAnswer(ctx context.Context, sessionID, text string) (decision.Outcome, error)
	Restart(ctx context.Context, sessionID string) (decision.Outcome, error)
	Answers(sessionID string) (requirement.Answers, error)
	EndSession(sessionID string)
}

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	BeginSession(ctx *fiber.Ctx) error
	SubmitOpeningMessage(ctx *fiber.Ctx) error
	SubmitAnswer(ctx *fiber.Ctx) error
	Restart(ctx *fiber.Ctx) error
	GetAnswers(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	GetCatalog(ctx *fiber.Ctx) error
}

type advisorController struct {
	service AdvisorService
	catalog *catalog.Catalog
	mapper  *mapper.AdvisorMapper
}

func NewAdvisorController(service AdvisorService, cat *catalog.Catalog) IAdvisorController {
	return &advisorController{service: service, catalog: cat, mapper: mapper.NewAdvisorMapper()}
}

func (c *advisorController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/advisor/v1", auth)
	h.Get("/catalog", c.GetCatalog)
	h.Post("/sessions", c.BeginSession)
	h.Post("/sessions/:id/opening", c.SubmitOpeningMessage)
	h.Post("/sessions/:id/answers", c.SubmitAnswer)
	h.Post("/sessions/:id/restart", c.Restart)
	h.Get("/sessions/:id/answers", c.GetAnswers)
	h.Delete("/sessions/:id", c.EndSession)
}

func (c *advisorController) BeginSession(ctx *fiber.Ctx) error {
	id, err := c.service.BeginSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session started", dto.BeginSessionResponse{SessionId: id}))
}

func (c *advisorController) SubmitOpeningMessage(ctx *fiber.Ctx) error {
	var req dto.OpeningMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	out, err := c.service.SubmitOpeningMessage(ctx.UserContext(), ctx.Params("id"), req.Message)
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit opening message", c.mapper.ToOutcomeResponse(out)))
}

func (c *advisorController) SubmitAnswer(ctx *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	out, err := c.service.SubmitAnswer(ctx.UserContext(), ctx.Params("id"), req.Answer)
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", c.mapper.ToOutcomeResponse(out)))
}

func (c *advisorController) Restart(ctx *fiber.Ctx) error {
	out, err := c.service.Restart(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session restarted", c.mapper.ToOutcomeResponse(out)))
}

func (c *advisorController) GetAnswers(ctx *fiber.Ctx) error {
	answers, err := c.service.Answers(ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get answers", c.mapper.ToAnswerResponses(answers)))
}

func (c *advisorController) EndSession(ctx *fiber.Ctx) error {
	c.service.EndSession(ctx.Params("id"))

	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}

func (c *advisorController) GetCatalog(ctx *fiber.Ctx) error {
	candidates := c.catalog.Candidates()
	res := make([]dto.CandidateResponse, len(candidates))
	for i, cand := range candidates {
		res[i] = c.mapper.ToCandidateResponse(cand)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get catalog", res))
}

func sessionError(err error) error {
	if errors.Is(err, advisor.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return err
}
