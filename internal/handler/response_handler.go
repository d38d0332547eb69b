package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/service"
	"github.com/talentflow/talentflow-api/internal/utils"
)

// ResponseHandler wires candidate response HTTP routes.
type ResponseHandler struct {
	service  service.ResponseService
	feedback service.FeedbackService
	logger   zerolog.Logger
}

// NewResponseHandler constructs the handler.
func NewResponseHandler(svc service.ResponseService, feedback service.FeedbackService, logger zerolog.Logger) *ResponseHandler {
	return &ResponseHandler{
		service:  svc,
		feedback: feedback,
		logger:   logger.With().Str("component", "response_handler").Logger(),
	}
}

// Register attaches response endpoints to the router group.
func (h *ResponseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.start)
	router.Get("/:id", h.get)
	router.Put("/:id/answers", h.recordAnswer)
	router.Get("/:id/questions", h.visibleQuestions)
	router.Post("/:id/submit", h.submit)
	router.Put("/:id/score", h.applyScore)
	router.Get("/:id/feedback-suggestion", h.suggestFeedback)
}

func (h *ResponseHandler) list(c *fiber.Ctx) error {
	filter := dto.ResponseFilter{}
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	responses, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "responses retrieved", responses)
}

func (h *ResponseHandler) start(c *fiber.Ctx) error {
	payload := dto.ResponseStartRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Start(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "response started", response)
}

func (h *ResponseHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "response retrieved", response)
}

func (h *ResponseHandler) recordAnswer(c *fiber.Ctx) error {
	payload := dto.AnswerRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.RecordAnswer(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer recorded", response)
}

func (h *ResponseHandler) visibleQuestions(c *fiber.Ctx) error {
	questions, err := h.service.VisibleQuestions(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "visible questions retrieved", questions)
}

func (h *ResponseHandler) submit(c *fiber.Ctx) error {
	response, err := h.service.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "response submitted", response)
}

func (h *ResponseHandler) applyScore(c *fiber.Ctx) error {
	payload := dto.ScoreRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.ApplyScore(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "score applied", response)
}

func (h *ResponseHandler) suggestFeedback(c *fiber.Ctx) error {
	suggestion, err := h.feedback.Suggest(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrFeedbackUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "feedback suggestions are not configured")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback suggestion drafted", suggestion)
}

func (h *ResponseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrResponseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "response not found")
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrResponseCompleted):
		return utils.SendError(c, fiber.StatusConflict, "response already completed")
	case errors.Is(err, service.ErrResponseNotCompleted):
		return utils.SendError(c, fiber.StatusConflict, "response is not completed")
	case errors.Is(err, service.ErrInvalidAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
