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

// AssessmentHandler wires assessment HTTP routes.
type AssessmentHandler struct {
	service  service.AssessmentService
	stats    service.StatsService
	transfer service.TransferService
	logger   zerolog.Logger
}

// NewAssessmentHandler constructs the handler.
func NewAssessmentHandler(
	svc service.AssessmentService,
	stats service.StatsService,
	transfer service.TransferService,
	logger zerolog.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		service:  svc,
		stats:    stats,
		transfer: transfer,
		logger:   logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register attaches assessment endpoints to the router group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/validate", h.validate)
	router.Post("/import", h.importArchive)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/stats", h.getStats)
	router.Get("/:id/export", h.export)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	filter := dto.AssessmentFilter{}
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	assessments, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "assessments retrieved", assessments)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	assessment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment retrieved", assessment)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	payload := dto.AssessmentSaveRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment created", assessment)
}

func (h *AssessmentHandler) update(c *fiber.Ctx) error {
	payload := dto.AssessmentSaveRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment updated", assessment)
}

func (h *AssessmentHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment deleted", fiber.Map{"id": id})
}

// validate runs the structural checks without saving, for draft feedback in
// the builder.
func (h *AssessmentHandler) validate(c *fiber.Ctx) error {
	payload := dto.AssessmentSaveRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	violations := h.service.Validate(payload)
	return utils.SendSuccess(c, "assessment validated", fiber.Map{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

func (h *AssessmentHandler) getStats(c *fiber.Ctx) error {
	stats, err := h.stats.GetStats(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment stats retrieved", stats)
}

func (h *AssessmentHandler) export(c *fiber.Ctx) error {
	archive, err := h.transfer.Export(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment exported", archive)
}

func (h *AssessmentHandler) importArchive(c *fiber.Ctx) error {
	assessment, err := h.transfer.Import(c.Context(), c.Body())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment imported", assessment)
}

func (h *AssessmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var structuralError *service.StructuralError
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrInvalidArchive):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &structuralError):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, structuralError.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AssessmentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
