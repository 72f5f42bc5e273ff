package handler

import (
	"github.com/gofiber/fiber/v2"

	"docclean/internal/model"
	"docclean/internal/service"
	"docclean/internal/templates"
)

// PromptTemplates lists the fixed prompt catalogue.
//
//	@Summary	List prompt templates
//	@Tags		processing
//	@Produce	json
//	@Success	200	{object}	map[string][]model.PromptTemplate
//	@Router		/prompt-templates [get]
func PromptTemplates() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"templates": templates.List()})
	}
}

// CleanWithAI runs the cleaning pipeline on the posted text.
//
//	@Summary	Clean extracted text with an LLM
//	@Tags		processing
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.CleaningRequest	true	"prompt, text and optional credential"
//	@Success	200		{object}	map[string]any
//	@Failure	400		{object}	errorPayload
//	@Failure	401		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/clean-with-ai [post]
func CleanWithAI(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.CleaningRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "request body must be a JSON object")
		}
		res, err := svc.Clean(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Data cleaned successfully", "content": res.Content})
	}
}

// CleanedResult returns the last persisted cleaned result.
func CleanedResult(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Result(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"content": res.Content})
	}
}

// ExportCleaned sends the cleaned result as a csv, xlsx or json attachment.
// The format defaults to csv.
func ExportCleaned(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Export(c.UserContext(), c.Query("format", "csv"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment(f.Name)
		c.Set(fiber.HeaderContentType, f.ContentType)
		return c.Send(f.Data)
	}
}
