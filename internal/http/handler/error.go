package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docclean/internal/http/middleware"
	"docclean/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response. message must be safe
// to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// errorMapping binds a service error to its HTTP representation. When
// message is empty the error text itself is returned; this is only done for
// errors whose text is built from caller input.
type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{service.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR", ""},
	{service.ErrInvalidFile, fiber.StatusBadRequest, "INVALID_FILE", "Invalid file format. Only PDF files are allowed."},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{service.ErrMissingCredential, fiber.StatusUnauthorized, "MISSING_CREDENTIAL", "API key is required. Provide user_api_key or configure GEMINI_API_KEY."},
	{service.ErrInvalidCredential, fiber.StatusUnauthorized, "INVALID_CREDENTIAL", "the AI provider rejected the API key"},
	{service.ErrUnsupportedProvider, fiber.StatusBadRequest, "UNSUPPORTED_PROVIDER", "Invalid AI provider. Must be 'gemini' or 'openai'"},
	{service.ErrUnsupportedFormat, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "format must be one of csv, xlsx, json"},
	{service.ErrNotTabular, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "cleaned result cannot be exported as a table"},
	{service.ErrDatabaseDisabled, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "word list database is not configured"},
	{service.ErrCorruptDocument, fiber.StatusInternalServerError, "CORRUPT_DOCUMENT", "error extracting text from the document"},
	{service.ErrInvalidAIResponse, fiber.StatusInternalServerError, "INVALID_AI_RESPONSE", "AI response is not valid JSON"},
	{service.ErrMalformed, fiber.StatusInternalServerError, "MALFORMED_ARTIFACT", "stored artifact is malformed"},
	{service.ErrProvider, fiber.StatusInternalServerError, "PROVIDER_ERROR", "error processing with AI"},
}

// writeServiceError maps err onto the error taxonomy. Unknown errors become
// a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
