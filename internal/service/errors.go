package service

import (
	"errors"

	"docclean/internal/ai"
	"docclean/internal/docstore"
	"docclean/internal/export"
	"docclean/internal/extractor"
)

// Errors returned by services. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidFile       = errors.New("only pdf files are accepted")
	ErrNotFound          = errors.New("not found")
	ErrMissingCredential = errors.New("api key is required")
	ErrInvalidAIResponse = errors.New("ai response is not valid json")
	// ErrDatabaseDisabled is returned by word list operations when no database is configured.
	ErrDatabaseDisabled = errors.New("database is not configured")

	ErrInvalidCredential   = ai.ErrInvalidCredential
	ErrUnsupportedProvider = ai.ErrUnsupportedProvider
	ErrProvider            = ai.ErrProvider
	ErrCorruptDocument     = extractor.ErrCorruptDocument
	ErrMalformed           = docstore.ErrMalformed
	ErrUnsupportedFormat   = export.ErrUnsupportedFormat
	ErrNotTabular          = export.ErrNotTabular
)
