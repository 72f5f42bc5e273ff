package handler

import (
	"github.com/gofiber/fiber/v2"

	"docclean/internal/service"
)

// Deps are the services the HTTP layer delegates to.
type Deps struct {
	Documents service.DocumentService
	Cleaning  service.CleaningService
	Words     service.WordService
	// Probes are checked by /health; every probe must pass.
	Probes []Probe
}

// RegisterRoutes attaches the API routes to app. Handlers only translate
// between HTTP and the services.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Welcome())
	app.Get("/health", HealthCheck(d.Probes...))
	app.Get("/healthz", LivenessProbe())

	app.Post("/upload", Upload(d.Documents))
	app.Get("/download-pdf-file", DownloadPDF(d.Documents))
	app.Get("/uploaded-file-url", UploadedFileURL(d.Documents))
	app.Get("/document-info", DocumentInfo(d.Documents))

	app.Post("/extract-text", ExtractText(d.Documents))
	app.Get("/extracted-text", ExtractedText(d.Documents))

	app.Get("/prompt-templates", PromptTemplates())
	app.Post("/clean-with-ai", CleanWithAI(d.Cleaning))
	app.Get("/cleaned-result", CleanedResult(d.Cleaning))
	app.Get("/cleaned-result/export", ExportCleaned(d.Cleaning))

	words := app.Group("/wordlist")
	words.Get("/", ListWords(d.Words))
	words.Post("/", AddWord(d.Words))
	words.Post("/import", ImportWords(d.Words))
	words.Delete("/:id", DeleteWord(d.Words))
}
