package handler

import (
	"github.com/gofiber/fiber/v2"

	"docclean/internal/service"
)

// downloadName is the filename clients receive regardless of what was uploaded.
const downloadName = "uploaded_file.pdf"

// Upload stores the multipart "file" field as the current document.
//
//	@Summary	Upload a PDF
//	@Tags		document
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"PDF document"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	errorPayload
//	@Router		/upload [post]
func Upload(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "No file part in the request")
		}
		if fh.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "No selected file")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "unreadable file part")
		}
		defer f.Close()

		doc, err := docs.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "File uploaded successfully", "file_path": doc.Location})
	}
}

// DownloadPDF streams the stored document as an attachment.
//
//	@Summary	Download the uploaded PDF
//	@Tags		document
//	@Produce	application/pdf
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/download-pdf-file [get]
func DownloadPDF(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := docs.Download(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment(downloadName)
		c.Type("pdf")
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}

// UploadedFileURL reports where the stored document lives.
//
//	@Summary	Location of the uploaded PDF
//	@Tags		document
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	errorPayload
//	@Router		/uploaded-file-url [get]
func UploadedFileURL(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc, err := docs.Location(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"file_url": loc})
	}
}

// DocumentInfo returns size and page count of the stored document.
func DocumentInfo(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := docs.Info(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(info)
	}
}

// ExtractText extracts and persists the text of the stored document.
//
//	@Summary	Extract text from the uploaded PDF
//	@Tags		processing
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Router		/extract-text [post]
func ExtractText(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ex, err := docs.Extract(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":  "Text extracted successfully",
			"file_url": ex.FileURL,
			"text":     ex.Text,
		})
	}
}

func ExtractedText(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text, err := docs.ExtractedText(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"text": text})
	}
}
