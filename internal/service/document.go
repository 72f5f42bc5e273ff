package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"docclean/internal/docstore"
	"docclean/internal/extractor"
	"docclean/internal/logging"
	"docclean/internal/model"
	"docclean/internal/storage"
)

// DocumentService handles the single uploaded document and its text.
type DocumentService interface {
	// Upload replaces the stored document. filename must end in .pdf (any case).
	Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.StoredDocument, error)

	// Location returns where the stored document can be fetched.
	Location(ctx context.Context) (string, error)

	// Download opens the stored document. The caller closes the reader.
	Download(ctx context.Context) (io.ReadCloser, storage.ObjectInfo, error)

	// Extract reads the stored document, persists its text and returns it.
	Extract(ctx context.Context) (*model.Extraction, error)

	// ExtractedText returns the last persisted extraction.
	ExtractedText(ctx context.Context) (string, error)

	// Info returns size and page count of the stored document.
	Info(ctx context.Context) (*model.DocumentInfo, error)
}

type documentService struct {
	store *docstore.Store
	log   logging.Logger
}

// NewDocumentService constructs a DocumentService over store.
func NewDocumentService(store *docstore.Store, log logging.Logger) DocumentService {
	return &documentService{store: store, log: log.WithField(logging.FieldComponent, "document")}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.StoredDocument, error) {
	if r == nil || filename == "" {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrInvalidFile
	}

	loc, err := s.store.PutDocument(ctx, r, size)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	logging.WithContext(ctx, s.log).Info("document uploaded",
		logging.F("filename", filename),
		logging.F(logging.FieldBytes, size),
		logging.F(logging.FieldLocation, loc))

	return &model.StoredDocument{
		Filename:    filename,
		Location:    loc,
		Size:        size,
		ContentType: "application/pdf",
		UploadedAt:  time.Now().UTC(),
	}, nil
}

func (s *documentService) Location(ctx context.Context) (string, error) {
	loc, err := s.store.DocumentLocation(ctx)
	return loc, notFound(err, "no document uploaded")
}

func (s *documentService) Download(ctx context.Context) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.OpenDocument(ctx)
	return rc, info, notFound(err, "no document uploaded")
}

func (s *documentService) Extract(ctx context.Context) (*model.Extraction, error) {
	start := time.Now()
	data, err := s.readDocument(ctx)
	if err != nil {
		return nil, err
	}

	log := logging.WithContext(ctx, s.log)
	text, err := extractor.Extract(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.WithError(err).Warn("text extraction failed")
		return nil, err
	}

	loc, err := s.store.PutText(ctx, docstore.SlotExtractedText, text)
	if err != nil {
		return nil, fmt.Errorf("store extracted text: %w", err)
	}
	log.Info("text extracted",
		logging.F(logging.FieldBytes, len(text)),
		logging.F(logging.FieldLocation, loc),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return &model.Extraction{FileURL: loc, Text: text}, nil
}

func (s *documentService) ExtractedText(ctx context.Context) (string, error) {
	text, err := s.store.GetText(ctx, docstore.SlotExtractedText)
	return text, notFound(err, "no text extracted yet")
}

func (s *documentService) Info(ctx context.Context) (*model.DocumentInfo, error) {
	data, err := s.readDocument(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := extractor.PageCount(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	loc, err := s.Location(ctx)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, s.log).Debug("document inspected", logging.F(logging.FieldPages, pages))
	return &model.DocumentInfo{FileURL: loc, Size: int64(len(data)), Pages: pages}, nil
}

func (s *documentService) readDocument(ctx context.Context) ([]byte, error) {
	rc, _, err := s.store.OpenDocument(ctx)
	if err != nil {
		return nil, notFound(err, "no document uploaded")
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

// notFound rewrites store misses as ErrNotFound; other errors pass through.
func notFound(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return err
}
