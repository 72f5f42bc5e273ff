// Package docstore keeps the single current document and its derived
// artifacts in fixed, named slots on top of a storage backend.
//
// Every write to a slot fully replaces what was there. Nothing is cached and
// nothing is locked: a concurrent upload and extraction may interleave.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"docclean/internal/storage"
)

// Slot names a persisted artifact.
type Slot string

const (
	SlotDocument      Slot = "document"
	SlotExtractedText Slot = "extracted_text"
	SlotCleanedResult Slot = "cleaned_result"
)

var (
	ErrNotFound    = errors.New("artifact not found")
	ErrMalformed   = errors.New("artifact is malformed")
	ErrUnknownSlot = errors.New("unknown slot")
)

// Layout maps each slot to a storage key.
type Layout map[Slot]string

// DefaultLayout returns the standard slot table rooted at uploadDir and dataDir.
func DefaultLayout(uploadDir, dataDir string) Layout {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if dataDir == "" {
		dataDir = "data"
	}
	return Layout{
		SlotDocument:      path.Join(uploadDir, "uploaded_file.pdf"),
		SlotExtractedText: path.Join(dataDir, "extracted_text.txt"),
		SlotCleanedResult: path.Join(dataDir, "cleaned_data.json"),
	}
}

// Store reads and writes artifacts by slot.
type Store struct {
	backend storage.Storage
	layout  Layout
	expiry  time.Duration
}

// New builds a Store. expiry is passed to the backend when resolving a
// location and is ignored by the filesystem backend.
func New(backend storage.Storage, layout Layout, expiry time.Duration) *Store {
	return &Store{backend: backend, layout: layout, expiry: expiry}
}

func (s *Store) key(slot Slot) (string, error) {
	k, ok := s.layout[slot]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return k, nil
}

// PutDocument replaces the document slot and returns its location.
func (s *Store) PutDocument(ctx context.Context, r io.Reader, size int64) (string, error) {
	return s.put(ctx, SlotDocument, r, size, "application/pdf")
}

// DocumentLocation returns the location of the current document.
func (s *Store) DocumentLocation(ctx context.Context) (string, error) {
	return s.Location(ctx, SlotDocument)
}

// OpenDocument opens the current document for reading.
func (s *Store) OpenDocument(ctx context.Context) (io.ReadCloser, storage.ObjectInfo, error) {
	k, err := s.key(SlotDocument)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.backend.Get(ctx, k)
	if err != nil {
		return nil, storage.ObjectInfo{}, mapErr(err)
	}
	return rc, info, nil
}

// Location resolves where the artifact in slot can be fetched from.
func (s *Store) Location(ctx context.Context, slot Slot) (string, error) {
	k, err := s.key(slot)
	if err != nil {
		return "", err
	}
	loc, err := s.backend.PresignGet(ctx, k, s.expiry)
	if err != nil {
		return "", mapErr(err)
	}
	return loc, nil
}

// Exists reports whether slot currently holds an artifact.
func (s *Store) Exists(ctx context.Context, slot Slot) (bool, error) {
	k, err := s.key(slot)
	if err != nil {
		return false, err
	}
	if _, err := s.backend.Stat(ctx, k); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) PutText(ctx context.Context, slot Slot, text string) (string, error) {
	return s.put(ctx, slot, bytes.NewBufferString(text), int64(len(text)), "text/plain; charset=utf-8")
}

func (s *Store) GetText(ctx context.Context, slot Slot) (string, error) {
	b, err := s.read(ctx, slot)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PutJSON writes v indented by two spaces, keeping non-ASCII and HTML characters as is.
func (s *Store) PutJSON(ctx context.Context, slot Slot, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode %s: %w", slot, err)
	}
	return s.put(ctx, slot, &buf, int64(buf.Len()), "application/json")
}

// GetJSON returns the raw JSON held in slot, or ErrMalformed when the stored
// bytes do not parse.
func (s *Store) GetJSON(ctx context.Context, slot Slot) (json.RawMessage, error) {
	b, err := s.read(ctx, slot)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if !json.Valid(b) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, slot)
	}
	return json.RawMessage(b), nil
}

func (s *Store) put(ctx context.Context, slot Slot, r io.Reader, size int64, contentType string) (string, error) {
	k, err := s.key(slot)
	if err != nil {
		return "", err
	}
	if _, err := s.backend.Put(ctx, k, r, storage.PutObjectOptions{Size: size, ContentType: contentType}); err != nil {
		return "", fmt.Errorf("store %s: %w", slot, err)
	}
	return s.Location(ctx, slot)
}

func (s *Store) read(ctx context.Context, slot Slot) ([]byte, error) {
	k, err := s.key(slot)
	if err != nil {
		return nil, err
	}
	rc, _, err := s.backend.Get(ctx, k)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", slot, err)
	}
	return b, nil
}

func mapErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
