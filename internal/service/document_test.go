package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docclean/internal/logging"
	"docclean/internal/testutil"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	pdf := testutil.OnePagePDF("Hallo Welt")

	tests := []struct {
		name     string
		reader   io.Reader
		filename string
		wantErr  error
	}{
		{name: "happy path", reader: bytes.NewReader(pdf), filename: "lesson.pdf"},
		{name: "upper case extension", reader: bytes.NewReader(pdf), filename: "LESSON.PDF"},
		{name: "wrong extension", reader: strings.NewReader("hi"), filename: "notes.txt", wantErr: ErrInvalidFile},
		{name: "no extension", reader: strings.NewReader("hi"), filename: "pdf", wantErr: ErrInvalidFile},
		{name: "empty filename", reader: bytes.NewReader(pdf), filename: "", wantErr: ErrValidation},
		{name: "nil reader", reader: nil, filename: "a.pdf", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			svc := NewDocumentService(store, nopLog)

			doc, err := svc.Upload(ctx, tt.reader, tt.filename, int64(len(pdf)))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "uploads/uploaded_file.pdf", doc.Location)
			assert.Equal(t, tt.filename, doc.Filename)
		})
	}
}

func TestDocumentService_UploadTwiceKeepsOnlySecond(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	first := testutil.OnePagePDF("Erste")
	second := testutil.OnePagePDF("Zweite")
	_, err := svc.Upload(ctx, bytes.NewReader(first), "a.pdf", int64(len(first)))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, bytes.NewReader(second), "b.pdf", int64(len(second)))
	require.NoError(t, err)

	got, err := afero.ReadFile(mem, "uploads/uploaded_file.pdf")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	entries, err := afero.ReadDir(mem, "uploads")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDocumentService_RejectedUploadLeavesSlot(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	pdf := testutil.OnePagePDF("Hallo")
	_, err := svc.Upload(ctx, bytes.NewReader(pdf), "a.pdf", int64(len(pdf)))
	require.NoError(t, err)

	_, err = svc.Upload(ctx, strings.NewReader("plain"), "a.docx", 5)
	assert.ErrorIs(t, err, ErrInvalidFile)

	got, err := afero.ReadFile(mem, "uploads/uploaded_file.pdf")
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestDocumentService_NoDocument(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	_, err := svc.Location(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Download(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Extract(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Info(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ExtractedText(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_Extract(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	pdf := testutil.OnePagePDF("Hallo Welt")
	_, err := svc.Upload(ctx, bytes.NewReader(pdf), "hallo.pdf", int64(len(pdf)))
	require.NoError(t, err)

	ex, err := svc.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, "data/extracted_text.txt", ex.FileURL)
	assert.Equal(t, "Hallo Welt", ex.Text)

	persisted, err := afero.ReadFile(mem, "data/extracted_text.txt")
	require.NoError(t, err)
	assert.Equal(t, ex.Text, string(persisted))

	text, err := svc.ExtractedText(ctx)
	require.NoError(t, err)
	assert.Equal(t, ex.Text, text)
}

func TestDocumentService_ExtractTwiceIsIdentical(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	pdf := testutil.PDF("Eins", "", "Drei")
	_, err := svc.Upload(ctx, bytes.NewReader(pdf), "drei.pdf", int64(len(pdf)))
	require.NoError(t, err)

	first, err := svc.Extract(ctx)
	require.NoError(t, err)
	second, err := svc.Extract(ctx)
	require.NoError(t, err)

	assert.Equal(t, "EinsDrei", first.Text)
	assert.Equal(t, first.Text, second.Text)

	persisted, err := afero.ReadFile(mem, "data/extracted_text.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte(second.Text), persisted)
}

func TestDocumentService_ExtractCorrupt(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	junk := []byte("definitely not a pdf")
	_, err := svc.Upload(ctx, bytes.NewReader(junk), "junk.pdf", int64(len(junk)))
	require.NoError(t, err)

	_, err = svc.Extract(ctx)
	assert.ErrorIs(t, err, ErrCorruptDocument)

	exists, _ := afero.Exists(mem, "data/extracted_text.txt")
	assert.False(t, exists)
}

func TestDocumentService_Info(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	svc := NewDocumentService(store, nopLog)

	pdf := testutil.PDF("eins", "zwei", "drei")
	_, err := svc.Upload(ctx, bytes.NewReader(pdf), "three.pdf", int64(len(pdf)))
	require.NoError(t, err)

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Pages)
	assert.Equal(t, int64(len(pdf)), info.Size)
	assert.Equal(t, "uploads/uploaded_file.pdf", info.FileURL)
}

func TestDocumentService_UploadLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	store, _ := newTestStore(t)
	svc := NewDocumentService(store, logging.NewWithWriter(&buf, "info", "json"))

	ctx := logging.ContextWithRequestID(context.Background(), "req-7")
	pdf := testutil.OnePagePDF("Hallo")
	_, err := svc.Upload(ctx, bytes.NewReader(pdf), "a.pdf", int64(len(pdf)))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "document uploaded", entry["msg"])
	assert.Equal(t, "req-7", entry[logging.FieldRequestID])
	assert.Equal(t, "document", entry[logging.FieldComponent])
}
