package docstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docclean/internal/storage"
)

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	return New(storage.NewFilesystemFromFs(mem, "."), DefaultLayout("", ""), 0), mem
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout("uploads", "data")
	assert.Equal(t, "uploads/uploaded_file.pdf", l[SlotDocument])
	assert.Equal(t, "data/extracted_text.txt", l[SlotExtractedText])
	assert.Equal(t, "data/cleaned_data.json", l[SlotCleanedResult])
}

func TestStore_PutDocumentReplaces(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)

	loc, err := s.PutDocument(ctx, strings.NewReader("first"), 5)
	require.NoError(t, err)
	assert.Equal(t, "uploads/uploaded_file.pdf", loc)

	_, err = s.PutDocument(ctx, strings.NewReader("second"), 6)
	require.NoError(t, err)

	b, err := afero.ReadFile(mem, "uploads/uploaded_file.pdf")
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	rc, info, err := s.OpenDocument(ctx)
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(got))
	assert.Equal(t, int64(6), info.Size)
}

func TestStore_MissingSlots(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.DocumentLocation(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.OpenDocument(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetText(ctx, SlotExtractedText)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetJSON(ctx, SlotCleanedResult)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(ctx, SlotCleanedResult)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TextRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	loc, err := s.PutText(ctx, SlotExtractedText, "Grüße aus Köln")
	require.NoError(t, err)
	assert.Equal(t, "data/extracted_text.txt", loc)

	got, err := s.GetText(ctx, SlotExtractedText)
	require.NoError(t, err)
	assert.Equal(t, "Grüße aus Köln", got)
}

func TestStore_PutJSONFormatting(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)

	v := []map[string]string{{"de_word": "Straße", "note": "<b>&</b>"}}
	_, err := s.PutJSON(ctx, SlotCleanedResult, v)
	require.NoError(t, err)

	b, err := afero.ReadFile(mem, "data/cleaned_data.json")
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"de_word\": \"Straße\",\n    \"note\": \"<b>&</b>\"\n  }\n]\n", string(b))

	raw, err := s.GetJSON(ctx, SlotCleanedResult)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"de_word":"Straße","note":"<b>&</b>"}]`, string(raw))

	ok, err := s.Exists(ctx, SlotCleanedResult)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_GetJSONMalformed(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)

	require.NoError(t, afero.WriteFile(mem, "data/cleaned_data.json", []byte("{not json"), 0o644))

	_, err := s.GetJSON(ctx, SlotCleanedResult)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStore_UnknownSlot(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.PutText(ctx, Slot("thumbnail"), "x")
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = s.Exists(ctx, Slot("thumbnail"))
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestStore_CustomSlot(t *testing.T) {
	ctx := context.Background()
	layout := DefaultLayout("", "")
	layout[Slot("summary")] = "data/summary.txt"
	s := New(storage.NewFilesystemFromFs(afero.NewMemMapFs(), "."), layout, 0)

	_, err := s.PutText(ctx, Slot("summary"), "short")
	require.NoError(t, err)
	got, err := s.GetText(ctx, Slot("summary"))
	require.NoError(t, err)
	assert.Equal(t, "short", got)
}
