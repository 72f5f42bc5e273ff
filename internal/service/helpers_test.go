package service

import (
	"testing"

	"github.com/spf13/afero"

	"docclean/internal/docstore"
	"docclean/internal/logging"
	"docclean/internal/storage"
)

func newTestStore(t *testing.T) (*docstore.Store, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	return docstore.New(storage.NewFilesystemFromFs(mem, "."), docstore.DefaultLayout("uploads", "data"), 0), mem
}

var nopLog = logging.Nop()
