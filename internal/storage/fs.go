package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// fsStorage keeps objects as files below a root directory.
// Writes go to a temp file in the target directory and are renamed into place,
// so readers never observe a half-written object.
type fsStorage struct {
	fs   afero.Fs
	root string
}

// NewFilesystem returns a Storage rooted at dir on the local disk.
func NewFilesystem(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &fsStorage{fs: afero.NewBasePathFs(afero.NewOsFs(), root), root: root}, nil
}

// NewFilesystemFromFs wraps an existing afero.Fs; root is only used to build
// locations returned by PresignGet.
func NewFilesystemFromFs(afs afero.Fs, root string) Storage {
	return &fsStorage{fs: afs, root: root}
}

func (s *fsStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	name := clean(key)
	dir := path.Dir(name)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return ObjectInfo{}, fmt.Errorf("rename into %s: %w", key, err)
	}

	ct := opt.ContentType
	if ct == "" {
		ct = contentTypeFor(key)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  ct,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (s *fsStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := s.fs.Open(clean(key))
	if err != nil {
		return nil, ObjectInfo{}, translate(err)
	}
	return f, info, nil
}

func (s *fsStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	st, err := s.fs.Stat(clean(key))
	if err != nil {
		return ObjectInfo{}, translate(err)
	}
	if st.IsDir() {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  contentTypeFor(key),
		LastModified: st.ModTime(),
	}, nil
}

func (s *fsStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.fs.Remove(clean(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PresignGet returns the on-disk path of the object; expiry does not apply.
func (s *fsStorage) PresignGet(ctx context.Context, key string, _ time.Duration) (string, error) {
	if _, err := s.Stat(ctx, key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean(key))), nil
}

func clean(key string) string {
	return path.Clean("/" + key)[1:]
}

func translate(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
