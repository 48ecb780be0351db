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
	"sort"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// fsStorage implements Storage on an afero filesystem. Keys are paths relative
// to the filesystem root.
type fsStorage struct {
	fs afero.Fs
}

// NewFS creates a Storage backed by fsys. Tests use afero.NewMemMapFs.
func NewFS(fsys afero.Fs) Storage {
	return &fsStorage{fs: fsys}
}

// NewLocal creates a Storage rooted at dir on the local disk, creating dir if needed.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", dir, err)
	}
	return NewFS(afero.NewBasePathFs(osFs, dir)), nil
}

func (s *fsStorage) path(key string) string {
	return filepath.FromSlash(key)
}

func (s *fsStorage) Ping(ctx context.Context) error {
	if _, err := s.fs.Stat(s.path(".")); err != nil {
		return fmt.Errorf("stat storage root: %w", err)
	}
	return nil
}

func (s *fsStorage) EnsureFolder(ctx context.Context, folder string) error {
	if folder == "" {
		return nil
	}
	info, err := s.fs.Stat(s.path(folder))
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("notes folder %q is not a directory", folder)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat folder %q: %w", folder, err)
	}
	if err := s.fs.MkdirAll(s.path(folder), dirPerm); err != nil {
		return fmt.Errorf("create folder %q: %w", folder, err)
	}
	return nil
}

func (s *fsStorage) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	dir := folder
	if dir == "" {
		dir = "."
	}
	entries, err := afero.ReadDir(s.fs, s.path(dir))
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", folder, err)
	}

	out := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, infoFor(Key(folder, e.Name()), e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fsStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := s.fs.Stat(s.path(key))
	if err != nil {
		return ObjectInfo{}, mapFsError(key, err)
	}
	if info.IsDir() {
		return ObjectInfo{}, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return infoFor(key, info), nil
}

func (s *fsStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	f, err := s.fs.OpenFile(s.path(key), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("open %q for write: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return ObjectInfo{}, fmt.Errorf("write %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("close %q: %w", key, err)
	}
	return s.Stat(ctx, key)
}

func (s *fsStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := s.fs.Open(s.path(key))
	if err != nil {
		return nil, ObjectInfo{}, mapFsError(key, err)
	}
	return f, info, nil
}

func (s *fsStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.Stat(ctx, key); err != nil {
		return err
	}
	if err := s.fs.Remove(s.path(key)); err != nil {
		return mapFsError(key, err)
	}
	return nil
}

func infoFor(key string, fi fs.FileInfo) ObjectInfo {
	return ObjectInfo{
		Key:          key,
		Name:         fi.Name(),
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(path.Ext(fi.Name())),
		LastModified: fi.ModTime(),
	}
}

func mapFsError(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}
