// Package storage contains the flat file-store abstraction memos are persisted on,
// with local filesystem, S3-compatible and PostgreSQL backends.
// Keys are slash-separated: "<folder>/<name>". Folders are flat; backends never
// create nested folders on their own.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"
)

// ErrObjectNotFound is returned when a key does not resolve to a stored object.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for writing objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Name         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is the backing medium of the notes folder.
type Storage interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// EnsureFolder creates folder if it does not exist. It is idempotent.
	EnsureFolder(ctx context.Context, folder string) error
	// List returns the objects directly inside folder, ordered by name.
	List(ctx context.Context, folder string) ([]ObjectInfo, error)
	// Stat returns an object's info or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Put creates or overwrites an object. The parent folder must exist.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key, or returns ErrObjectNotFound.
	Delete(ctx context.Context, key string) error
}

// Key joins a folder and a file name into a storage key.
func Key(folder, name string) string {
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// Split returns the folder and file name of key.
func Split(key string) (folder, name string) {
	folder, name = path.Split(key)
	return path.Clean("/" + folder)[1:], name
}
