// Package repository contains data access abstractions for memos.
// Implementations live in subpackages (e.g., vault).
package repository

import (
	"context"
	"errors"

	"memoapi/internal/model"
)

var (
	// ErrNotFound is returned when an id does not resolve to a stored memo.
	ErrNotFound = errors.New("memo not found")
	// ErrNoBackingFile is returned when saving a memo that was never read from storage.
	ErrNoBackingFile = errors.New("memo has no backing file")
)

// MemoRepository persists memos. It holds no business rules: ids, timestamps and
// tags are decided by the caller, with the single exception of create-time
// collisions which Create resolves.
type MemoRepository interface {
	// Init ensures the notes folder exists. It is idempotent.
	Init(ctx context.Context) error

	// Ping checks that the backing medium is reachable.
	Ping(ctx context.Context) error

	// Create stores a new memo under a file named after m.CreatedAt. When that name
	// is already taken CreatedAt is advanced one millisecond at a time until a free
	// name is found; ID follows CreatedAt. Returns the stored memo with FileKey set.
	Create(ctx context.Context, m *model.Memo) (*model.Memo, error)

	// FindByID returns the memo whose identity is id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Memo, error)

	// Save overwrites the backing file of a memo previously read from storage.
	// It returns ErrNoBackingFile when m.FileKey is empty and ErrNotFound when the
	// file is gone.
	Save(ctx context.Context, m *model.Memo) error

	// Delete removes the memo with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns every decodable memo in the notes folder in storage order.
	// Files that fail to read or decode are skipped.
	List(ctx context.Context) ([]model.Memo, error)
}
