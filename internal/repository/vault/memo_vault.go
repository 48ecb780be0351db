// Package vault implements repository.MemoRepository as one front-matter
// markdown file per memo inside a flat notes folder of a storage.Storage.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"memoapi/internal/memo"
	"memoapi/internal/model"
	"memoapi/internal/repository"
	"memoapi/internal/storage"
)

const contentType = "text/markdown; charset=utf-8"

// maxCreateAttempts bounds the collision search in Create.
const maxCreateAttempts = 1000

// MemoVault stores memos as files named memo-<createdAt>.md.
type MemoVault struct {
	store   storage.Storage
	folder  string
	logger  *zap.Logger
	metrics *metrics
}

var _ repository.MemoRepository = (*MemoVault)(nil)

// Option configures a MemoVault.
type Option func(*MemoVault)

// WithMetrics registers the vault counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(v *MemoVault) {
		m := newMetrics()
		if err := m.register(reg); err != nil {
			v.logger.Warn("vault metrics not registered", zap.Error(err))
			return
		}
		v.metrics = m
	}
}

// NewMemoVault creates a vault over store keeping memos directly inside folder.
func NewMemoVault(store storage.Storage, folder string, logger *zap.Logger, opts ...Option) *MemoVault {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &MemoVault{
		store:  store,
		folder: strings.Trim(folder, "/"),
		logger: logger.With(zap.String("component", "vault"), zap.String("folder", folder)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *MemoVault) Init(ctx context.Context) error {
	err := v.store.EnsureFolder(ctx, v.folder)
	v.metrics.observe("ensure_folder", err)
	if err != nil {
		return fmt.Errorf("init notes folder: %w", err)
	}
	return nil
}

func (v *MemoVault) Ping(ctx context.Context) error {
	return v.store.Ping(ctx)
}

func (v *MemoVault) key(createdAt int64) string {
	return storage.Key(v.folder, memo.FileName(createdAt))
}

func (v *MemoVault) Create(ctx context.Context, m *model.Memo) (*model.Memo, error) {
	out := *m
	for attempt := 0; ; attempt++ {
		if attempt == maxCreateAttempts {
			return nil, fmt.Errorf("no free file name near %d", m.CreatedAt)
		}
		key := v.key(out.CreatedAt)
		_, err := v.store.Stat(ctx, key)
		if err == nil {
			out.CreatedAt++
			continue
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			v.metrics.observe("stat", err)
			return nil, fmt.Errorf("check %s: %w", key, err)
		}

		out.ID = strconv.FormatInt(out.CreatedAt, 10)
		if out.UpdatedAt < out.CreatedAt {
			out.UpdatedAt = out.CreatedAt
		}
		if err := v.write(ctx, key, out); err != nil {
			return nil, err
		}
		if attempt > 0 {
			v.logger.Info("memo file name taken, advanced creation time",
				zap.Int64("requested", m.CreatedAt),
				zap.Int64("created_at", out.CreatedAt))
		}
		out.FileKey = key
		return &out, nil
	}
}

func (v *MemoVault) FindByID(ctx context.Context, id string) (*model.Memo, error) {
	ts, ok := memo.ParseID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	key := v.key(ts)

	text, err := v.read(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	m, err := v.decode(key, text)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &m, nil
}

func (v *MemoVault) Save(ctx context.Context, m *model.Memo) error {
	if m.FileKey == "" {
		return repository.ErrNoBackingFile
	}
	_, err := v.store.Stat(ctx, m.FileKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return repository.ErrNotFound
	}
	if err != nil {
		v.metrics.observe("stat", err)
		return fmt.Errorf("check %s: %w", m.FileKey, err)
	}
	return v.write(ctx, m.FileKey, *m)
}

func (v *MemoVault) Delete(ctx context.Context, id string) error {
	ts, ok := memo.ParseID(id)
	if !ok {
		return repository.ErrNotFound
	}
	key := v.key(ts)

	err := v.store.Delete(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return repository.ErrNotFound
	}
	v.metrics.observe("delete", err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (v *MemoVault) List(ctx context.Context) ([]model.Memo, error) {
	objs, err := v.store.List(ctx, v.folder)
	v.metrics.observe("list", err)
	if err != nil {
		return nil, fmt.Errorf("list notes folder: %w", err)
	}

	out := make([]model.Memo, 0, len(objs))
	for _, obj := range objs {
		if path.Ext(obj.Name) != memo.Ext {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := v.read(ctx, obj.Key)
		if err != nil {
			v.skip(obj.Key, "read", err)
			continue
		}
		m, err := v.decode(obj.Key, text)
		if err != nil {
			v.skip(obj.Key, "decode", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// decode parses a stored file. For memo-<millis>.md names the file name is
// authoritative for id and creation time.
func (v *MemoVault) decode(key, text string) (model.Memo, error) {
	_, name := storage.Split(key)
	ident, canonical := memo.ParseFileName(name)

	m, err := memo.Decode(text, ident.ID, ident.CreatedAt)
	if err != nil {
		return model.Memo{}, err
	}
	if canonical {
		m.ID = ident.ID
		m.CreatedAt = ident.CreatedAt
	}
	m.FileKey = key
	return m, nil
}

func (v *MemoVault) read(ctx context.Context, key string) (string, error) {
	rc, _, err := v.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			v.metrics.observe("get", err)
		}
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	v.metrics.observe("get", err)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(b), nil
}

func (v *MemoVault) write(ctx context.Context, key string, m model.Memo) error {
	body := memo.Encode(m)
	_, err := v.store.Put(ctx, key, strings.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: contentType,
	})
	v.metrics.observe("put", err)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (v *MemoVault) skip(key, reason string, err error) {
	v.logger.Warn("skipping unreadable memo file",
		zap.String("file", key),
		zap.String("reason", reason),
		zap.Error(err))
	v.metrics.skipped(reason)
}
