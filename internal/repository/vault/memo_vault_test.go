package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"memoapi/internal/memo"
	"memoapi/internal/model"
	"memoapi/internal/repository"
	"memoapi/internal/storage"
	"memoapi/internal/storage/mocks"
)

func newVault(t *testing.T, opts ...Option) (*MemoVault, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	v := NewMemoVault(storage.NewFS(fsys), "memos", zap.NewNop(), opts...)
	require.NoError(t, v.Init(context.Background()))
	return v, fsys
}

func newMemo(ts int64, content string) *model.Memo {
	return &model.Memo{
		CreatedAt: ts,
		UpdatedAt: ts,
		Content:   content,
		Tags:      memo.ExtractTags(content),
	}
}

func TestMemoVault_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	v, fsys := newVault(t)

	created, err := v.Create(ctx, newMemo(1714558830123, "hello #work"))
	require.NoError(t, err)
	assert.Equal(t, "1714558830123", created.ID)
	assert.Equal(t, "memos/memo-1714558830123.md", created.FileKey)

	ok, err := afero.Exists(fsys, "memos/memo-1714558830123.md")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := v.FindByID(ctx, "1714558830123")
	require.NoError(t, err)
	assert.Equal(t, "hello #work", got.Content)
	assert.Equal(t, []string{"work"}, got.Tags)
	assert.Equal(t, int64(1714558830123), got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, created.FileKey, got.FileKey)
}

func TestMemoVault_CreateCollisionAdvancesTimestamp(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	fsys := afero.NewMemMapFs()
	v := NewMemoVault(storage.NewFS(fsys), "memos", zap.New(core))
	require.NoError(t, v.Init(ctx))

	first, err := v.Create(ctx, newMemo(100, "first"))
	require.NoError(t, err)
	second, err := v.Create(ctx, newMemo(100, "second"))
	require.NoError(t, err)

	assert.Equal(t, "100", first.ID)
	assert.Equal(t, "101", second.ID)
	assert.Equal(t, int64(101), second.CreatedAt)
	assert.Equal(t, int64(101), second.UpdatedAt)
	assert.Equal(t, 1, logs.FilterMessage("memo file name taken, advanced creation time").Len())

	got, err := v.FindByID(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
}

func TestMemoVault_FindByID_Exact(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	_, err := v.Create(ctx, newMemo(12345, "long id"))
	require.NoError(t, err)

	tests := []string{"123", "2345", "012345", "+12345", "", "abc"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			_, err := v.FindByID(ctx, id)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestMemoVault_FileNameIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	v, fsys := newVault(t)

	text := "---\nid: 999\ncreated: 2020-01-01T00:00:00.000Z\nupdated: 2024-05-01T10:20:30.123Z\ntags: #stale\n---\n\nbody #fresh\n"
	require.NoError(t, afero.WriteFile(fsys, "memos/memo-500.md", []byte(text), 0o644))

	got, err := v.FindByID(ctx, "500")
	require.NoError(t, err)
	assert.Equal(t, "500", got.ID)
	assert.Equal(t, int64(500), got.CreatedAt)
	assert.Equal(t, []string{"fresh"}, got.Tags)
}

func TestMemoVault_Save(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	created, err := v.Create(ctx, newMemo(100, "before"))
	require.NoError(t, err)

	created.Content = "after #new"
	created.Tags = memo.ExtractTags(created.Content)
	created.UpdatedAt = 200
	require.NoError(t, v.Save(ctx, created))

	got, err := v.FindByID(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "after #new", got.Content)
	assert.Equal(t, int64(200), got.UpdatedAt)
	assert.Equal(t, int64(100), got.CreatedAt)
}

func TestMemoVault_SaveErrors(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	err := v.Save(ctx, newMemo(100, "never stored"))
	assert.ErrorIs(t, err, repository.ErrNoBackingFile)

	orphan := newMemo(100, "gone")
	orphan.FileKey = "memos/memo-100.md"
	err = v.Save(ctx, orphan)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoVault_Delete(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	_, err := v.Create(ctx, newMemo(100, "doomed"))
	require.NoError(t, err)

	require.NoError(t, v.Delete(ctx, "100"))
	_, err = v.FindByID(ctx, "100")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, v.Delete(ctx, "100"), repository.ErrNotFound)
	assert.ErrorIs(t, v.Delete(ctx, "not-an-id"), repository.ErrNotFound)
}

func TestMemoVault_ListSkipsBadFiles(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	core, logs := observer.New(zapcore.WarnLevel)
	fsys := afero.NewMemMapFs()
	v := NewMemoVault(storage.NewFS(fsys), "memos", zap.New(core), WithMetrics(reg))
	require.NoError(t, v.Init(ctx))

	for _, ts := range []int64{1, 2, 3} {
		_, err := v.Create(ctx, newMemo(ts, "memo"))
		require.NoError(t, err)
	}
	require.NoError(t, afero.WriteFile(fsys, "memos/memo-4.md", []byte{0x00, 0x01, 0x02}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "memos/notes.txt", []byte("not a memo"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "memos/journal.md", []byte("foreign #x"), 0o644))

	memos, err := v.List(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(memos))
	for _, m := range memos {
		ids = append(ids, m.ID)
	}
	assert.Len(t, memos, 4)
	assert.Subset(t, ids, []string{"1", "2", "3"})
	assert.NotContains(t, ids, "4")

	entries := logs.FilterMessage("skipping unreadable memo file").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "memos/memo-4.md", entries[0].ContextMap()["file"])

	assert.Equal(t, 1.0, testutil.ToFloat64(v.metrics.decodeSkipped.WithLabelValues("decode")))
	assert.Equal(t, 3.0, testutil.ToFloat64(v.metrics.storageOps.WithLabelValues("put", "ok")))
}

func TestMemoVault_ForeignFileGetsSyntheticIdentity(t *testing.T) {
	ctx := context.Background()
	v, fsys := newVault(t)
	require.NoError(t, afero.WriteFile(fsys, "memos/journal.md", []byte("plain body #x"), 0o644))

	memos, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 1)

	m := memos[0]
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "plain body #x", m.Content)
	assert.Equal(t, []string{"x"}, m.Tags)
	assert.Equal(t, "memos/journal.md", m.FileKey)
}

func TestMemoVault_ListMissingFolder(t *testing.T) {
	v := NewMemoVault(storage.NewFS(afero.NewMemMapFs()), "memos", nil)
	_, err := v.List(context.Background())
	assert.Error(t, err)
}

func TestMemoVault_StorageFailuresSurface(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("permission denied")

	t.Run("init", func(t *testing.T) {
		store := new(mocks.MockStorage)
		store.On("EnsureFolder", mock.Anything, "memos").Return(boom)

		err := NewMemoVault(store, "memos", nil).Init(ctx)
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("create", func(t *testing.T) {
		store := new(mocks.MockStorage)
		store.On("Stat", mock.Anything, "memos/memo-1.md").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
		store.On("Put", mock.Anything, "memos/memo-1.md", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, boom)

		_, err := NewMemoVault(store, "memos", nil).Create(ctx, newMemo(1, "x"))
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		store := new(mocks.MockStorage)
		store.On("Delete", mock.Anything, "memos/memo-1.md").Return(boom)

		err := NewMemoVault(store, "memos", nil).Delete(ctx, "1")
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, repository.ErrNotFound))
	})
}

func TestWithMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	core, logs := observer.New(zapcore.WarnLevel)
	store := storage.NewFS(afero.NewMemMapFs())

	first := NewMemoVault(store, "memos", zap.New(core), WithMetrics(reg))
	second := NewMemoVault(store, "memos", zap.New(core), WithMetrics(reg))

	assert.NotNil(t, first.metrics)
	assert.Nil(t, second.metrics)
	assert.Equal(t, 1, logs.FilterMessage("vault metrics not registered").Len())
}
