package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memoapi/internal/model"
	repoMocks "memoapi/internal/repository/mocks"
)

// seed creates one memo per content with ids 1..n.
func seed(t *testing.T, svc MemoService, contents ...string) {
	t.Helper()
	for i, c := range contents {
		setClock(t, int64(i+1))
		_, err := svc.Create(context.Background(), c)
		require.NoError(t, err)
	}
}

func content(t *testing.T, svc MemoService, id string) string {
	t.Helper()
	m, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	return m.Content
}

func TestTagService_AllTags(t *testing.T) {
	memos := newStore(t)
	seed(t, memos, "#a #b", "#b #c", "#b #a", "#d")
	tags := NewTagService(memos, nil)

	got, err := tags.AllTags(context.Background())
	require.NoError(t, err)
	// Ties keep first-seen order over the newest-first listing.
	assert.Equal(t, []model.TagCount{
		{Name: "b", Count: 3},
		{Name: "a", Count: 2},
		{Name: "d", Count: 1},
		{Name: "c", Count: 1},
	}, got)
}

func TestTagService_PopularTags(t *testing.T) {
	memos := newStore(t)
	contents := make([]string, 0, 12)
	for _, tag := range []string{"t01", "t02", "t03", "t04", "t05", "t06", "t07", "t08", "t09", "t10", "t11", "t12"} {
		contents = append(contents, "#"+tag+" #common")
	}
	seed(t, memos, contents...)
	tags := NewTagService(memos, nil)

	got, err := tags.PopularTags(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, model.TagCount{Name: "common", Count: 12}, got[0])

	got, err = tags.PopularTags(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTagService_RenameTag_WholeToken(t *testing.T) {
	ctx := context.Background()
	memos := newStore(t)
	seed(t, memos, "#a #ab", "#ab only", "nothing")
	tags := NewTagService(memos, nil)

	res, err := tags.RenameTag(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, []string{"1"}, res.Updated)
	assert.Empty(t, res.Failed)

	assert.Equal(t, "#b #ab", content(t, memos, "1"))
	assert.Equal(t, "#ab only", content(t, memos, "2"))

	m, err := memos.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "ab"}, m.Tags)
}

func TestTagService_RenameTag_Validation(t *testing.T) {
	memos := newStore(t)
	seed(t, memos, "#a")
	tags := NewTagService(memos, nil)

	res, err := tags.RenameTag(context.Background(), "#a", "a")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
	assert.NotNil(t, res.Updated)

	_, err = tags.RenameTag(context.Background(), "a", "two words")
	assert.ErrorIs(t, err, ErrInvalidTagName)

	_, err = tags.RenameTag(context.Background(), "", "b")
	assert.ErrorIs(t, err, ErrInvalidTagName)
}

func TestTagService_DeleteTag(t *testing.T) {
	memos := newStore(t)
	seed(t, memos, "keep #x and #xy", "#x")
	tags := NewTagService(memos, nil)

	res, err := tags.DeleteTag(context.Background(), "#x")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, res.Updated)

	assert.Equal(t, "keep  and #xy", content(t, memos, "1"))
	assert.Equal(t, "", content(t, memos, "2"))
}

func TestTagService_MergeTags(t *testing.T) {
	memos := newStore(t)
	seed(t, memos, "#js", "#javascript", "#ecmascript #js", "#go")
	tags := NewTagService(memos, nil)

	res, err := tags.MergeTags(context.Background(), []string{"js", "ecmascript", "javascript"}, "#javascript")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count())

	assert.Equal(t, "#javascript", content(t, memos, "1"))
	assert.Equal(t, "#javascript #javascript", content(t, memos, "3"))
	assert.Equal(t, "#go", content(t, memos, "4"))

	all, err := tags.AllTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.TagCount{{Name: "go", Count: 1}, {Name: "javascript", Count: 3}}, sortByName(all))

	_, err = tags.MergeTags(context.Background(), []string{"go"}, "")
	assert.ErrorIs(t, err, ErrInvalidTagName)
}

func TestTagService_MergeTagsRejectsBadNameBeforeWriting(t *testing.T) {
	memos := newStore(t)
	seed(t, memos, "one #a", "two #c")
	tags := NewTagService(memos, nil)

	res, err := tags.MergeTags(context.Background(), []string{"a", "bad name"}, "b")
	assert.ErrorIs(t, err, ErrInvalidTagName)
	assert.Empty(t, res.Updated)

	assert.Equal(t, "one #a", content(t, memos, "1"))
	assert.Equal(t, "two #c", content(t, memos, "2"))
}

func TestTagService_PartialFailureContinues(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("read-only file")

	repo := new(repoMocks.MockMemoRepository)
	repo.On("List", mock.Anything).Return([]model.Memo{
		{ID: "1", Content: "#a one", CreatedAt: 1, Tags: []string{"a"}, FileKey: "memos/memo-1.md"},
		{ID: "2", Content: "#a two", CreatedAt: 2, Tags: []string{"a"}, FileKey: "memos/memo-2.md"},
		{ID: "3", Content: "#a three", CreatedAt: 3, Tags: []string{"a"}, FileKey: "memos/memo-3.md"},
	}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(m *model.Memo) bool { return m.ID == "2" })).Return(boom)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	tags := NewTagService(NewMemoService(repo, nil), nil)
	res, err := tags.RenameTag(ctx, "a", "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "1"}, res.Updated)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "2", res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Error, "read-only file")
	repo.AssertNumberOfCalls(t, "Save", 3)
}

func TestTagService_ListFailure(t *testing.T) {
	boom := errors.New("offline")
	repo := new(repoMocks.MockMemoRepository)
	repo.On("List", mock.Anything).Return(nil, boom)
	tags := NewTagService(NewMemoService(repo, nil), nil)

	_, err := tags.AllTags(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = tags.DeleteTag(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
}

func sortByName(tags []model.TagCount) []model.TagCount {
	out := append([]model.TagCount(nil), tags...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Name < out[j-1].Name; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
