package service

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"memoapi/internal/memo"
	"memoapi/internal/model"
)

const defaultPopularTags = 10

// TagService aggregates and rewrites tags across all memos.
type TagService interface {
	// AllTags returns every tag with its memo count, most used first.
	AllTags(ctx context.Context) ([]model.TagCount, error)

	// PopularTags returns the limit most used tags (limit <= 0 means 10).
	PopularTags(ctx context.Context, limit int) ([]model.TagCount, error)

	// RenameTag replaces the whole token #oldName with #newName in every memo using it.
	RenameTag(ctx context.Context, oldName, newName string) (model.BulkResult, error)

	// DeleteTag removes the whole token #name from every memo using it.
	DeleteTag(ctx context.Context, name string) (model.BulkResult, error)

	// MergeTags renames each of names to target. Every name is validated
	// before any memo is rewritten.
	MergeTags(ctx context.Context, names []string, target string) (model.BulkResult, error)
}

type tagService struct {
	memos  MemoService
	logger *zap.Logger
}

// NewTagService constructs a TagService on top of the memo store.
func NewTagService(memos MemoService, logger *zap.Logger) TagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tagService{memos: memos, logger: logger.With(zap.String("component", "tag_service"))}
}

func (s *tagService) AllTags(ctx context.Context) ([]model.TagCount, error) {
	ctx, span := tracer.Start(ctx, "TagService.AllTags")
	defer span.End()

	memos, err := s.memos.ListAll(ctx, 0, model.SortByCreated)
	if err != nil {
		return nil, spanError(span, err)
	}

	counts := make(map[string]int)
	out := make([]model.TagCount, 0)
	for _, m := range memos {
		for _, tag := range m.Tags {
			if _, seen := counts[tag]; !seen {
				out = append(out, model.TagCount{Name: tag})
			}
			counts[tag]++
		}
	}
	for i := range out {
		out[i].Count = counts[out[i].Name]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (s *tagService) PopularTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	if limit <= 0 {
		limit = defaultPopularTags
	}
	tags, err := s.AllTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (s *tagService) RenameTag(ctx context.Context, oldName, newName string) (model.BulkResult, error) {
	ctx, span := tracer.Start(ctx, "TagService.RenameTag", trace.WithAttributes(
		attribute.String("tag.old", oldName),
		attribute.String("tag.new", newName),
	))
	defer span.End()

	oldName, newName = memo.NormalizeTag(oldName), memo.NormalizeTag(newName)
	if !memo.ValidTagName(oldName) || !memo.ValidTagName(newName) {
		return emptyResult(), ErrInvalidTagName
	}
	if oldName == newName {
		return emptyResult(), nil
	}
	return s.rewrite(ctx, span, oldName, "#"+newName)
}

func (s *tagService) DeleteTag(ctx context.Context, name string) (model.BulkResult, error) {
	ctx, span := tracer.Start(ctx, "TagService.DeleteTag", trace.WithAttributes(attribute.String("tag.name", name)))
	defer span.End()

	name = memo.NormalizeTag(name)
	if !memo.ValidTagName(name) {
		return emptyResult(), ErrInvalidTagName
	}
	return s.rewrite(ctx, span, name, "")
}

func (s *tagService) MergeTags(ctx context.Context, names []string, target string) (model.BulkResult, error) {
	target = memo.NormalizeTag(target)
	if !memo.ValidTagName(target) {
		return emptyResult(), ErrInvalidTagName
	}

	// Every source name is checked before the first write.
	sources := make([]string, 0, len(names))
	seen := map[string]struct{}{target: {}}
	for _, name := range names {
		name = memo.NormalizeTag(name)
		if !memo.ValidTagName(name) {
			return emptyResult(), ErrInvalidTagName
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}

	res := emptyResult()
	for _, name := range sources {
		r, err := s.RenameTag(ctx, name, target)
		if err != nil {
			return res, err
		}
		res.Merge(r)
	}
	return res, nil
}

// rewrite collects every memo tagged old first, then replaces the token in
// each one. A failed write is recorded and the run continues.
func (s *tagService) rewrite(ctx context.Context, span trace.Span, old, replacement string) (model.BulkResult, error) {
	affected, err := s.memos.Search(ctx, model.SearchQuery{Tags: []string{old}})
	if err != nil {
		return emptyResult(), spanError(span, err)
	}

	res := emptyResult()
	for _, m := range affected {
		content := memo.ReplaceTag(m.Content, old, replacement)
		if content == m.Content {
			continue
		}
		if _, err := s.memos.Rewrite(ctx, m, content); err != nil {
			s.logger.Warn("tag rewrite failed",
				zap.String("id", m.ID),
				zap.String("tag", old),
				zap.Error(err))
			res.Failed = append(res.Failed, model.BulkFailure{ID: m.ID, Error: err.Error()})
			continue
		}
		res.Updated = append(res.Updated, m.ID)
	}

	span.SetAttributes(
		attribute.Int("tag.updated", len(res.Updated)),
		attribute.Int("tag.failed", len(res.Failed)),
	)
	return res, nil
}

func emptyResult() model.BulkResult {
	return model.BulkResult{Updated: []string{}}
}
