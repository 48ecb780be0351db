package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"memoapi/internal/memo"
	"memoapi/internal/model"
	"memoapi/internal/query"
	"memoapi/internal/repository"
)

var (
	ErrNotFound       = errors.New("memo not found")
	ErrInvalidTagName = errors.New("invalid tag name")
)

// timeNow is replaced in tests.
var timeNow = time.Now

var tracer = otel.Tracer("memoapi/internal/service")

// MemoService defines the memo store use cases.
type MemoService interface {
	// Initialize ensures the notes folder exists. It is idempotent.
	Initialize(ctx context.Context) error

	// Create stores content as a new memo stamped with the current time.
	// Content is trimmed; callers reject empty content before calling.
	// The returned memo has no FileKey; re-fetch it if a handle is needed.
	Create(ctx context.Context, content string) (*model.Memo, error)

	// GetByID returns the memo with the given id or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Memo, error)

	// Update replaces a memo's content in place, keeping id and creation time.
	Update(ctx context.Context, id, content string) (*model.Memo, error)

	// Rewrite replaces the content of a memo previously read from storage,
	// addressing it by its backing file. Update is GetByID followed by Rewrite.
	Rewrite(ctx context.Context, m model.Memo, content string) (*model.Memo, error)

	// Delete removes a memo. It reports false, with no error, for unknown ids.
	Delete(ctx context.Context, id string) (bool, error)

	// ListAll returns memos newest first by sortKey, truncated to limit (<= 0 means all).
	ListAll(ctx context.Context, limit int, sortKey model.SortKey) ([]model.Memo, error)

	// Search returns the memos matching every predicate set in q, newest first.
	Search(ctx context.Context, q model.SearchQuery) ([]model.Memo, error)
}

type memoService struct {
	repo   repository.MemoRepository
	logger *zap.Logger
}

// NewMemoService constructs a new MemoService.
func NewMemoService(repo repository.MemoRepository, logger *zap.Logger) MemoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoService{repo: repo, logger: logger.With(zap.String("component", "memo_service"))}
}

func (s *memoService) Initialize(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "MemoService.Initialize")
	defer span.End()

	if err := s.repo.Init(ctx); err != nil {
		return spanError(span, err)
	}
	return nil
}

func (s *memoService) Create(ctx context.Context, content string) (*model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.Create")
	defer span.End()

	ts := timeNow().UnixMilli()
	content = memo.CleanContent(content)
	m := &model.Memo{
		ID:        strconv.FormatInt(ts, 10),
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
		Tags:      memo.ExtractTags(content),
	}

	stored, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("create memo: %w", err))
	}
	span.SetAttributes(attribute.String("memo.id", stored.ID))
	s.logger.Debug("memo created", zap.String("id", stored.ID), zap.Int("tags", len(stored.Tags)))

	out := *stored
	out.FileKey = ""
	return &out, nil
}

func (s *memoService) GetByID(ctx context.Context, id string) (*model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.GetByID", trace.WithAttributes(attribute.String("memo.id", id)))
	defer span.End()

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, spanError(span, err)
	}
	return m, nil
}

func (s *memoService) Update(ctx context.Context, id, content string) (*model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.Update", trace.WithAttributes(attribute.String("memo.id", id)))
	defer span.End()

	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Rewrite(ctx, *m, content)
}

func (s *memoService) Rewrite(ctx context.Context, m model.Memo, content string) (*model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.Rewrite", trace.WithAttributes(attribute.String("memo.id", m.ID)))
	defer span.End()

	ts := timeNow().UnixMilli()
	if ts < m.UpdatedAt {
		ts = m.UpdatedAt
	}
	m.Content = memo.CleanContent(content)
	m.Tags = memo.ExtractTags(m.Content)
	m.UpdatedAt = ts

	if err := s.repo.Save(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrNoBackingFile) {
			return nil, ErrNotFound
		}
		return nil, spanError(span, fmt.Errorf("update memo %s: %w", m.ID, err))
	}
	return &m, nil
}

func (s *memoService) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "MemoService.Delete", trace.WithAttributes(attribute.String("memo.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, spanError(span, fmt.Errorf("delete memo %s: %w", id, err))
	}
	return true, nil
}

func (s *memoService) ListAll(ctx context.Context, limit int, sortKey model.SortKey) ([]model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.ListAll")
	defer span.End()

	memos, err := s.repo.List(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}
	query.Sort(memos, sortKey)
	memos = query.Limit(memos, limit)

	span.SetAttributes(attribute.Int("memo.count", len(memos)))
	return memos, nil
}

func (s *memoService) Search(ctx context.Context, q model.SearchQuery) ([]model.Memo, error) {
	ctx, span := tracer.Start(ctx, "MemoService.Search")
	defer span.End()

	memos, err := s.ListAll(ctx, 0, model.SortByCreated)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = memo.NormalizeTag(t); t != "" {
			tags = append(tags, t)
		}
	}
	q.Tags = tags

	out := query.Filter(memos, q)
	span.SetAttributes(attribute.Int("memo.count", len(out)))
	return out, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
