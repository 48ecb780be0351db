package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"memoapi/internal/memo"
	"memoapi/internal/model"
	"memoapi/internal/query"
	"memoapi/internal/service"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// Options carries the display settings applied to memo listings and responses.
type Options struct {
	DateFormat   string
	DisplayCount int
	DefaultSort  model.SortKey
	// Location renders display dates and bounds the today/week views. Defaults to time.Local.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// MemoResponse is a memo with its timestamps rendered in the display date format.
type MemoResponse struct {
	model.Memo
	CreatedDisplay string `json:"created_display"`
	UpdatedDisplay string `json:"updated_display"`
}

// MemoListResponse wraps a memo listing.
type MemoListResponse struct {
	Items []MemoResponse `json:"data"`
	Total int            `json:"total"`
}

type memoRequest struct {
	Content string `json:"content"`
}

func present(m model.Memo, opts Options) MemoResponse {
	return MemoResponse{
		Memo:           m,
		CreatedDisplay: memo.FormatDate(m.CreatedAt, opts.DateFormat, opts.location()),
		UpdatedDisplay: memo.FormatDate(m.UpdatedAt, opts.DateFormat, opts.location()),
	}
}

func presentList(memos []model.Memo, opts Options) MemoListResponse {
	items := make([]MemoResponse, 0, len(memos))
	for _, m := range memos {
		items = append(items, present(m, opts))
	}
	return MemoListResponse{Items: items, Total: len(items)}
}

// ListMemos handles GET /memos?limit=&sort=&view=all|today|week|tag&tag=.
func ListMemos(svc service.MemoService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := opts.DisplayCount
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
			limit = n
		}

		sortKey := opts.DefaultSort
		if v := c.Query("sort"); v != "" {
			k, ok := model.ParseSortKey(v)
			if !ok {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SORT", "sort must be createdAt or updatedAt")
			}
			sortKey = k
		}

		var q model.SearchQuery
		now := timeNow().In(opts.location())
		switch c.Query("view", "all") {
		case "all":
			memos, err := svc.ListAll(c.UserContext(), limit, sortKey)
			if err != nil {
				return internalError(c)
			}
			return c.JSON(presentList(memos, opts))
		case "today":
			r := query.Today(now)
			q.TimeRange = &r
		case "week":
			r := query.ThisWeek(now)
			q.TimeRange = &r
		case "tag":
			tag := memo.NormalizeTag(c.Query("tag"))
			if tag == "" {
				return writeError(c, fiber.StatusBadRequest, "TAG_REQUIRED", "tag is required for the tag view")
			}
			q.Tags = []string{tag}
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_VIEW", "view must be all, today, week or tag")
		}

		memos, err := svc.Search(c.UserContext(), q)
		if err != nil {
			return internalError(c)
		}
		query.Sort(memos, sortKey)
		return c.JSON(presentList(query.Limit(memos, limit), opts))
	}
}

// SearchMemos handles GET /memos/search?q=&tag=&from=&to=.
// tag may repeat or hold a comma separated list; from and to are epoch milliseconds.
func SearchMemos(svc service.MemoService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := model.SearchQuery{Text: c.Query("q")}

		for _, raw := range c.Context().QueryArgs().PeekMulti("tag") {
			for _, t := range strings.Split(string(raw), ",") {
				if t = memo.NormalizeTag(t); t != "" {
					q.Tags = append(q.Tags, t)
				}
			}
		}

		from, errFrom := parseMillis(c.Query("from"))
		to, errTo := parseMillis(c.Query("to"))
		if errFrom != nil || errTo != nil || (to != 0 && from > to) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_RANGE", "from and to must be epoch milliseconds with from <= to")
		}
		if from != 0 || to != 0 {
			q.TimeRange = &model.TimeRange{From: from, To: to}
		}

		memos, err := svc.Search(c.UserContext(), q)
		if err != nil {
			return internalError(c)
		}
		return c.JSON(presentList(memos, opts))
	}
}

func parseMillis(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("invalid timestamp")
	}
	return n, nil
}

// CreateMemo handles POST /memos with a JSON body {"content": "..."}.
func CreateMemo(svc service.MemoService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := contentFromBody(c)
		if err != nil {
			return err
		}
		m, err := svc.Create(c.UserContext(), content)
		if err != nil {
			return internalError(c)
		}
		return c.Status(fiber.StatusCreated).JSON(present(*m, opts))
	}
}

// GetMemo handles GET /memos/:id.
func GetMemo(svc service.MemoService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := memoID(c)
		if !ok {
			return invalidID(c)
		}
		m, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return memoNotFound(c)
			}
			return internalError(c)
		}
		return c.JSON(present(*m, opts))
	}
}

// UpdateMemo handles PUT /memos/:id with a JSON body {"content": "..."}.
func UpdateMemo(svc service.MemoService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := memoID(c)
		if !ok {
			return invalidID(c)
		}
		content, err := contentFromBody(c)
		if err != nil {
			return err
		}
		m, err := svc.Update(c.UserContext(), id, content)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return memoNotFound(c)
			}
			return internalError(c)
		}
		return c.JSON(present(*m, opts))
	}
}

// DeleteMemo handles DELETE /memos/:id.
func DeleteMemo(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := memoID(c)
		if !ok {
			return invalidID(c)
		}
		deleted, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return internalError(c)
		}
		if !deleted {
			return memoNotFound(c)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// contentFromBody parses the request body and rejects blank content. On
// failure the error response has already been written and is returned.
func contentFromBody(c *fiber.Ctx) (string, error) {
	var req memoRequest
	if err := c.BodyParser(&req); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with a content field")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return "", writeError(c, fiber.StatusBadRequest, "CONTENT_REQUIRED", "content is required")
	}
	return content, nil
}

func memoID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	_, ok := memo.ParseID(id)
	return id, ok
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func memoNotFound(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "memo not found")
}
