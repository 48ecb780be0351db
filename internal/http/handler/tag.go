package handler

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"memoapi/internal/model"
	"memoapi/internal/service"
)

// TagListResponse wraps a tag listing.
type TagListResponse struct {
	Items []model.TagCount `json:"data"`
	Total int              `json:"total"`
}

// BulkResponse reports the outcome of a tag rewrite across memos.
type BulkResponse struct {
	model.BulkResult
	Count int `json:"count"`
}

type renameTagRequest struct {
	Name string `json:"name"`
}

type mergeTagsRequest struct {
	Names  []string `json:"names"`
	Target string   `json:"target"`
}

// ListTags handles GET /tags. With limit set it returns the most used tags only.
func ListTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			tags []model.TagCount
			err  error
		)
		if v := c.Query("limit"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
			tags, err = svc.PopularTags(c.UserContext(), n)
		} else {
			tags, err = svc.AllTags(c.UserContext())
		}
		if err != nil {
			return internalError(c)
		}
		return c.JSON(TagListResponse{Items: tags, Total: len(tags)})
	}
}

// RenameTag handles PUT /tags/:name with a JSON body {"name": "<new name>"}.
func RenameTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := tagParam(c)
		if !ok {
			return invalidTag(c)
		}
		var req renameTagRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with a name field")
		}
		res, err := svc.RenameTag(c.UserContext(), name, req.Name)
		return bulkReply(c, res, err)
	}
}

// DeleteTag handles DELETE /tags/:name.
func DeleteTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := tagParam(c)
		if !ok {
			return invalidTag(c)
		}
		res, err := svc.DeleteTag(c.UserContext(), name)
		return bulkReply(c, res, err)
	}
}

// MergeTags handles POST /tags/merge with a JSON body {"names": [...], "target": "..."}.
func MergeTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req mergeTagsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with names and target")
		}
		if len(req.Names) == 0 {
			return writeError(c, fiber.StatusBadRequest, "NAMES_REQUIRED", "names must not be empty")
		}
		res, err := svc.MergeTags(c.UserContext(), req.Names, req.Target)
		return bulkReply(c, res, err)
	}
}

func bulkReply(c *fiber.Ctx, res model.BulkResult, err error) error {
	if err != nil {
		if errors.Is(err, service.ErrInvalidTagName) {
			return invalidTag(c)
		}
		return internalError(c)
	}
	if res.Updated == nil {
		res.Updated = []string{}
	}
	return c.JSON(BulkResponse{BulkResult: res, Count: res.Count()})
}

// tagParam returns the unescaped :name route parameter.
func tagParam(c *fiber.Ctx) (string, bool) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func invalidTag(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_TAG", "invalid tag name")
}
