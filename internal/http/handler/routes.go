package handler

import (
	"github.com/gofiber/fiber/v2"

	"memoapi/internal/service"
)

// Deps groups what the HTTP routes need.
type Deps struct {
	// Health is pinged by /health; usually the memo storage backend.
	Health  Pinger
	Memos   service.MemoService
	Tags    service.TagService
	Options Options
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Health))
	app.Get("/healthz", LivenessProbe())

	memos := app.Group("/memos")
	memos.Get("/", ListMemos(d.Memos, d.Options))
	memos.Post("/", CreateMemo(d.Memos, d.Options))
	// Registered before /:id so "search" is not taken for an id.
	memos.Get("/search", SearchMemos(d.Memos, d.Options))
	memos.Get("/:id", GetMemo(d.Memos, d.Options))
	memos.Put("/:id", UpdateMemo(d.Memos, d.Options))
	memos.Delete("/:id", DeleteMemo(d.Memos))

	tags := app.Group("/tags")
	tags.Get("/", ListTags(d.Tags))
	tags.Post("/merge", MergeTags(d.Tags))
	tags.Put("/:name", RenameTag(d.Tags))
	tags.Delete("/:name", DeleteTag(d.Tags))
}
