// Package query filters, orders and truncates materialized memo lists.
// Search is a linear scan; there is no index.
package query

import (
	"sort"
	"strings"
	"time"

	"memoapi/internal/model"
)

// Filter returns the memos matching every predicate set in q, preserving order.
func Filter(memos []model.Memo, q model.SearchQuery) []model.Memo {
	text := strings.ToLower(q.Text)

	out := make([]model.Memo, 0, len(memos))
	for _, m := range memos {
		if text != "" && !strings.Contains(strings.ToLower(m.Content), text) {
			continue
		}
		if !hasAllTags(m, q.Tags) {
			continue
		}
		if !InRange(m.CreatedAt, q.TimeRange) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func hasAllTags(m model.Memo, tags []string) bool {
	for _, tag := range tags {
		if !m.HasTag(tag) {
			return false
		}
	}
	return true
}

// InRange reports whether ts lies within r, bounds inclusive. A nil range or
// a zero bound does not constrain.
func InRange(ts int64, r *model.TimeRange) bool {
	if r == nil {
		return true
	}
	if r.From != 0 && ts < r.From {
		return false
	}
	if r.To != 0 && ts > r.To {
		return false
	}
	return true
}

// Sort orders memos newest first by key. Equal timestamps keep their order.
func Sort(memos []model.Memo, key model.SortKey) {
	sort.SliceStable(memos, func(i, j int) bool {
		if key == model.SortByUpdated {
			return memos[i].UpdatedAt > memos[j].UpdatedAt
		}
		return memos[i].CreatedAt > memos[j].CreatedAt
	})
}

// Limit truncates memos to n entries; n <= 0 means no limit.
func Limit(memos []model.Memo, n int) []model.Memo {
	if n > 0 && len(memos) > n {
		return memos[:n]
	}
	return memos
}

// Today spans the calendar day containing now, in now's location.
func Today(now time.Time) model.TimeRange {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return model.TimeRange{From: start.UnixMilli(), To: endOfDay(start)}
}

// ThisWeek spans Monday 00:00 of now's week through the end of now's day.
func ThisWeek(now time.Time) model.TimeRange {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, 1-weekday)
	return model.TimeRange{From: start.UnixMilli(), To: endOfDay(day)}
}

func endOfDay(start time.Time) int64 {
	return start.AddDate(0, 0, 1).UnixMilli() - 1
}
